package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created)
              VALUES (?, ?, ?)`
	if request.Created.IsZero() {
		request.Created = time.Now()
	}
	result, err := db.ExecContext(ctx, query,
		request.Description,
		request.RequestorID,
		request.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created
              FROM requests WHERE id = ?`
	var r models.ItemRequest
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Description, &r.RequestorID, &r.Created,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created
              FROM requests WHERE requestor_id = ?
              ORDER BY created DESC`
	rows, err := db.QueryContext(ctx, query, requestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests by requestor: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (db *DB) GetRequestsFromOthers(ctx context.Context, requestorID int64, limit, offset int) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created
              FROM requests WHERE requestor_id != ?
              ORDER BY created DESC
              LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, requestorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests from others: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]*models.ItemRequest, error) {
	var requests []*models.ItemRequest
	for rows.Next() {
		r := &models.ItemRequest{}
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
