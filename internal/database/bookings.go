package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start,
		booking.End,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// GetBookingByID loads a booking together with its item name, item owner,
// and booker name.
func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status,
                     b.created_at, b.updated_at, i.name, i.owner_id, u.name
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users u ON u.id = b.booker_id
              WHERE b.id = ?`
	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.ItemName, &b.ItemOwnerID, &b.BookerName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

// PastAndCurrentApprovedShorts returns APPROVED bookings with start <= now
// for the given items, ordered by (item_id, start DESC) so the first row per
// item is that item's most recent booking.
func (db *DB) PastAndCurrentApprovedShorts(ctx context.Context, itemIDs []int64, now time.Time) ([]models.BookingShort, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, booker_id, item_id, start_date, end_date
              FROM bookings
              WHERE item_id IN (` + placeholders(len(itemIDs)) + `)
                AND status = ?
                AND start_date <= ?
              ORDER BY item_id, start_date DESC`
	args := append(idArgs(itemIDs), models.StatusApproved, now)
	return db.queryShorts(ctx, query, args...)
}

// NextApprovedShorts returns APPROVED bookings with start > now for the
// given items, ordered by start ASC so the first row per item is that item's
// nearest upcoming booking.
func (db *DB) NextApprovedShorts(ctx context.Context, itemIDs []int64, now time.Time) ([]models.BookingShort, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, booker_id, item_id, start_date, end_date
              FROM bookings
              WHERE item_id IN (` + placeholders(len(itemIDs)) + `)
                AND status = ?
                AND start_date > ?
              ORDER BY start_date ASC`
	args := append(idArgs(itemIDs), models.StatusApproved, now)
	return db.queryShorts(ctx, query, args...)
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status,
                     b.created_at, b.updated_at, i.name, i.owner_id, u.name
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users u ON u.id = b.booker_id
              WHERE b.booker_id = ? AND ` + stateClause(state) + `
              ORDER BY b.start_date DESC
              LIMIT ? OFFSET ?`
	args := append([]interface{}{bookerID}, stateArgs(state, now)...)
	args = append(args, limit, offset)
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status,
                     b.created_at, b.updated_at, i.name, i.owner_id, u.name
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users u ON u.id = b.booker_id
              WHERE i.owner_id = ? AND ` + stateClause(state) + `
              ORDER BY b.start_date DESC
              LIMIT ? OFFSET ?`
	args := append([]interface{}{ownerID}, stateArgs(state, now)...)
	args = append(args, limit, offset)
	return db.queryBookings(ctx, query, args...)
}

// stateClause and stateArgs translate a BookingState into a predicate over
// the stored status and the reference instant.
func stateClause(state models.BookingState) string {
	switch state {
	case models.StateCurrent:
		return `(? BETWEEN b.start_date AND b.end_date)`
	case models.StatePast:
		return `b.end_date < ?`
	case models.StateFuture:
		return `b.start_date > ?`
	case models.StateWaiting, models.StateRejected:
		return `b.status = ?`
	default:
		return `1 = 1`
	}
}

func stateArgs(state models.BookingState, now time.Time) []interface{} {
	switch state {
	case models.StateCurrent, models.StatePast, models.StateFuture:
		return []interface{}{now}
	case models.StateWaiting, models.StateRejected:
		return []interface{}{string(state)}
	default:
		return nil
	}
}

func (db *DB) queryShorts(ctx context.Context, query string, args ...interface{}) ([]models.BookingShort, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking shorts: %w", err)
	}
	defer rows.Close()

	var shorts []models.BookingShort
	for rows.Next() {
		var s models.BookingShort
		if err := rows.Scan(&s.ID, &s.BookerID, &s.ItemID, &s.Start, &s.End); err != nil {
			return nil, fmt.Errorf("failed to scan booking short: %w", err)
		}
		shorts = append(shorts, s)
	}
	return shorts, rows.Err()
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &b.ItemName, &b.ItemOwnerID, &b.BookerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
