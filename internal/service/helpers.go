package service

import (
	"context"
	"database/sql"
	"errors"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// ensureUser loads a user or reports NotFound. All services route their
// actor checks through here so the failure shape stays uniform.
func ensureUser(ctx context.Context, repo domain.Repository, id int64) (*models.User, error) {
	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user with id %d not found", id)
		}
		return nil, err
	}
	return user, nil
}

// ensureItem loads an item or reports NotFound.
func ensureItem(ctx context.Context, repo domain.Repository, id int64) (*models.Item, error) {
	item, err := repo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("item with id %d not found", id)
		}
		return nil, err
	}
	return item, nil
}

// ensureOwner verifies that actorID owns the item.
func ensureOwner(item *models.Item, actorID int64) error {
	if item.OwnerID != actorID {
		return domain.AccessDenied("user with id %d does not own item with id %d", actorID, item.ID)
	}
	return nil
}

// checkPage validates pagination parameters shared by the listing endpoints.
func checkPage(from, size int) error {
	if from < 0 || size <= 0 {
		return domain.BadRequest("invalid pagination: from=%d size=%d", from, size)
	}
	return nil
}
