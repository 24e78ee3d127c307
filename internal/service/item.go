package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, eventBus: eventBus, logger: logger}
}

type lastNextPair struct {
	last *models.BookingShort
	next *models.BookingShort
}

// lastNextBookings resolves, for each item, the most recent past-or-current
// APPROVED booking and the nearest future APPROVED booking relative to now.
// Every requested id gets an entry; both sides may be nil. An empty input
// returns an empty map without touching the store.
func (s *ItemService) lastNextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]lastNextPair, error) {
	result := make(map[int64]lastNextPair, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	pastAndCurrent, err := s.repo.PastAndCurrentApprovedShorts(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextApprovedShorts(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}

	// Rows are ordered so the first row seen per item is the winner.
	lastByItem := make(map[int64]*models.BookingShort)
	for i := range pastAndCurrent {
		b := pastAndCurrent[i]
		if _, ok := lastByItem[b.ItemID]; !ok {
			lastByItem[b.ItemID] = &b
		}
	}
	nextByItem := make(map[int64]*models.BookingShort)
	for i := range next {
		b := next[i]
		if _, ok := nextByItem[b.ItemID]; !ok {
			nextByItem[b.ItemID] = &b
		}
	}

	for _, id := range itemIDs {
		result[id] = lastNextPair{last: lastByItem[id], next: nextByItem[id]}
	}
	return result, nil
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error) {
	if _, err := ensureUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	item.OwnerID = ownerID

	if item.RequestID != nil {
		if _, err := s.repo.GetRequestByID(ctx, *item.RequestID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn().Int64("request_id", *item.RequestID).Msg("item request not found when saving item")
				return nil, domain.NotFound("item request with id %d not found", *item.RequestID)
			}
			return nil, err
		}
		s.logger.Debug().Int64("request_id", *item.RequestID).Msg("linking item to request")
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("item_id", item.ID).Msg("saved new item")
	return item, nil
}

// GetItemByID returns the item with its comments. The last/next booking
// pair is attached only when the viewer owns the item; non-owners never see
// scheduling data.
func (s *ItemService) GetItemByID(ctx context.Context, itemID, viewerID int64) (*models.ItemWithBookings, error) {
	if _, err := ensureUser(ctx, s.repo, viewerID); err != nil {
		return nil, err
	}
	item, err := ensureItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}

	dto := &models.ItemWithBookings{Item: *item}

	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	dto.Comments = comments

	if item.OwnerID == viewerID {
		pairs, err := s.lastNextBookings(ctx, []int64{itemID}, time.Now())
		if err != nil {
			return nil, err
		}
		pair := pairs[itemID]
		dto.LastBooking = pair.last
		dto.NextBooking = pair.next
	}
	return dto, nil
}

// GetOwnerItems returns the owner's items with last/next booking pairs
// computed once for the whole batch against a single reference instant.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64) ([]*models.ItemWithBookings, error) {
	if _, err := ensureUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemWithBookings{}, nil
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	pairs, err := s.lastNextBookings(ctx, itemIDs, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]*models.ItemWithBookings, len(items))
	for i, item := range items {
		pair := pairs[item.ID]
		result[i] = &models.ItemWithBookings{
			Item:        *item,
			LastBooking: pair.last,
			NextBooking: pair.next,
		}
	}
	s.logger.Debug().Int("count", len(result)).Int64("owner_id", ownerID).Msg("fetched items with booking info")
	return result, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, patch models.ItemPatch, ownerID, itemID int64) (*models.Item, error) {
	item, err := ensureItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(item, ownerID); err != nil {
		s.logger.Warn().Int64("user_id", ownerID).Int64("item_id", itemID).Msg("item update denied")
		return nil, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("item_id", itemID).Msg("updated item")
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, itemID, ownerID int64) error {
	if _, err := ensureUser(ctx, s.repo, ownerID); err != nil {
		return err
	}
	item, err := ensureItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	if err := ensureOwner(item, ownerID); err != nil {
		s.logger.Warn().Int64("user_id", ownerID).Int64("item_id", itemID).Msg("item delete denied")
		return err
	}

	s.logger.Debug().Int64("item_id", itemID).Int64("user_id", ownerID).Msg("deleting item")
	return s.repo.DeleteItem(ctx, itemID)
}

// SearchItems matches available items only. A blank query returns an empty
// result without a store round trip. The viewer's own items are not
// excluded from results.
func (s *ItemService) SearchItems(ctx context.Context, query string, viewerID int64) ([]*models.Item, error) {
	if _, err := ensureUser(ctx, s.repo, viewerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		s.logger.Debug().Msg("search query is blank, returning empty list")
		return []*models.Item{}, nil
	}

	items, err := s.repo.SearchItems(ctx, query)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(items)).Str("query", query).Msg("found items by query")
	return items, nil
}

// AddComment persists feedback from a user who has a past or current
// APPROVED booking of the item.
func (s *ItemService) AddComment(ctx context.Context, text string, itemID, authorID int64) (*models.Comment, error) {
	author, err := ensureUser(ctx, s.repo, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := ensureItem(ctx, s.repo, itemID); err != nil {
		return nil, err
	}

	shorts, err := s.repo.PastAndCurrentApprovedShorts(ctx, []int64{itemID}, time.Now())
	if err != nil {
		return nil, err
	}
	booked := false
	for _, b := range shorts {
		if b.BookerID == authorID {
			booked = true
			break
		}
	}
	if !booked {
		s.logger.Warn().Int64("user_id", authorID).Int64("item_id", itemID).Msg("comment rejected, no completed booking")
		return nil, domain.BadRequest(
			"user %d cannot comment on item %d as they haven't booked it or the booking is not approved",
			authorID, itemID)
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
		Created:    time.Now(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	_ = s.eventBus.PublishJSON(events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  authorID,
	})

	s.logger.Debug().Int64("comment_id", comment.ID).Msg("saved new comment")
	return comment, nil
}
