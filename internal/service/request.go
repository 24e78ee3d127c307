package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) CreateRequest(ctx context.Context, description string, requestorID int64) (*models.ItemRequest, error) {
	if _, err := ensureUser(ctx, s.repo, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     time.Now(),
		Items:       []*models.Item{},
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("request_id", request.ID).Int64("user_id", requestorID).Msg("saved new item request")
	return request, nil
}

// GetOwnRequests returns the user's requests, newest first, each with the
// items offered in response to it.
func (s *RequestService) GetOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	if _, err := ensureUser(ctx, s.repo, requestorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(requests)).Int64("user_id", requestorID).Msg("fetched own requests")
	return requests, nil
}

// GetOtherRequests pages through requests created by everyone except the
// viewer, newest first.
func (s *RequestService) GetOtherRequests(ctx context.Context, requestorID int64, from, size int) ([]*models.ItemRequest, error) {
	if _, err := ensureUser(ctx, s.repo, requestorID); err != nil {
		return nil, err
	}
	if err := checkPage(from, size); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsFromOthers(ctx, requestorID, size, from)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(requests)).Int64("user_id", requestorID).Msg("fetched requests from others")
	return requests, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, requestID, viewerID int64) (*models.ItemRequest, error) {
	if _, err := ensureUser(ctx, s.repo, viewerID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("item request with id %d not found", requestID)
		}
		return nil, err
	}
	if err := s.attachItems(ctx, []*models.ItemRequest{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// attachItems fills each request's Items from a single batched lookup.
// Requests with no responses get an empty slice, not nil.
func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	byRequest, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range requests {
		items := byRequest[r.ID]
		if items == nil {
			items = []*models.Item{}
		}
		r.Items = items
	}
	return nil
}
