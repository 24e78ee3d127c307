package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, eventBus: eventBus, logger: logger}
}

// CreateBooking registers a new booking in the WAITING status. Owners
// cannot book their own items; that case is reported as not found so the
// item's availability to its owner is not revealed as bookable.
func (s *BookingService) CreateBooking(ctx context.Context, itemID int64, start, end time.Time, bookerID int64) (*models.Booking, error) {
	booker, err := ensureUser(ctx, s.repo, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := ensureItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID == bookerID {
		s.logger.Warn().Int64("user_id", bookerID).Int64("item_id", itemID).Msg("owner attempted to book own item")
		return nil, domain.NotFound("item with id %d not found", itemID)
	}
	if !item.Available {
		return nil, domain.BadRequest("item with id %d is not available for booking", itemID)
	}
	if !end.After(start) {
		return nil, domain.BadRequest("booking end date must be after the start date")
	}

	booking := &models.Booking{
		ItemID:      itemID,
		BookerID:    bookerID,
		Start:       start,
		End:         end,
		Status:      models.StatusWaiting,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerName:  booker.Name,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	_ = s.eventBus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    itemID,
		ItemName:  item.Name,
		BookerID:  bookerID,
		OwnerID:   item.OwnerID,
		Status:    booking.Status,
		Start:     start,
		End:       end,
	})

	s.logger.Debug().Int64("booking_id", booking.ID).Int64("item_id", itemID).Msg("saved new booking")
	return booking, nil
}

// ApproveBooking lets the item owner resolve a WAITING booking to APPROVED
// or REJECTED. The decision is final.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, ownerID int64, approved bool) (*models.Booking, error) {
	if _, err := ensureUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ItemOwnerID != ownerID {
		s.logger.Warn().Int64("user_id", ownerID).Int64("booking_id", bookingID).Msg("booking approval denied")
		return nil, domain.AccessDenied("user %d is not the owner of item %d", ownerID, booking.ItemID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.BadRequest("booking %d has already been resolved to %s", bookingID, booking.Status)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	_ = s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		OwnerID:   booking.ItemOwnerID,
		Status:    status,
		Start:     booking.Start,
		End:       booking.End,
	})

	s.logger.Debug().Int64("booking_id", bookingID).Str("status", status).Msg("resolved booking")
	return booking, nil
}

// CancelBooking lets the booker withdraw a booking that the owner has not
// resolved yet.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, bookerID int64) (*models.Booking, error) {
	if _, err := ensureUser(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != bookerID {
		s.logger.Warn().Int64("user_id", bookerID).Int64("booking_id", bookingID).Msg("booking cancel denied")
		return nil, domain.AccessDenied("user %d is not the booker of booking %d", bookerID, bookingID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.BadRequest("booking %d has already been resolved to %s", bookingID, booking.Status)
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, models.StatusCanceled); err != nil {
		return nil, err
	}
	booking.Status = models.StatusCanceled

	_ = s.eventBus.PublishJSON(events.EventBookingCanceled, events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		OwnerID:   booking.ItemOwnerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	})

	s.logger.Debug().Int64("booking_id", bookingID).Msg("canceled booking")
	return booking, nil
}

// GetBookingByID is visible to the booker and the item owner only. Anyone
// else gets not found, hiding the booking's existence.
func (s *BookingService) GetBookingByID(ctx context.Context, bookingID, viewerID int64) (*models.Booking, error) {
	if _, err := ensureUser(ctx, s.repo, viewerID); err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != viewerID && booking.ItemOwnerID != viewerID {
		s.logger.Warn().Int64("user_id", viewerID).Int64("booking_id", bookingID).Msg("booking hidden from viewer")
		return nil, domain.NotFound("booking with id %d not found", bookingID)
	}
	return booking, nil
}

func (s *BookingService) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, from, size int) ([]*models.Booking, error) {
	if _, err := ensureUser(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}
	if err := checkPage(from, size); err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetBookingsByBooker(ctx, bookerID, state, time.Now(), size, from)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(bookings)).Int64("booker_id", bookerID).Str("state", string(state)).Msg("fetched bookings by booker")
	return bookings, nil
}

func (s *BookingService) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, from, size int) ([]*models.Booking, error) {
	if _, err := ensureUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	if err := checkPage(from, size); err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetBookingsByOwner(ctx, ownerID, state, time.Now(), size, from)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(bookings)).Int64("owner_id", ownerID).Str("state", string(state)).Msg("fetched bookings by owner")
	return bookings, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("booking with id %d not found", bookingID)
		}
		return nil, err
	}
	return booking, nil
}
