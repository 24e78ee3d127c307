package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (*BookingService, *database.DB) {
	db, logger := setupTestDB(t)
	return NewBookingService(db, events.NewEventBus(), logger), db
}

func TestBookingServiceCreate(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, "Drill", booking.ItemName)
	assert.Equal(t, "Booker", booking.BookerName)
}

func TestBookingServiceCreateOwnItem(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), owner.ID)
	require.Error(t, err)
	// Reported as not found, not forbidden
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestBookingServiceCreateUnavailableItem(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", false)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestBookingServiceCreateBadDates(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)

	// End before start
	_, err := svc.CreateBooking(ctx, item.ID, start, start.Add(-time.Hour), booker.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	// End equal to start
	_, err = svc.CreateBooking(ctx, item.ID, start, start, booker.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestBookingServiceApprove(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	approved, err := svc.ApproveBooking(ctx, booking.ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	// A resolved booking cannot be resolved again
	_, err = svc.ApproveBooking(ctx, booking.ID, owner.ID, false)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestBookingServiceReject(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	rejected, err := svc.ApproveBooking(ctx, booking.ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
}

func TestBookingServiceApproveByNonOwner(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	// The booker cannot approve their own booking
	_, err = svc.ApproveBooking(ctx, booking.ID, booker.ID, true)
	require.Error(t, err)
	assert.Equal(t, domain.KindAccessDenied, domain.KindOf(err))
}

func TestBookingServiceCancel(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	canceled, err := svc.CancelBooking(ctx, booking.ID, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)
}

func TestBookingServiceCancelByNonBooker(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, booking.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindAccessDenied, domain.KindOf(err))
}

func TestBookingServiceGetByIDVisibility(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	// Booker and item owner see it
	_, err = svc.GetBookingByID(ctx, booking.ID, booker.ID)
	assert.NoError(t, err)
	_, err = svc.GetBookingByID(ctx, booking.ID, owner.ID)
	assert.NoError(t, err)

	// Anyone else gets not found
	_, err = svc.GetBookingByID(ctx, booking.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestBookingServiceListByBooker(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	bookings, err := svc.GetBookingsByBooker(ctx, booker.ID, models.StateWaiting, 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	bookings, err = svc.GetBookingsByBooker(ctx, booker.ID, models.StateRejected, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingServiceListByOwner(t *testing.T) {
	svc, db := newBookingService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(ctx, item.ID, start, start.Add(24*time.Hour), booker.ID)
	require.NoError(t, err)

	bookings, err := svc.GetBookingsByOwner(ctx, owner.ID, models.StateAll, 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestBookingServiceListBadPagination(t *testing.T) {
	svc, db := newBookingService(t)
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	_, err := svc.GetBookingsByBooker(context.Background(), booker.ID, models.StateAll, -1, 10)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	_, err = svc.GetBookingsByBooker(context.Background(), booker.ID, models.StateAll, 0, 0)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestBookingServiceListUnknownUser(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.GetBookingsByBooker(context.Background(), 999, models.StateAll, 0, 10)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
