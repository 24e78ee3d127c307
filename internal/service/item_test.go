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

func newItemService(t *testing.T) (*ItemService, *database.DB) {
	db, logger := setupTestDB(t)
	return NewItemService(db, events.NewEventBus(), logger), db
}

func createApprovedBooking(t *testing.T, db *database.DB, itemID, bookerID int64, start, end time.Time) *models.Booking {
	t.Helper()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: models.StatusApproved}
	require.NoError(t, db.CreateBooking(context.Background(), b))
	return b
}

func TestItemServiceCreate(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")

	item, err := svc.CreateItem(ctx, &models.Item{Name: "Drill", Description: "Cordless", Available: true}, owner.ID)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, owner.ID, item.OwnerID)
}

func TestItemServiceCreateOwnerNotFound(t *testing.T) {
	svc, _ := newItemService(t)

	_, err := svc.CreateItem(context.Background(), &models.Item{Name: "Drill", Description: "d", Available: true}, 999)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestItemServiceCreateUnknownRequest(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")

	missing := int64(999)
	_, err := svc.CreateItem(ctx, &models.Item{Name: "Drill", Description: "d", Available: true, RequestID: &missing}, owner.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestItemServiceCreateLinkedToRequest(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requestor := createTestUser(t, db, "Requestor", "requestor@example.com")

	request := &models.ItemRequest{Description: "need a drill", RequestorID: requestor.ID}
	require.NoError(t, db.CreateRequest(ctx, request))

	item, err := svc.CreateItem(ctx, &models.Item{Name: "Drill", Description: "d", Available: true, RequestID: &request.ID}, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, item.RequestID)
	assert.Equal(t, request.ID, *item.RequestID)
}

func TestItemServiceGetByIDOwnerSeesBookings(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	last := createApprovedBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	next := createApprovedBooking(t, db, item.ID, booker.ID, now.Add(24*time.Hour), now.Add(48*time.Hour))

	got, err := svc.GetItemByID(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastBooking)
	require.NotNil(t, got.NextBooking)
	assert.Equal(t, last.ID, got.LastBooking.ID)
	assert.Equal(t, next.ID, got.NextBooking.ID)
}

func TestItemServiceGetByIDNonOwnerHidesBookings(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	createApprovedBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	got, err := svc.GetItemByID(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastBooking)
	assert.Nil(t, got.NextBooking)
}

func TestItemServiceGetByIDWithComments(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	require.NoError(t, db.CreateComment(ctx, &models.Comment{ItemID: item.ID, AuthorID: author.ID, Text: "great"}))

	got, err := svc.GetItemByID(ctx, item.ID, author.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "great", got.Comments[0].Text)
	assert.Equal(t, "Author", got.Comments[0].AuthorName)
}

func TestItemServiceGetOwnerItems(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	booked := createTestItem(t, db, owner.ID, "Drill", true)
	idle := createTestItem(t, db, owner.ID, "Saw", true)

	// Two past bookings; the later one wins as last
	createApprovedBooking(t, db, booked.ID, booker.ID, now.Add(-96*time.Hour), now.Add(-72*time.Hour))
	recent := createApprovedBooking(t, db, booked.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	upcoming := createApprovedBooking(t, db, booked.ID, booker.ID, now.Add(24*time.Hour), now.Add(48*time.Hour))

	items, err := svc.GetOwnerItems(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].LastBooking)
	assert.Equal(t, recent.ID, items[0].LastBooking.ID)
	require.NotNil(t, items[0].NextBooking)
	assert.Equal(t, upcoming.ID, items[0].NextBooking.ID)

	// Items without qualifying bookings still get an entry
	assert.Equal(t, idle.ID, items[1].ID)
	assert.Nil(t, items[1].LastBooking)
	assert.Nil(t, items[1].NextBooking)
}

func TestItemServiceGetOwnerItemsEmpty(t *testing.T) {
	svc, db := newItemService(t)
	owner := createTestUser(t, db, "Owner", "owner@example.com")

	items, err := svc.GetOwnerItems(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemServiceUpdate(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	updated, err := svc.UpdateItem(ctx, models.ItemPatch{Available: boolPtr(false)}, owner.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name)
}

func TestItemServiceUpdateByNonOwner(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	_, err := svc.UpdateItem(ctx, models.ItemPatch{Name: strPtr("Mine now")}, stranger.ID, item.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindAccessDenied, domain.KindOf(err))
}

func TestItemServiceDelete(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	require.NoError(t, svc.DeleteItem(ctx, item.ID, owner.ID))

	_, err := svc.GetItemByID(ctx, item.ID, owner.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestItemServiceDeleteByNonOwner(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	err := svc.DeleteItem(ctx, item.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindAccessDenied, domain.KindOf(err))
}

func TestItemServiceSearch(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	viewer := createTestUser(t, db, "Viewer", "viewer@example.com")
	createTestItem(t, db, owner.ID, "Power Drill", true)
	createTestItem(t, db, owner.ID, "Broken Drill", false)

	items, err := svc.SearchItems(ctx, "drill", viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Power Drill", items[0].Name)
}

func TestItemServiceSearchBlankQuery(t *testing.T) {
	svc, db := newItemService(t)
	viewer := createTestUser(t, db, "Viewer", "viewer@example.com")

	items, err := svc.SearchItems(context.Background(), "   ", viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemServiceSearchIncludesOwnItems(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	createTestItem(t, db, owner.ID, "Drill", true)

	// The searcher's own listings show up in results
	items, err := svc.SearchItems(ctx, "drill", owner.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemServiceAddComment(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	createApprovedBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	comment, err := svc.AddComment(ctx, "worked perfectly", item.ID, booker.ID)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "Booker", comment.AuthorName)
	assert.False(t, comment.Created.IsZero())
}

func TestItemServiceAddCommentWithoutBooking(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	_, err := svc.AddComment(ctx, "never used it", item.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestItemServiceAddCommentFutureBookingOnly(t *testing.T) {
	svc, db := newItemService(t)
	ctx := context.Background()
	now := time.Now()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	createApprovedBooking(t, db, item.ID, booker.ID, now.Add(24*time.Hour), now.Add(48*time.Hour))

	_, err := svc.AddComment(ctx, "excited to try it", item.ID, booker.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}
