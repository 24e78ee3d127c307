package export

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupReportService(t *testing.T) (*ReportService, *database.DB) {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportService(db, &logger), db
}

func TestOwnerBookingsReport(t *testing.T) {
	svc, db := setupReportService(t)
	ctx := context.Background()

	owner := &models.User{Name: "Owner", Email: "owner@example.com"}
	require.NoError(t, db.CreateUser(ctx, owner))
	booker := &models.User{Name: "Booker", Email: "booker@example.com"}
	require.NoError(t, db.CreateUser(ctx, booker))

	item := &models.Item{Name: "Drill", Description: "d", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, item))

	start := time.Now().Add(24 * time.Hour)
	booking := &models.Booking{
		ItemID: item.ID, BookerID: booker.ID,
		Start: start, End: start.Add(24 * time.Hour),
		Status: models.StatusApproved,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	data, err := svc.OwnerBookingsReport(ctx, owner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Item", "Booker", "Start", "End", "Status"}, rows[0])
	assert.Equal(t, "Drill", rows[1][1])
	assert.Equal(t, "Booker", rows[1][2])
	assert.Equal(t, models.StatusApproved, rows[1][5])
}

func TestOwnerBookingsReportUnknownUser(t *testing.T) {
	svc, _ := setupReportService(t)

	_, err := svc.OwnerBookingsReport(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestOwnerBookingsReportEmpty(t *testing.T) {
	svc, db := setupReportService(t)
	ctx := context.Background()

	owner := &models.User{Name: "Owner", Email: "owner@example.com"}
	require.NoError(t, db.CreateUser(ctx, owner))

	data, err := svc.OwnerBookingsReport(ctx, owner.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
