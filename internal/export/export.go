package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// reportPageSize caps one report at a single page of bookings.
const reportPageSize = 10000

// ReportService builds spreadsheet exports of an owner's booking history.
type ReportService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewReportService(repo domain.Repository, logger *zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// OwnerBookingsReport renders every booking on the owner's items into an
// xlsx workbook and returns the serialized bytes.
func (s *ReportService) OwnerBookingsReport(ctx context.Context, ownerID int64) ([]byte, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user with id %d not found", ownerID)
		}
		return nil, err
	}

	bookings, err := s.repo.GetBookingsByOwner(ctx, ownerID, models.StateAll, time.Now(), reportPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.BookerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.Status)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "F", 12)

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	s.logger.Debug().Int64("owner_id", ownerID).Int("bookings", len(bookings)).Msg("bookings report generated")
	return buf.Bytes(), nil
}
