package api

import (
	"net/http"
	"strconv"

	"shareit/internal/models"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageFrom = 0
	defaultPageSize = 10
)

func pageParams(c echo.Context) (from, size int, ok bool) {
	from, size = defaultPageFrom, defaultPageSize
	if raw := c.QueryParam("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		from = v
	}
	if raw := c.QueryParam("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		size = v
	}
	return from, size, true
}

func (s *Server) handleCreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "itemId, start and end are required")
	}

	booking, err := s.bookings.CreateBooking(c.Request().Context(), req.ItemID, req.Start, req.End, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (s *Server) handleApproveBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}

	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return badRequest(c, "approved query parameter must be true or false")
	}

	booking, err := s.bookings.ApproveBooking(c.Request().Context(), id, sharerID(c), approved)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (s *Server) handleCancelBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}

	booking, err := s.bookings.CancelBooking(c.Request().Context(), id, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (s *Server) handleGetBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}

	booking, err := s.bookings.GetBookingByID(c.Request().Context(), id, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (s *Server) handleGetBookingsByBooker(c echo.Context) error {
	state, ok := models.ParseBookingState(c.QueryParam("state"))
	if !ok {
		return badRequest(c, "unknown state: "+c.QueryParam("state"))
	}
	from, size, ok := pageParams(c)
	if !ok {
		return badRequest(c, "from and size must be integers")
	}

	bookings, err := s.bookings.GetBookingsByBooker(c.Request().Context(), sharerID(c), state, from, size)
	if err != nil {
		return writeError(c, err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}

func (s *Server) handleGetBookingsByOwner(c echo.Context) error {
	state, ok := models.ParseBookingState(c.QueryParam("state"))
	if !ok {
		return badRequest(c, "unknown state: "+c.QueryParam("state"))
	}
	from, size, ok := pageParams(c)
	if !ok {
		return badRequest(c, "from and size must be integers")
	}

	bookings, err := s.bookings.GetBookingsByOwner(c.Request().Context(), sharerID(c), state, from, size)
	if err != nil {
		return writeError(c, err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}
