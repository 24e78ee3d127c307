package api

import (
	"fmt"
	"net/http"
	"time"

	"shareit/internal/models"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleCreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "name, description and available are required")
	}

	item, err := s.items.CreateItem(c.Request().Context(), req.toModel(), sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (s *Server) handleGetItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid item id")
	}

	item, err := s.items.GetItemByID(c.Request().Context(), id, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleGetOwnerItems(c echo.Context) error {
	items, err := s.items.GetOwnerItems(c.Request().Context(), sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleUpdateItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid item id")
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	item, err := s.items.UpdateItem(c.Request().Context(), req.toPatch(), sharerID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleDeleteItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid item id")
	}

	if err := s.items.DeleteItem(c.Request().Context(), id, sharerID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSearchItems(c echo.Context) error {
	items, err := s.items.SearchItems(c.Request().Context(), c.QueryParam("text"), sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleAddComment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid item id")
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "text is required")
	}

	comment, err := s.items.AddComment(c.Request().Context(), req.Text, id, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

func (s *Server) handleOwnerReport(c echo.Context) error {
	data, err := s.reports.OwnerBookingsReport(c.Request().Context(), sharerID(c))
	if err != nil {
		return writeError(c, err)
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
