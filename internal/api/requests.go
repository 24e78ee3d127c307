package api

import (
	"net/http"

	"shareit/internal/models"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleCreateRequest(c echo.Context) error {
	var req createItemRequestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "description is required")
	}

	request, err := s.requests.CreateRequest(c.Request().Context(), req.Description, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

func (s *Server) handleGetOwnRequests(c echo.Context) error {
	requests, err := s.requests.GetOwnRequests(c.Request().Context(), sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (s *Server) handleGetOtherRequests(c echo.Context) error {
	from, size, ok := pageParams(c)
	if !ok {
		return badRequest(c, "from and size must be integers")
	}

	requests, err := s.requests.GetOtherRequests(c.Request().Context(), sharerID(c), from, size)
	if err != nil {
		return writeError(c, err)
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (s *Server) handleGetRequest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid request id")
	}

	request, err := s.requests.GetRequestByID(c.Request().Context(), id, sharerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}
