package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/export"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Server is the REST front of the application.
type Server struct {
	echo   *echo.Echo
	cfg    config.ServerConfig
	logger *zerolog.Logger

	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	reports  *export.ReportService
}

type Deps struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
	Reports  *export.ReportService
	Limiter  domain.LimiterRepository
}

func NewServer(cfg *config.Config, deps Deps, logger *zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Server.ReadHeaderTimeout = time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeout) * time.Second

	s := &Server{
		echo:     e,
		cfg:      cfg.Server,
		logger:   logger,
		users:    deps.Users,
		items:    deps.Items,
		bookings: deps.Bookings,
		requests: deps.Requests,
		reports:  deps.Reports,
	}

	registerMiddlewares(e, logger)
	s.registerRoutes(deps.Limiter, cfg.RateLimit)
	return s
}

func (s *Server) registerRoutes(limiter domain.LimiterRepository, rl config.RateLimitConfig) {
	e := s.echo

	e.GET("/health", s.handleHealth)

	// User management does not act on behalf of a user.
	users := e.Group("/users")
	users.POST("", s.handleCreateUser)
	users.GET("", s.handleGetAllUsers)
	users.GET("/:id", s.handleGetUser)
	users.PATCH("/:id", s.handleUpdateUser)
	users.DELETE("/:id", s.handleDeleteUser)

	// Everything else requires the acting user header.
	sharer := []echo.MiddlewareFunc{requireSharer(), rateLimit(limiter, rl, s.logger)}

	items := e.Group("/items", sharer...)
	items.POST("", s.handleCreateItem)
	items.GET("", s.handleGetOwnerItems)
	items.GET("/search", s.handleSearchItems)
	items.GET("/report", s.handleOwnerReport)
	items.GET("/:id", s.handleGetItem)
	items.PATCH("/:id", s.handleUpdateItem)
	items.DELETE("/:id", s.handleDeleteItem)
	items.POST("/:id/comment", s.handleAddComment)

	bookings := e.Group("/bookings", sharer...)
	bookings.POST("", s.handleCreateBooking)
	bookings.GET("", s.handleGetBookingsByBooker)
	bookings.GET("/owner", s.handleGetBookingsByOwner)
	bookings.GET("/:id", s.handleGetBooking)
	bookings.PATCH("/:id", s.handleApproveBooking)
	bookings.DELETE("/:id", s.handleCancelBooking)

	requests := e.Group("/requests", sharer...)
	requests.POST("", s.handleCreateRequest)
	requests.GET("", s.handleGetOwnRequests)
	requests.GET("/all", s.handleGetOtherRequests)
	requests.GET("/:id", s.handleGetRequest)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info().Str("addr", addr).Msg("http server listening")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
