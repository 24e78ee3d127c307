package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the persistence surface consumed by the services.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UserHasDependents(ctx context.Context, id int64) (bool, error)

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	SearchItems(ctx context.Context, query string) ([]*models.Item, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	PastAndCurrentApprovedShorts(ctx context.Context, itemIDs []int64, now time.Time) ([]models.BookingShort, error)
	NextApprovedShorts(ctx context.Context, itemIDs []int64, now time.Time) ([]models.BookingShort, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)

	// Item requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetRequestsFromOthers(ctx context.Context, requestorID int64, limit, offset int) ([]*models.ItemRequest, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*models.Item, error)
}

// LimiterRepository tracks request counts per acting user at the transport
// boundary.
type LimiterRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// EventPublisher decouples services from event delivery.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error)
	GetItemByID(ctx context.Context, itemID, viewerID int64) (*models.ItemWithBookings, error)
	GetOwnerItems(ctx context.Context, ownerID int64) ([]*models.ItemWithBookings, error)
	UpdateItem(ctx context.Context, patch models.ItemPatch, ownerID, itemID int64) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID, ownerID int64) error
	SearchItems(ctx context.Context, query string, viewerID int64) ([]*models.Item, error)
	AddComment(ctx context.Context, text string, itemID, authorID int64) (*models.Comment, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, itemID int64, start, end time.Time, bookerID int64) (*models.Booking, error)
	ApproveBooking(ctx context.Context, bookingID, ownerID int64, approved bool) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, bookerID int64) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID, viewerID int64) (*models.Booking, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, description string, requestorID int64) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, requestorID int64, from, size int) ([]*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, requestID, viewerID int64) (*models.ItemRequest, error)
}
