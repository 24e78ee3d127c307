package models

import "time"

// Booking statuses. A booking is created WAITING and moves to APPROVED or
// REJECTED by the item owner, or to CANCELED by the booker.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	BookerID  int64     `json:"bookerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Denormalized from joins for responses and ownership checks.
	ItemName    string `json:"itemName,omitempty"`
	ItemOwnerID int64  `json:"-"`
	BookerName  string `json:"bookerName,omitempty"`
}

// BookingShort is the projection used to compute last/next bookings
// without loading full rows.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	ItemID   int64     `json:"itemId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookingState filters booking listings. CURRENT/PAST/FUTURE classify
// bookings against the current instant at query time; they are never stored.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a query-string value to a known state.
// The empty string means ALL.
func ParseBookingState(raw string) (BookingState, bool) {
	switch BookingState(raw) {
	case "", StateAll:
		return StateAll, true
	case StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), true
	}
	return "", false
}
