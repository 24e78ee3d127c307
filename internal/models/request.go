package models

import "time"

// ItemRequest is a "wanted item" posting. Items may reference the request
// they fulfil.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"-"`
	Created     time.Time `json:"created"`
	Items       []*Item   `json:"items"`
}
