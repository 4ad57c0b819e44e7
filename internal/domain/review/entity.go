package review

import "time"

// Review is the one review an owner leaves when closing an accepted booking.
// The booking itself is gone by the time the review exists.
type Review struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"booking_id"`
	BookingCode string     `json:"booking_code"`
	OwnerID     int64      `json:"owner_id"`
	SitterID    int64      `json:"sitter_id"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment,omitempty"`
	SitterReply *string    `json:"sitter_reply,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Page struct {
	Reviews []Review `json:"reviews"`
	Total   int64    `json:"total"`
}
