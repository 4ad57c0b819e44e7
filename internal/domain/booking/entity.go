package booking

import (
	"fmt"
	"strings"
	"time"
)

// Booking is a request from one owner to one sitter for one service. Only
// pending and accepted bookings exist in the ledger; closed ones are moved to
// the archive.
type Booking struct {
	ID             int64     `json:"id"`
	SitterID       int64     `json:"sitter_id"`
	OwnerID        int64     `json:"owner_id"`
	ServiceID      int64     `json:"service_id"`
	TotalPrice     float64   `json:"total_price"`
	SpecialRequest string    `json:"special_request,omitempty"`
	BookingCode    string    `json:"booking_code"`
	IsAccepted     bool      `json:"is_accepted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type State string

const (
	StatePending State = "pending"
	StateActive  State = "active"
)

func (b *Booking) State() State {
	if b.IsAccepted {
		return StateActive
	}
	return StatePending
}

// Outcome records how a booking left the ledger.
type Outcome string

const (
	OutcomeReviewed  Outcome = "reviewed"
	OutcomeDeclined  Outcome = "declined"
	OutcomeCancelled Outcome = "cancelled"
)

// Role is the side of a booking the caller acts on.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterPending  StatusFilter = "pending"
	FilterAccepted StatusFilter = "accepted"
)

// ParseStatusFilter treats an empty value as "all".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterAccepted:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, s)
	}
}

// ArchivedBooking is the audit copy kept after a booking is closed.
type ArchivedBooking struct {
	BookingID      int64     `json:"booking_id"`
	BookingCode    string    `json:"booking_code"`
	SitterID       int64     `json:"sitter_id"`
	OwnerID        int64     `json:"owner_id"`
	ServiceID      int64     `json:"service_id"`
	TotalPrice     float64   `json:"total_price"`
	SpecialRequest string    `json:"special_request,omitempty"`
	WasAccepted    bool      `json:"was_accepted"`
	Outcome        Outcome   `json:"outcome"`
	ClosedByUserID int64     `json:"closed_by_user_id"`
	CreatedAt      time.Time `json:"created_at"`
	ClosedAt       time.Time `json:"closed_at"`
}

type CreateInput struct {
	SitterID       int64
	ServiceID      int64
	TotalPrice     float64
	SpecialRequest string
}

type CompleteInput struct {
	BookingID      int64
	OwnerID        int64
	Rating         int
	Comment        string
	ClosedByUserID int64
}

// Removal reports which path closed a pending booking.
type Removal struct {
	Booking *Booking `json:"booking"`
	Outcome Outcome  `json:"outcome"`
}
