package booking

type CreateBookingRequest struct {
	SitterID       int64   `json:"sitter_id" validate:"required,gt=0"`
	ServiceID      int64   `json:"service_id" validate:"required,gt=0"`
	TotalPrice     float64 `json:"total_price" validate:"required,gt=0"`
	SpecialRequest string  `json:"special_request" validate:"max=1000"`
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type BookingResponse struct {
	Booking *Booking `json:"booking"`
	State   State    `json:"state"`
	Role    Role     `json:"role,omitempty"`
}
