package profile

import "time"

// Owner is the party requesting care. An owner may also be a sitter.
type Owner struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	City        string    `json:"city,omitempty"`
	Area        string    `json:"area,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsSitter    bool      `json:"is_sitter"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PetAcceptance lists the kinds of pets a sitter takes.
type PetAcceptance struct {
	LargeDogs bool `json:"large_dogs"`
	SmallDogs bool `json:"small_dogs"`
	Cats      bool `json:"cats"`
	Fish      bool `json:"fish"`
	Birds     bool `json:"birds"`
	OtherPets bool `json:"other_pets"`
}

// Sitter is a discoverable care provider. AverageRating is 0 while
// TotalReviews is 0.
type Sitter struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	DisplayName     string        `json:"display_name"`
	Headline        string        `json:"headline,omitempty"`
	Bio             string        `json:"bio,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	City            string        `json:"city,omitempty"`
	Area            string        `json:"area"`
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	ExperienceYears int           `json:"experience_years"`
	Accepts         PetAcceptance `json:"accepts"`
	Verified        bool          `json:"verified"`
	AverageRating   float64       `json:"average_rating"`
	TotalReviews    int           `json:"total_reviews"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SitterService is one priced offering of a sitter. TotalEarning only grows.
type SitterService struct {
	ID           int64     `json:"id"`
	SitterID     int64     `json:"sitter_id"`
	ServiceType  string    `json:"service_type"`
	PricePerDay  float64   `json:"price_per_day"`
	IsActive     bool      `json:"is_active"`
	TotalEarning float64   `json:"total_earning"`
	CreatedAt    time.Time `json:"created_at"`
}

type Availability struct {
	SitterID    int64     `json:"sitter_id"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Dashboard is the sitter's overview page.
type Dashboard struct {
	Sitter         *Sitter `json:"sitter"`
	IsAvailable    bool    `json:"is_available"`
	PendingCount   int64   `json:"pending_bookings"`
	AcceptedCount  int64   `json:"accepted_bookings"`
	TotalEarnings  float64 `json:"total_earnings"`
	ActiveServices int     `json:"active_services"`
	AverageRating  float64 `json:"average_rating"`
	TotalReviews   int     `json:"total_reviews"`
}

type ServiceEarning struct {
	ServiceID    int64   `json:"service_id"`
	ServiceType  string  `json:"service_type"`
	PricePerDay  float64 `json:"price_per_day"`
	IsActive     bool    `json:"is_active"`
	TotalEarning float64 `json:"total_earning"`
}

type Earnings struct {
	Services []ServiceEarning `json:"services"`
	Total    float64          `json:"total"`
}
