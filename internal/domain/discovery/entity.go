package discovery

import "petsitter/internal/domain/profile"

// Candidate is a sitter as seen by the geo index, before eligibility rules.
type Candidate struct {
	Sitter      profile.Sitter
	IsAvailable bool
	// DistanceMeters is only meaningful for radius queries.
	DistanceMeters float64
}

type ServiceSummary struct {
	ServiceID   int64   `json:"service_id"`
	ServiceType string  `json:"service_type"`
	PricePerDay float64 `json:"price_per_day"`
}

// SitterSummary is one ranked search result.
type SitterSummary struct {
	SitterID       int64                 `json:"sitter_id"`
	DisplayName    string                `json:"display_name"`
	Headline       string                `json:"headline,omitempty"`
	Area           string                `json:"area"`
	City           string                `json:"city,omitempty"`
	Verified       bool                  `json:"verified"`
	AverageRating  float64               `json:"average_rating"`
	TotalReviews   int                   `json:"total_reviews"`
	Accepts        profile.PetAcceptance `json:"accepts"`
	Service        *ServiceSummary       `json:"service,omitempty"`
	DistanceMeters *float64              `json:"distance_meters,omitempty"`
}
