package profile

type SaveOwnerRequest struct {
	DisplayName string  `json:"display_name" validate:"required,max=100"`
	Phone       string  `json:"phone" validate:"omitempty,max=32"`
	Bio         string  `json:"bio" validate:"omitempty,max=1000"`
	City        string  `json:"city" validate:"omitempty,max=100"`
	Area        string  `json:"area" validate:"omitempty,max=200"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type BecomeSitterRequest struct {
	DisplayName     string        `json:"display_name" validate:"required,max=100"`
	Headline        string        `json:"headline" validate:"omitempty,max=200"`
	Bio             string        `json:"bio" validate:"omitempty,max=2000"`
	Phone           string        `json:"phone" validate:"omitempty,max=32"`
	City            string        `json:"city" validate:"omitempty,max=100"`
	Area            string        `json:"area" validate:"required,max=200"`
	Latitude        float64       `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64       `json:"longitude" validate:"gte=-180,lte=180"`
	ExperienceYears int           `json:"experience_years" validate:"gte=0,lte=80"`
	Accepts         PetAcceptance `json:"accepts"`
}

type AddServiceRequest struct {
	ServiceType string  `json:"service_type" validate:"required,max=100"`
	PricePerDay float64 `json:"price_per_day" validate:"gt=0"`
	IsActive    *bool   `json:"is_active"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}
