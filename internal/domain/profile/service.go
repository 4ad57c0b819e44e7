package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"petsitter/internal/pkg/apperr"
	"petsitter/internal/pkg/geo"
)

// BookingCounter reports booking counts for the sitter dashboard.
type BookingCounter interface {
	CountForSitter(ctx context.Context, sitterID int64) (pending, accepted int64, err error)
}

type Service struct {
	repo     Repository
	bookings BookingCounter
	log      *zap.Logger
}

func NewService(repo Repository, bookings BookingCounter, log *zap.Logger) *Service {
	return &Service{repo: repo, bookings: bookings, log: log}
}

func (s *Service) SetupOwner(ctx context.Context, userID int64, req SaveOwnerRequest) (*Owner, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	if !(geo.Point{Lat: req.Latitude, Lng: req.Longitude}).Valid() {
		return nil, ErrInvalidLocation
	}

	owner := &Owner{
		UserID:      userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Phone:       strings.TrimSpace(req.Phone),
		Bio:         req.Bio,
		City:        strings.TrimSpace(req.City),
		Area:        strings.TrimSpace(req.Area),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if err := s.repo.SaveOwner(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *Service) GetOwner(ctx context.Context, userID int64) (*Owner, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	return s.repo.GetOwnerByUserID(ctx, userID)
}

// BecomeSitter registers the caller as a sitter. It can only happen once.
func (s *Service) BecomeSitter(ctx context.Context, userID int64, req BecomeSitterRequest) (*Sitter, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	if !(geo.Point{Lat: req.Latitude, Lng: req.Longitude}).Valid() {
		return nil, ErrInvalidLocation
	}

	if _, err := s.repo.GetSitterByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadySitter
	} else if !errors.Is(err, ErrSitterProfileMissing) {
		return nil, err
	}

	sitter := &Sitter{
		UserID:          userID,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		Headline:        strings.TrimSpace(req.Headline),
		Bio:             req.Bio,
		Phone:           strings.TrimSpace(req.Phone),
		City:            strings.TrimSpace(req.City),
		Area:            strings.TrimSpace(req.Area),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExperienceYears: req.ExperienceYears,
		Accepts:         req.Accepts,
	}
	if err := s.repo.CreateSitter(ctx, sitter); err != nil {
		return nil, err
	}

	s.log.Info("sitter registered", zap.Int64("user_id", userID), zap.Int64("sitter_id", sitter.ID))
	return sitter, nil
}

func (s *Service) GetMySitter(ctx context.Context, userID int64) (*Sitter, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	return s.repo.GetSitterByUserID(ctx, userID)
}

func (s *Service) AddService(ctx context.Context, userID int64, req AddServiceRequest) (*SitterService, error) {
	sitter, err := s.GetMySitter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.PricePerDay <= 0 {
		return nil, ErrInvalidPrice
	}

	svc := &SitterService{
		SitterID:    sitter.ID,
		ServiceType: strings.TrimSpace(req.ServiceType),
		PricePerDay: req.PricePerDay,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) ListMyServices(ctx context.Context, userID int64) ([]SitterService, error) {
	sitter, err := s.GetMySitter(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListServices(ctx, sitter.ID)
}

// SetAvailability flips the discovery gate. Existing bookings are untouched.
func (s *Service) SetAvailability(ctx context.Context, userID int64, available bool) (*Availability, error) {
	sitter, err := s.GetMySitter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAvailability(ctx, sitter.ID, available); err != nil {
		return nil, err
	}
	return &Availability{SitterID: sitter.ID, IsAvailable: available}, nil
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	sitter, err := s.GetMySitter(ctx, userID)
	if err != nil {
		return nil, err
	}

	available, err := s.repo.GetAvailability(ctx, sitter.ID)
	if err != nil {
		return nil, err
	}
	pending, accepted, err := s.bookings.CountForSitter(ctx, sitter.ID)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.ListServices(ctx, sitter.ID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Sitter:        sitter,
		IsAvailable:   available,
		PendingCount:  pending,
		AcceptedCount: accepted,
		AverageRating: sitter.AverageRating,
		TotalReviews:  sitter.TotalReviews,
	}
	for _, svc := range services {
		d.TotalEarnings += svc.TotalEarning
		if svc.IsActive {
			d.ActiveServices++
		}
	}
	return d, nil
}

func (s *Service) Earnings(ctx context.Context, userID int64) (*Earnings, error) {
	services, err := s.ListMyServices(ctx, userID)
	if err != nil {
		return nil, err
	}

	e := &Earnings{Services: make([]ServiceEarning, 0, len(services))}
	for _, svc := range services {
		e.Services = append(e.Services, ServiceEarning{
			ServiceID:    svc.ID,
			ServiceType:  svc.ServiceType,
			PricePerDay:  svc.PricePerDay,
			IsActive:     svc.IsActive,
			TotalEarning: svc.TotalEarning,
		})
		e.Total += svc.TotalEarning
	}
	return e, nil
}
