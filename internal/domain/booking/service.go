package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"petsitter/internal/domain/aggregate"
	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/notification"
	"petsitter/internal/domain/profile"
	"petsitter/internal/domain/review"
	"petsitter/internal/pkg/apperr"
	"petsitter/internal/sideeffect"
)

const (
	maxCodeAttempts = 5
	archivePageSize = 50
)

type ProfileReader interface {
	GetOwnerByUserID(ctx context.Context, userID int64) (*profile.Owner, error)
	GetOwnerByID(ctx context.Context, id int64) (*profile.Owner, error)
	GetSitterByUserID(ctx context.Context, userID int64) (*profile.Sitter, error)
	GetSitterByID(ctx context.Context, id int64) (*profile.Sitter, error)
	ListActiveServices(ctx context.Context, sitterID int64) ([]profile.SitterService, error)
}

// ChannelProvisioner is the idempotent chat call used to heal a channel that
// was not created on accept.
type ChannelProvisioner interface {
	GetOrCreateChannel(ctx context.Context, bookingID int64, members []int64) (*chat.Channel, error)
}

// Service enforces the booking lifecycle. Primary mutations go through the
// ledger; chat, notification, event and cache work is handed to the
// dispatcher only after the mutation has committed.
type Service struct {
	ledger     Ledger
	profiles   ProfileReader
	chats      ChannelProvisioner
	dispatcher sideeffect.Dispatcher
	log        *zap.Logger
	newCode    func() string
}

func NewService(ledger Ledger, profiles ProfileReader, chats ChannelProvisioner, dispatcher sideeffect.Dispatcher, log *zap.Logger) *Service {
	return &Service{
		ledger:     ledger,
		profiles:   profiles,
		chats:      chats,
		dispatcher: dispatcher,
		log:        log,
		newCode:    NewBookingCode,
	}
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*Booking, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}

	owner, err := s.profiles.GetOwnerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.SitterID <= 0 || in.ServiceID <= 0 || in.TotalPrice <= 0 {
		return nil, ErrInvalidBooking
	}

	sitter, err := s.profiles.GetSitterByID(ctx, in.SitterID)
	if err != nil {
		return nil, err
	}
	if sitter.UserID == userID {
		return nil, ErrSelfBooking
	}

	services, err := s.profiles.ListActiveServices(ctx, sitter.ID)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, ErrNoActiveService
	}
	offered := false
	for _, svc := range services {
		if svc.ID == in.ServiceID {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrServiceNotOffered
	}

	b := &Booking{
		SitterID:       sitter.ID,
		OwnerID:        owner.ID,
		ServiceID:      in.ServiceID,
		TotalPrice:     in.TotalPrice,
		SpecialRequest: strings.TrimSpace(in.SpecialRequest),
	}
	for attempt := 1; ; attempt++ {
		b.BookingCode = s.newCode()
		err = s.ledger.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateCode) || attempt == maxCodeAttempts {
			return nil, err
		}
		s.log.Warn("booking code collision, regenerating", zap.Int("attempt", attempt))
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("booking_code", b.BookingCode),
		zap.Int64("owner_id", owner.ID),
		zap.Int64("sitter_id", sitter.ID),
	)
	s.dispatcher.Dispatch(ctx,
		sideeffect.Publish(event(sideeffect.EventBookingCreated, b)),
		sideeffect.InvalidateDiscovery(userID),
	)
	return b, nil
}

// Accept moves a pending booking to active. Chat provisioning and the owner
// notification are best effort; the acceptance stands if they fail.
func (s *Service) Accept(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}

	sitter, err := s.profiles.GetSitterByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.SitterID != sitter.ID {
		return nil, ErrNotBookingSitter
	}
	if b.IsAccepted {
		return nil, ErrAlreadyAccepted
	}

	b, err = s.ledger.MarkAccepted(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking accepted", zap.Int64("booking_id", b.ID), zap.Int64("sitter_id", sitter.ID))

	jobs := []sideeffect.Job{sideeffect.Publish(event(sideeffect.EventBookingAccepted, b))}
	if owner := s.ownerForSideEffects(ctx, b); owner != nil {
		jobs = append([]sideeffect.Job{
			sideeffect.CreateChannel(b.ID, owner.UserID, sitter.UserID),
			sideeffect.Notify(owner.UserID, notification.TypeBookingAccepted,
				fmt.Sprintf("%s accepted your booking %s", sitter.DisplayName, b.BookingCode)),
		}, jobs...)
		jobs = append(jobs, sideeffect.InvalidateDiscovery(owner.UserID))
	}
	s.dispatcher.Dispatch(ctx, jobs...)
	return b, nil
}

// Remove deletes a pending booking. The owner cancelling and the sitter
// declining share this path; only a decline notifies the other party.
func (s *Service) Remove(ctx context.Context, userID, bookingID int64) (*Removal, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}

	owner, sitter, err := s.resolveParties(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	role, ok := roleOf(b, owner, sitter)
	if !ok {
		return nil, ErrNotBookingParty
	}
	if b.IsAccepted {
		return nil, ErrAlreadyAccepted
	}

	outcome := OutcomeCancelled
	if role == RoleSitter {
		outcome = OutcomeDeclined
	}

	b, err = s.ledger.DeletePending(ctx, bookingID, outcome, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking removed",
		zap.Int64("booking_id", b.ID),
		zap.String("outcome", string(outcome)),
	)

	if outcome == OutcomeDeclined {
		jobs := []sideeffect.Job{sideeffect.Publish(event(sideeffect.EventBookingDeclined, b))}
		if o := s.ownerForSideEffects(ctx, b); o != nil {
			jobs = append(jobs,
				sideeffect.Notify(o.UserID, notification.TypeBookingDeclined,
					fmt.Sprintf("%s declined your booking %s", sitter.DisplayName, b.BookingCode)),
				sideeffect.InvalidateDiscovery(o.UserID),
			)
		}
		s.dispatcher.Dispatch(ctx, jobs...)
	} else {
		s.dispatcher.Dispatch(ctx,
			sideeffect.Publish(event(sideeffect.EventBookingCancelled, b)),
			sideeffect.InvalidateDiscovery(userID),
		)
	}

	return &Removal{Booking: b, Outcome: outcome}, nil
}

// SubmitReview closes an accepted booking. Once it succeeds the booking no
// longer exists, so a second submission finds nothing.
func (s *Service) SubmitReview(ctx context.Context, userID, bookingID int64, rating int, comment string) (*review.Review, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	if !aggregate.ValidRating(rating) {
		return nil, ErrInvalidRating
	}

	owner, err := s.profiles.GetOwnerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, rev, err := s.ledger.Complete(ctx, CompleteInput{
		BookingID:      bookingID,
		OwnerID:        owner.ID,
		Rating:         rating,
		Comment:        strings.TrimSpace(comment),
		ClosedByUserID: userID,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking completed",
		zap.Int64("booking_id", b.ID),
		zap.Int64("sitter_id", b.SitterID),
		zap.Int("rating", rating),
	)

	ev := event(sideeffect.EventBookingCompleted, b)
	ev.Rating = rating
	jobs := []sideeffect.Job{sideeffect.DeleteChannel(b.ID)}
	sitter, err := s.profiles.GetSitterByID(ctx, b.SitterID)
	if err != nil {
		s.log.Warn("review notification skipped: sitter lookup failed",
			zap.Int64("booking_id", b.ID),
			zap.Error(err),
		)
	} else {
		jobs = append(jobs, sideeffect.Notify(sitter.UserID, notification.TypeReviewReceived,
			fmt.Sprintf("%s left you a %d-star review for booking %s", owner.DisplayName, rating, b.BookingCode)))
	}
	jobs = append(jobs, sideeffect.Publish(ev))
	s.dispatcher.Dispatch(ctx, jobs...)

	return rev, nil
}

// InitializeChat returns the booking's channel, creating it if the accept
// path failed to.
func (s *Service) InitializeChat(ctx context.Context, userID, bookingID int64) (*chat.Channel, error) {
	b, _, err := s.getForParty(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsAccepted {
		return nil, ErrNotAccepted
	}

	owner, err := s.profiles.GetOwnerByID(ctx, b.OwnerID)
	if err != nil {
		return nil, err
	}
	sitter, err := s.profiles.GetSitterByID(ctx, b.SitterID)
	if err != nil {
		return nil, err
	}
	return s.chats.GetOrCreateChannel(ctx, b.ID, []int64{owner.UserID, sitter.UserID})
}

// Get returns the booking along with the side the caller is on.
func (s *Service) Get(ctx context.Context, userID, bookingID int64) (*Booking, Role, error) {
	return s.getForParty(ctx, userID, bookingID)
}

func (s *Service) ListForOwner(ctx context.Context, userID int64, filter StatusFilter) ([]Booking, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	owner, err := s.profiles.GetOwnerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByOwner(ctx, owner.ID, filter)
}

func (s *Service) ListForSitter(ctx context.Context, userID int64, filter StatusFilter) ([]Booking, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	sitter, err := s.profiles.GetSitterByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListBySitter(ctx, sitter.ID, filter)
}

// History lists closed bookings on either side of the caller.
func (s *Service) History(ctx context.Context, userID int64) ([]ArchivedBooking, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	owner, sitter, err := s.resolveParties(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ownerID, sitterID int64
	if owner != nil {
		ownerID = owner.ID
	}
	if sitter != nil {
		sitterID = sitter.ID
	}
	return s.ledger.ListArchive(ctx, ownerID, sitterID, archivePageSize)
}

func (s *Service) getForParty(ctx context.Context, userID, bookingID int64) (*Booking, Role, error) {
	if userID == 0 {
		return nil, "", apperr.ErrAuthenticationRequired
	}
	owner, sitter, err := s.resolveParties(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	b, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	role, ok := roleOf(b, owner, sitter)
	if !ok {
		return nil, "", ErrNotBookingParty
	}
	return b, role, nil
}

// resolveParties loads whichever profiles the user has. Having neither is a
// ProfileNotFound error.
func (s *Service) resolveParties(ctx context.Context, userID int64) (*profile.Owner, *profile.Sitter, error) {
	owner, err := s.profiles.GetOwnerByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrProfileNotFound) {
			return nil, nil, err
		}
		owner = nil
	}
	sitter, err := s.profiles.GetSitterByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrProfileNotFound) {
			return nil, nil, err
		}
		sitter = nil
	}
	if owner == nil && sitter == nil {
		return nil, nil, profile.ErrOwnerNotFound
	}
	return owner, sitter, nil
}

func roleOf(b *Booking, owner *profile.Owner, sitter *profile.Sitter) (Role, bool) {
	switch {
	case owner != nil && b.OwnerID == owner.ID:
		return RoleOwner, true
	case sitter != nil && b.SitterID == sitter.ID:
		return RoleSitter, true
	default:
		return "", false
	}
}

// ownerForSideEffects returns nil when the owner cannot be loaded; the
// caller then skips jobs addressed to them.
func (s *Service) ownerForSideEffects(ctx context.Context, b *Booking) *profile.Owner {
	owner, err := s.profiles.GetOwnerByID(ctx, b.OwnerID)
	if err != nil {
		s.log.Warn("owner lookup for side effects failed",
			zap.Int64("booking_id", b.ID),
			zap.Int64("owner_id", b.OwnerID),
			zap.Error(err),
		)
		return nil
	}
	return owner
}

func event(typ string, b *Booking) sideeffect.Event {
	return sideeffect.Event{
		Type:        typ,
		BookingID:   b.ID,
		BookingCode: b.BookingCode,
		OwnerID:     b.OwnerID,
		SitterID:    b.SitterID,
		ServiceID:   b.ServiceID,
		TotalPrice:  b.TotalPrice,
		OccurredAt:  time.Now().UTC(),
	}
}
