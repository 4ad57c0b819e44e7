package chat

import (
	"context"
	"time"

	"petsitter/internal/pkg/apperr"
)

// Service provisions booking channels. Exactly the two booking parties are
// members of a channel.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateChannel(ctx context.Context, bookingID int64, members []int64) (*Channel, error) {
	ch, err := newChannel(bookingID, members)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// GetOrCreateChannel is the idempotent variant used to heal a missed
// provisioning.
func (s *Service) GetOrCreateChannel(ctx context.Context, bookingID int64, members []int64) (*Channel, error) {
	ch, err := newChannel(bookingID, members)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, ch)
}

func (s *Service) DeleteChannel(ctx context.Context, bookingID int64) error {
	return s.repo.Delete(ctx, ChannelID(bookingID))
}

func (s *Service) GetChannel(ctx context.Context, bookingID int64) (*Channel, error) {
	return s.repo.Get(ctx, ChannelID(bookingID))
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Channel, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	return s.repo.ListByUser(ctx, userID)
}

func newChannel(bookingID int64, members []int64) (*Channel, error) {
	if bookingID <= 0 || len(members) != 2 || members[0] == members[1] || members[0] <= 0 || members[1] <= 0 {
		return nil, ErrInvalidMembers
	}
	return &Channel{
		ID:        ChannelID(bookingID),
		BookingID: bookingID,
		Name:      channelName(bookingID),
		CreatedAt: time.Now(),
		Members:   []int64{members[0], members[1]},
	}, nil
}
