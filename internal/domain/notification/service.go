package notification

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"petsitter/internal/pkg/apperr"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Emit appends an entry to the user's feed. It is only called by lifecycle
// side effects, never by end users.
func (s *Service) Emit(ctx context.Context, userID int64, typ Type, content string) (*Notification, error) {
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	content = strings.TrimSpace(content)
	if userID <= 0 || content == "" {
		return nil, ErrInvalidInput
	}

	n := &Notification{UserID: userID, Type: typ, Content: content}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.log.Debug("notification emitted", zap.Int64("user_id", userID), zap.String("type", string(typ)))
	return n, nil
}

type Page struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unread_count"`
	Total         int64           `json:"total"`
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) (*Page, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	items, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Page{Notifications: items, UnreadCount: unread, Total: total}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID == 0 {
		return 0, apperr.ErrAuthenticationRequired
	}
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, userID, id int64) error {
	if userID == 0 {
		return apperr.ErrAuthenticationRequired
	}
	found, err := s.repo.MarkAsRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	if userID == 0 {
		return 0, apperr.ErrAuthenticationRequired
	}
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID int64) (int64, error) {
	if userID == 0 {
		return 0, apperr.ErrAuthenticationRequired
	}
	return s.repo.DeleteAll(ctx, userID)
}

// PruneRead removes read entries created before the cutoff. Unread entries are
// kept regardless of age.
func (s *Service) PruneRead(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.repo.DeleteReadBefore(ctx, before)
	if err != nil {
		return 0, err
	}
	s.log.Info("pruned read notifications", zap.Int64("deleted", n), zap.Time("before", before))
	return n, nil
}
