package review

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"petsitter/internal/domain/notification"
	"petsitter/internal/domain/profile"
	"petsitter/internal/pkg/apperr"
	"petsitter/internal/sideeffect"
)

const replyPreviewRunes = 150

type ProfileReader interface {
	GetSitterByUserID(ctx context.Context, userID int64) (*profile.Sitter, error)
	GetSitterByID(ctx context.Context, id int64) (*profile.Sitter, error)
	GetOwnerByID(ctx context.Context, id int64) (*profile.Owner, error)
}

type Service struct {
	repo       Repository
	profiles   ProfileReader
	dispatcher sideeffect.Dispatcher
	log        *zap.Logger
}

func NewService(repo Repository, profiles ProfileReader, dispatcher sideeffect.Dispatcher, log *zap.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, dispatcher: dispatcher, log: log}
}

func (s *Service) ListForSitter(ctx context.Context, sitterID int64, limit, offset int) (*Page, error) {
	if _, err := s.profiles.GetSitterByID(ctx, sitterID); err != nil {
		return nil, err
	}
	reviews, total, err := s.repo.ListBySitter(ctx, sitterID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Page{Reviews: reviews, Total: total}, nil
}

// Reply attaches the sitter's one reply to a review and notifies the owner.
func (s *Service) Reply(ctx context.Context, userID, reviewID int64, text string) (*Review, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReply
	}

	sitter, err := s.profiles.GetSitterByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rev, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev.SitterID != sitter.ID {
		return nil, ErrNotReviewSitter
	}
	if rev.SitterReply != nil {
		return nil, ErrAlreadyReplied
	}

	now := time.Now()
	applied, err := s.repo.SetReply(ctx, reviewID, text, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrAlreadyReplied
	}
	rev.SitterReply = &text
	rev.RepliedAt = &now

	owner, err := s.profiles.GetOwnerByID(ctx, rev.OwnerID)
	if err != nil {
		s.log.Warn("reply notification skipped: owner lookup failed",
			zap.Int64("review_id", reviewID),
			zap.Error(err),
		)
		return rev, nil
	}
	s.dispatcher.Dispatch(ctx, sideeffect.Notify(
		owner.UserID,
		notification.TypeReviewReply,
		fmt.Sprintf("%s replied to your review: %s", sitter.DisplayName, Preview(text)),
	))
	return rev, nil
}

// Preview caps text at 150 runes, marking the cut with an ellipsis.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= replyPreviewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:replyPreviewRunes]) + "..."
}
