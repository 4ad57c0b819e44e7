package sideeffect

import (
	"context"
	"fmt"

	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/notification"
)

type Messenger interface {
	CreateChannel(ctx context.Context, bookingID int64, members []int64) (*chat.Channel, error)
	DeleteChannel(ctx context.Context, bookingID int64) error
}

type Notifier interface {
	Emit(ctx context.Context, userID int64, typ notification.Type, content string) (*notification.Notification, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// Runner executes a job against the configured collaborators. A nil
// collaborator turns its jobs into no-ops.
type Runner struct {
	messenger Messenger
	notifier  Notifier
	publisher Publisher
	cache     CacheInvalidator
}

func NewRunner(messenger Messenger, notifier Notifier, publisher Publisher, cache CacheInvalidator) *Runner {
	return &Runner{
		messenger: messenger,
		notifier:  notifier,
		publisher: publisher,
		cache:     cache,
	}
}

func (r *Runner) Run(ctx context.Context, job Job) error {
	switch job.Kind {
	case KindCreateChannel:
		if r.messenger == nil {
			return nil
		}
		_, err := r.messenger.CreateChannel(ctx, job.BookingID, job.Members)
		return err
	case KindDeleteChannel:
		if r.messenger == nil {
			return nil
		}
		return r.messenger.DeleteChannel(ctx, job.BookingID)
	case KindNotify:
		if r.notifier == nil {
			return nil
		}
		_, err := r.notifier.Emit(ctx, job.UserID, job.NotificationType, job.Content)
		return err
	case KindPublishEvent:
		if r.publisher == nil || job.Event == nil {
			return nil
		}
		return r.publisher.Publish(ctx, *job.Event)
	case KindInvalidateDiscovery:
		if r.cache == nil {
			return nil
		}
		return r.cache.Invalidate(ctx, job.UserID)
	default:
		return fmt.Errorf("unknown side effect kind %q", job.Kind)
	}
}
