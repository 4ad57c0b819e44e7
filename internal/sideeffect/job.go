package sideeffect

import (
	"petsitter/internal/domain/notification"
)

// Kind names the downstream call a job performs.
type Kind string

const (
	KindCreateChannel       Kind = "chat.create_channel"
	KindDeleteChannel       Kind = "chat.delete_channel"
	KindNotify              Kind = "notification.emit"
	KindPublishEvent        Kind = "event.publish"
	KindInvalidateDiscovery Kind = "discovery.invalidate"
)

// Job is one best-effort call made after a booking transition commits. It is
// plain data so it can cross a queue.
type Job struct {
	Kind             Kind              `json:"kind"`
	BookingID        int64             `json:"booking_id,omitempty"`
	Members          []int64           `json:"members,omitempty"`
	UserID           int64             `json:"user_id,omitempty"`
	NotificationType notification.Type `json:"notification_type,omitempty"`
	Content          string            `json:"content,omitempty"`
	Event            *Event            `json:"event,omitempty"`
}

func CreateChannel(bookingID int64, members ...int64) Job {
	return Job{Kind: KindCreateChannel, BookingID: bookingID, Members: members}
}

func DeleteChannel(bookingID int64) Job {
	return Job{Kind: KindDeleteChannel, BookingID: bookingID}
}

func Notify(userID int64, typ notification.Type, content string) Job {
	return Job{Kind: KindNotify, UserID: userID, NotificationType: typ, Content: content}
}

func Publish(ev Event) Job {
	return Job{Kind: KindPublishEvent, BookingID: ev.BookingID, Event: &ev}
}

func InvalidateDiscovery(userID int64) Job {
	return Job{Kind: KindInvalidateDiscovery, UserID: userID}
}
