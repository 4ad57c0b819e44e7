package notification

import "time"

// Type tags a feed entry by the lifecycle transition that produced it.
type Type string

const (
	TypeBookingAccepted Type = "booking_accepted" // Owner: sitter accepted the booking
	TypeBookingDeclined Type = "booking_declined" // Owner: sitter declined the booking
	TypeReviewReceived  Type = "review_received"  // Sitter: owner left a review
	TypeReviewReply     Type = "review_reply"     // Owner: sitter replied to the review
)

func (t Type) Valid() bool {
	switch t {
	case TypeBookingAccepted, TypeBookingDeclined, TypeReviewReceived, TypeReviewReply:
		return true
	}
	return false
}

// Notification is an append-only feed entry. Only IsRead changes after insert.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      Type      `json:"type"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationModel struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_notifications_user_unread"`
	Type      string    `gorm:"column:type;not null"`
	Content   string    `gorm:"column:content;not null"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_unread"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func toDomain(m NotificationModel) *Notification {
	return &Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      Type(m.Type),
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
