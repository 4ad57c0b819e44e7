package chat

import (
	"fmt"
	"time"
)

// Channel is the messaging space for one accepted booking. Its id is derived
// from the booking id so provisioning can be repeated safely.
type Channel struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	BookingID int64     `gorm:"column:booking_id;uniqueIndex;not null" json:"booking_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Members []int64 `gorm:"-" json:"members"`
}

func (Channel) TableName() string { return "chat_channels" }

type Member struct {
	ChannelID string    `gorm:"column:channel_id;primaryKey" json:"channel_id"`
	UserID    int64     `gorm:"column:user_id;primaryKey;index" json:"user_id"`
	JoinedAt  time.Time `gorm:"column:joined_at" json:"joined_at"`
}

func (Member) TableName() string { return "chat_channel_members" }

func ChannelID(bookingID int64) string {
	return fmt.Sprintf("booking_%d", bookingID)
}

func channelName(bookingID int64) string {
	return fmt.Sprintf("Booking #%d", bookingID)
}
