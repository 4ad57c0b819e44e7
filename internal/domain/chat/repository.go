package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petsitter/internal/pkg/dberr"
)

type Repository interface {
	Create(ctx context.Context, ch *Channel) error
	GetOrCreate(ctx context.Context, ch *Channel) (*Channel, error)
	Get(ctx context.Context, id string) (*Channel, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID int64) ([]*Channel, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ch *Channel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ch).Error; err != nil {
			if dberr.IsUniqueViolation(err) {
				return ErrChannelExists
			}
			return err
		}
		return addMembers(tx, ch.ID, ch.Members)
	})
}

// GetOrCreate returns the stored channel, creating it or filling in missing
// members as needed.
func (r *repository) GetOrCreate(ctx context.Context, ch *Channel) (*Channel, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ch).Error; err != nil {
			return err
		}
		return addMembers(tx, ch.ID, ch.Members)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, ch.ID)
}

func addMembers(tx *gorm.DB, channelID string, userIDs []int64) error {
	now := time.Now()
	for _, uid := range userIDs {
		m := Member{ChannelID: channelID, UserID: uid, JoinedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Channel, error) {
	var ch Channel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChannelNotFound
	}
	if err != nil {
		return nil, err
	}

	var members []Member
	if err := r.db.WithContext(ctx).Where("channel_id = ?", id).Order("user_id asc").Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		ch.Members = append(ch.Members, m.UserID)
	}
	return &ch, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", id).Delete(&Member{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Channel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrChannelNotFound
		}
		return nil
	})
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Channel, error) {
	var channels []*Channel
	err := r.db.WithContext(ctx).
		Select("chat_channels.*").
		Joins("JOIN chat_channel_members m ON m.channel_id = chat_channels.id").
		Where("m.user_id = ?", userID).
		Order("chat_channels.created_at DESC").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return channels, nil
	}

	ids := make([]string, 0, len(channels))
	byID := make(map[string]*Channel, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
		byID[ch.ID] = ch
	}

	var members []Member
	if err := r.db.WithContext(ctx).Where("channel_id IN ?", ids).Order("user_id asc").Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		byID[m.ChannelID].Members = append(byID[m.ChannelID].Members, m.UserID)
	}
	return channels, nil
}
