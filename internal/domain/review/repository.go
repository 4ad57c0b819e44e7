package review

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"petsitter/internal/pkg/dberr"
)

type ReviewModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	BookingID   int64      `gorm:"column:booking_id;uniqueIndex;not null"`
	BookingCode string     `gorm:"column:booking_code;not null"`
	OwnerID     int64      `gorm:"column:owner_id;index;not null"`
	SitterID    int64      `gorm:"column:sitter_id;index;not null"`
	Rating      int        `gorm:"column:rating;not null"`
	Comment     *string    `gorm:"column:comment"`
	SitterReply *string    `gorm:"column:sitter_reply"`
	RepliedAt   *time.Time `gorm:"column:replied_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (ReviewModel) TableName() string { return "reviews" }

func toDomainReview(m ReviewModel) Review {
	comment := ""
	if m.Comment != nil {
		comment = *m.Comment
	}
	return Review{
		ID:          m.ID,
		BookingID:   m.BookingID,
		BookingCode: m.BookingCode,
		OwnerID:     m.OwnerID,
		SitterID:    m.SitterID,
		Rating:      m.Rating,
		Comment:     comment,
		SitterReply: m.SitterReply,
		RepliedAt:   m.RepliedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toReviewModel(r *Review) ReviewModel {
	var comment *string
	if r.Comment != "" {
		v := r.Comment
		comment = &v
	}
	return ReviewModel{
		ID:          r.ID,
		BookingID:   r.BookingID,
		BookingCode: r.BookingCode,
		OwnerID:     r.OwnerID,
		SitterID:    r.SitterID,
		Rating:      r.Rating,
		Comment:     comment,
		SitterReply: r.SitterReply,
		RepliedAt:   r.RepliedAt,
		CreatedAt:   r.CreatedAt,
	}
}

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]Review, int64, error)
	// SetReply stores the reply only if none exists yet and reports whether it did.
	SetReply(ctx context.Context, id int64, reply string, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository accepts either the root handle or an open transaction.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	m := toReviewModel(rev)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return err
	}
	*rev = toDomainReview(m)
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	var m ReviewModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	rev := toDomainReview(m)
	return &rev, nil
}

func (r *repository) ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("sitter_id = ?", sitterID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ReviewModel
	if err := q.Order("created_at desc, id desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, total, nil
}

func (r *repository) SetReply(ctx context.Context, id int64, reply string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("id = ? AND sitter_reply IS NULL", id).
		Updates(map[string]any{"sitter_reply": reply, "replied_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
