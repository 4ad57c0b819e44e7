package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petsitter/internal/domain/aggregate"
	"petsitter/internal/domain/review"
	"petsitter/internal/pkg/dberr"
)

type BookingModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	SitterID       int64     `gorm:"column:sitter_id;index;not null"`
	OwnerID        int64     `gorm:"column:owner_id;index;not null"`
	ServiceID      int64     `gorm:"column:service_id;not null"`
	TotalPrice     float64   `gorm:"column:total_price;not null"`
	SpecialRequest *string   `gorm:"column:special_request"`
	BookingCode    string    `gorm:"column:booking_code;uniqueIndex;not null"`
	IsAccepted     bool      `gorm:"column:is_accepted;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (BookingModel) TableName() string { return "bookings" }

type ArchiveModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	BookingID      int64     `gorm:"column:booking_id;uniqueIndex;not null"`
	BookingCode    string    `gorm:"column:booking_code;uniqueIndex;not null"`
	SitterID       int64     `gorm:"column:sitter_id;index;not null"`
	OwnerID        int64     `gorm:"column:owner_id;index;not null"`
	ServiceID      int64     `gorm:"column:service_id;not null"`
	TotalPrice     float64   `gorm:"column:total_price;not null"`
	SpecialRequest *string   `gorm:"column:special_request"`
	WasAccepted    bool      `gorm:"column:was_accepted;not null"`
	Outcome        string    `gorm:"column:outcome;not null"`
	ClosedByUserID int64     `gorm:"column:closed_by_user_id;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	ClosedAt       time.Time `gorm:"column:closed_at"`
}

func (ArchiveModel) TableName() string { return "booking_archive" }

func toDomainBooking(m BookingModel) *Booking {
	var special string
	if m.SpecialRequest != nil {
		special = *m.SpecialRequest
	}
	return &Booking{
		ID:             m.ID,
		SitterID:       m.SitterID,
		OwnerID:        m.OwnerID,
		ServiceID:      m.ServiceID,
		TotalPrice:     m.TotalPrice,
		SpecialRequest: special,
		BookingCode:    m.BookingCode,
		IsAccepted:     m.IsAccepted,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookingModel(b *Booking) BookingModel {
	var special *string
	if b.SpecialRequest != "" {
		v := b.SpecialRequest
		special = &v
	}
	return BookingModel{
		ID:             b.ID,
		SitterID:       b.SitterID,
		OwnerID:        b.OwnerID,
		ServiceID:      b.ServiceID,
		TotalPrice:     b.TotalPrice,
		SpecialRequest: special,
		BookingCode:    b.BookingCode,
		IsAccepted:     b.IsAccepted,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toArchiveModel(m BookingModel, outcome Outcome, closedBy int64, at time.Time) ArchiveModel {
	return ArchiveModel{
		BookingID:      m.ID,
		BookingCode:    m.BookingCode,
		SitterID:       m.SitterID,
		OwnerID:        m.OwnerID,
		ServiceID:      m.ServiceID,
		TotalPrice:     m.TotalPrice,
		SpecialRequest: m.SpecialRequest,
		WasAccepted:    m.IsAccepted,
		Outcome:        string(outcome),
		ClosedByUserID: closedBy,
		CreatedAt:      m.CreatedAt,
		ClosedAt:       at,
	}
}

func toDomainArchive(m ArchiveModel) ArchivedBooking {
	var special string
	if m.SpecialRequest != nil {
		special = *m.SpecialRequest
	}
	return ArchivedBooking{
		BookingID:      m.BookingID,
		BookingCode:    m.BookingCode,
		SitterID:       m.SitterID,
		OwnerID:        m.OwnerID,
		ServiceID:      m.ServiceID,
		TotalPrice:     m.TotalPrice,
		SpecialRequest: special,
		WasAccepted:    m.WasAccepted,
		Outcome:        Outcome(m.Outcome),
		ClosedByUserID: m.ClosedByUserID,
		CreatedAt:      m.CreatedAt,
		ClosedAt:       m.ClosedAt,
	}
}

// Ledger is the persistent store of open bookings. Every state change is a
// single conditional statement or transaction so that racing transitions on
// one booking cannot both succeed.
type Ledger interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, filter StatusFilter) ([]Booking, error)
	ListBySitter(ctx context.Context, sitterID int64, filter StatusFilter) ([]Booking, error)

	MarkAccepted(ctx context.Context, id int64) (*Booking, error)
	DeletePending(ctx context.Context, id int64, outcome Outcome, closedByUserID int64) (*Booking, error)
	Complete(ctx context.Context, in CompleteInput) (*Booking, *review.Review, error)

	ListArchive(ctx context.Context, ownerID, sitterID int64, limit int) ([]ArchivedBooking, error)
	PendingSitterIDs(ctx context.Context, ownerID int64) ([]int64, error)
	CountForSitter(ctx context.Context, sitterID int64) (pending, accepted int64, err error)
}

type ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) Ledger {
	return &ledger{db: db}
}

func (l *ledger) Create(ctx context.Context, b *Booking) error {
	m := toBookingModel(b)
	m.IsAccepted = false
	if err := l.db.WithContext(ctx).Create(&m).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (l *ledger) GetByID(ctx context.Context, id int64) (*Booking, error) {
	m, err := findBooking(l.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func findBooking(q *gorm.DB, id int64) (BookingModel, error) {
	var m BookingModel
	err := q.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrBookingNotFound
	}
	return m, err
}

func (l *ledger) ListByOwner(ctx context.Context, ownerID int64, filter StatusFilter) ([]Booking, error) {
	return l.list(l.db.WithContext(ctx).Where("owner_id = ?", ownerID), filter)
}

func (l *ledger) ListBySitter(ctx context.Context, sitterID int64, filter StatusFilter) ([]Booking, error) {
	return l.list(l.db.WithContext(ctx).Where("sitter_id = ?", sitterID), filter)
}

func (l *ledger) list(q *gorm.DB, filter StatusFilter) ([]Booking, error) {
	switch filter {
	case FilterPending:
		q = q.Where("is_accepted = ?", false)
	case FilterAccepted:
		q = q.Where("is_accepted = ?", true)
	}

	var rows []BookingModel
	if err := q.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// MarkAccepted flips a pending booking to accepted. A booking that is gone or
// already accepted yields NotFound or Conflict respectively.
func (l *ledger) MarkAccepted(ctx context.Context, id int64) (*Booking, error) {
	db := l.db.WithContext(ctx)
	res := db.Model(&BookingModel{}).
		Where("id = ? AND is_accepted = ?", id, false).
		Updates(map[string]any{"is_accepted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}

	m, err := findBooking(db, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyAccepted
	}
	return toDomainBooking(m), nil
}

// DeletePending removes a booking that has not been accepted and archives it
// in the same transaction.
func (l *ledger) DeletePending(ctx context.Context, id int64, outcome Outcome, closedByUserID int64) (*Booking, error) {
	var out *Booking
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findBooking(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if m.IsAccepted {
			return ErrAlreadyAccepted
		}

		res := tx.Where("id = ? AND is_accepted = ?", id, false).Delete(&BookingModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingNotFound
		}

		archive := toArchiveModel(m, outcome, closedByUserID, time.Now())
		if err := tx.Create(&archive).Error; err != nil {
			return err
		}
		out = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete closes an accepted booking through its review: earnings accrue,
// the booking row is deleted and archived, the review is stored and the
// sitter's rating is folded in. All of it commits or none of it does.
func (l *ledger) Complete(ctx context.Context, in CompleteInput) (*Booking, *review.Review, error) {
	var (
		booked *Booking
		rev    *review.Review
	)
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findBooking(tx.Clauses(clause.Locking{Strength: "UPDATE"}), in.BookingID)
		if err != nil {
			return err
		}
		if m.OwnerID != in.OwnerID {
			return ErrNotBookingOwner
		}
		if !m.IsAccepted {
			return ErrNotAccepted
		}

		if err := aggregate.AccrueEarning(tx, m.ServiceID, m.TotalPrice); err != nil {
			return err
		}

		res := tx.Where("id = ? AND is_accepted = ?", m.ID, true).Delete(&BookingModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingNotFound
		}

		now := time.Now()
		archive := toArchiveModel(m, OutcomeReviewed, in.ClosedByUserID, now)
		if err := tx.Create(&archive).Error; err != nil {
			return err
		}

		rev = &review.Review{
			BookingID:   m.ID,
			BookingCode: m.BookingCode,
			OwnerID:     m.OwnerID,
			SitterID:    m.SitterID,
			Rating:      in.Rating,
			Comment:     in.Comment,
			CreatedAt:   now,
		}
		if err := review.NewRepository(tx).Create(ctx, rev); err != nil {
			return err
		}

		if err := aggregate.ApplyRating(tx, m.SitterID, in.Rating); err != nil {
			return err
		}

		booked = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return booked, rev, nil
}

// ListArchive returns closed bookings where the caller was either party. A
// zero id skips that side.
func (l *ledger) ListArchive(ctx context.Context, ownerID, sitterID int64, limit int) ([]ArchivedBooking, error) {
	q := l.db.WithContext(ctx)
	switch {
	case ownerID != 0 && sitterID != 0:
		q = q.Where("owner_id = ? OR sitter_id = ?", ownerID, sitterID)
	case ownerID != 0:
		q = q.Where("owner_id = ?", ownerID)
	case sitterID != 0:
		q = q.Where("sitter_id = ?", sitterID)
	default:
		return []ArchivedBooking{}, nil
	}

	var rows []ArchiveModel
	err := q.Order("closed_at desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ArchivedBooking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainArchive(m))
	}
	return out, nil
}

func (l *ledger) PendingSitterIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := l.db.WithContext(ctx).Model(&BookingModel{}).
		Where("owner_id = ? AND is_accepted = ?", ownerID, false).
		Distinct().
		Pluck("sitter_id", &ids).Error
	return ids, err
}

func (l *ledger) CountForSitter(ctx context.Context, sitterID int64) (int64, int64, error) {
	var rows []struct {
		IsAccepted bool
		N          int64
	}
	err := l.db.WithContext(ctx).Model(&BookingModel{}).
		Select("is_accepted, COUNT(*) AS n").
		Where("sitter_id = ?", sitterID).
		Group("is_accepted").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	var pending, accepted int64
	for _, r := range rows {
		if r.IsAccepted {
			accepted = r.N
		} else {
			pending = r.N
		}
	}
	return pending, accepted, nil
}
