package profile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petsitter/internal/pkg/dberr"
)

type OwnerModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;uniqueIndex;not null"`
	DisplayName string    `gorm:"column:display_name;not null"`
	Phone       string    `gorm:"column:phone"`
	Bio         string    `gorm:"column:bio"`
	City        string    `gorm:"column:city"`
	Area        string    `gorm:"column:area"`
	Latitude    float64   `gorm:"column:latitude"`
	Longitude   float64   `gorm:"column:longitude"`
	IsSitter    bool      `gorm:"column:is_sitter;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (OwnerModel) TableName() string { return "pet_owners" }

type SitterModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;uniqueIndex;not null"`
	DisplayName      string    `gorm:"column:display_name;not null"`
	Headline         string    `gorm:"column:headline"`
	Bio              string    `gorm:"column:bio"`
	Phone            string    `gorm:"column:phone"`
	City             string    `gorm:"column:city"`
	Area             string    `gorm:"column:area;index"`
	Latitude         float64   `gorm:"column:latitude;index:idx_sitters_lat_lng"`
	Longitude        float64   `gorm:"column:longitude;index:idx_sitters_lat_lng"`
	ExperienceYears  int       `gorm:"column:experience_years;not null;default:0"`
	AcceptsLargeDogs bool      `gorm:"column:accepts_large_dogs;not null;default:false"`
	AcceptsSmallDogs bool      `gorm:"column:accepts_small_dogs;not null;default:false"`
	AcceptsCats      bool      `gorm:"column:accepts_cats;not null;default:false"`
	AcceptsFish      bool      `gorm:"column:accepts_fish;not null;default:false"`
	AcceptsBirds     bool      `gorm:"column:accepts_birds;not null;default:false"`
	AcceptsOtherPets bool      `gorm:"column:accepts_other_pets;not null;default:false"`
	Verified         bool      `gorm:"column:verified;not null;default:false"`
	AverageRating    float64   `gorm:"column:average_rating;not null;default:0"`
	TotalReviews     int       `gorm:"column:total_reviews;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (SitterModel) TableName() string { return "sitters" }

type ServiceModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	SitterID     int64     `gorm:"column:sitter_id;index;not null"`
	ServiceType  string    `gorm:"column:service_type;not null"`
	PricePerDay  float64   `gorm:"column:price_per_day;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	TotalEarning float64   `gorm:"column:total_earning;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (ServiceModel) TableName() string { return "services" }

type AvailabilityModel struct {
	SitterID    int64     `gorm:"column:sitter_id;primaryKey;autoIncrement:false"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (AvailabilityModel) TableName() string { return "sitter_availability" }

func toDomainOwner(m OwnerModel) *Owner {
	return &Owner{
		ID:          m.ID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Phone:       m.Phone,
		Bio:         m.Bio,
		City:        m.City,
		Area:        m.Area,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		IsSitter:    m.IsSitter,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toOwnerModel(o *Owner) OwnerModel {
	return OwnerModel{
		ID:          o.ID,
		UserID:      o.UserID,
		DisplayName: o.DisplayName,
		Phone:       o.Phone,
		Bio:         o.Bio,
		City:        o.City,
		Area:        o.Area,
		Latitude:    o.Latitude,
		Longitude:   o.Longitude,
		IsSitter:    o.IsSitter,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToDomainSitter is shared with the discovery index, which reads the same table.
func ToDomainSitter(m SitterModel) *Sitter {
	return &Sitter{
		ID:              m.ID,
		UserID:          m.UserID,
		DisplayName:     m.DisplayName,
		Headline:        m.Headline,
		Bio:             m.Bio,
		Phone:           m.Phone,
		City:            m.City,
		Area:            m.Area,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		ExperienceYears: m.ExperienceYears,
		Accepts: PetAcceptance{
			LargeDogs: m.AcceptsLargeDogs,
			SmallDogs: m.AcceptsSmallDogs,
			Cats:      m.AcceptsCats,
			Fish:      m.AcceptsFish,
			Birds:     m.AcceptsBirds,
			OtherPets: m.AcceptsOtherPets,
		},
		Verified:      m.Verified,
		AverageRating: m.AverageRating,
		TotalReviews:  m.TotalReviews,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toSitterModel(s *Sitter) SitterModel {
	return SitterModel{
		ID:               s.ID,
		UserID:           s.UserID,
		DisplayName:      s.DisplayName,
		Headline:         s.Headline,
		Bio:              s.Bio,
		Phone:            s.Phone,
		City:             s.City,
		Area:             s.Area,
		Latitude:         s.Latitude,
		Longitude:        s.Longitude,
		ExperienceYears:  s.ExperienceYears,
		AcceptsLargeDogs: s.Accepts.LargeDogs,
		AcceptsSmallDogs: s.Accepts.SmallDogs,
		AcceptsCats:      s.Accepts.Cats,
		AcceptsFish:      s.Accepts.Fish,
		AcceptsBirds:     s.Accepts.Birds,
		AcceptsOtherPets: s.Accepts.OtherPets,
		Verified:         s.Verified,
		AverageRating:    s.AverageRating,
		TotalReviews:     s.TotalReviews,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toDomainService(m ServiceModel) SitterService {
	return SitterService{
		ID:           m.ID,
		SitterID:     m.SitterID,
		ServiceType:  m.ServiceType,
		PricePerDay:  m.PricePerDay,
		IsActive:     m.IsActive,
		TotalEarning: m.TotalEarning,
		CreatedAt:    m.CreatedAt,
	}
}

type Repository interface {
	SaveOwner(ctx context.Context, o *Owner) error
	GetOwnerByUserID(ctx context.Context, userID int64) (*Owner, error)
	GetOwnerByID(ctx context.Context, id int64) (*Owner, error)

	CreateSitter(ctx context.Context, s *Sitter) error
	GetSitterByUserID(ctx context.Context, userID int64) (*Sitter, error)
	GetSitterByID(ctx context.Context, id int64) (*Sitter, error)

	CreateService(ctx context.Context, svc *SitterService) error
	ListServices(ctx context.Context, sitterID int64) ([]SitterService, error)
	ListActiveServices(ctx context.Context, sitterID int64) ([]SitterService, error)
	PrimaryServices(ctx context.Context, sitterIDs []int64) (map[int64]SitterService, error)

	SetAvailability(ctx context.Context, sitterID int64, available bool) error
	GetAvailability(ctx context.Context, sitterID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// SaveOwner creates the owner row for o.UserID or updates the existing one.
func (r *repository) SaveOwner(ctx context.Context, o *Owner) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing OwnerModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", o.UserID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		m := toOwnerModel(o)
		if err == nil {
			m.ID = existing.ID
			m.IsSitter = existing.IsSitter
			m.CreatedAt = existing.CreatedAt
		} else {
			var sitterCount int64
			if err := tx.Model(&SitterModel{}).Where("user_id = ?", o.UserID).Count(&sitterCount).Error; err != nil {
				return err
			}
			m.IsSitter = sitterCount > 0
		}

		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		*o = *toDomainOwner(m)
		return nil
	})
}

func (r *repository) GetOwnerByUserID(ctx context.Context, userID int64) (*Owner, error) {
	var m OwnerModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainOwner(m), nil
}

func (r *repository) GetOwnerByID(ctx context.Context, id int64) (*Owner, error) {
	var m OwnerModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainOwner(m), nil
}

// CreateSitter inserts the sitter with an open availability row and marks the
// matching owner profile, if any, as a sitter.
func (r *repository) CreateSitter(ctx context.Context, s *Sitter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toSitterModel(s)
		if err := tx.Create(&m).Error; err != nil {
			if dberr.IsUniqueViolation(err) {
				return ErrAlreadySitter
			}
			return err
		}

		avail := AvailabilityModel{SitterID: m.ID, IsAvailable: true, UpdatedAt: time.Now()}
		if err := tx.Create(&avail).Error; err != nil {
			return err
		}

		if err := tx.Model(&OwnerModel{}).
			Where("user_id = ?", s.UserID).
			Update("is_sitter", true).Error; err != nil {
			return err
		}

		*s = *ToDomainSitter(m)
		return nil
	})
}

func (r *repository) GetSitterByUserID(ctx context.Context, userID int64) (*Sitter, error) {
	var m SitterModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSitterProfileMissing
	}
	if err != nil {
		return nil, err
	}
	return ToDomainSitter(m), nil
}

func (r *repository) GetSitterByID(ctx context.Context, id int64) (*Sitter, error) {
	var m SitterModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSitterNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToDomainSitter(m), nil
}

func (r *repository) CreateService(ctx context.Context, svc *SitterService) error {
	m := ServiceModel{
		SitterID:    svc.SitterID,
		ServiceType: svc.ServiceType,
		PricePerDay: svc.PricePerDay,
		IsActive:    svc.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*svc = toDomainService(m)
	return nil
}

func (r *repository) ListServices(ctx context.Context, sitterID int64) ([]SitterService, error) {
	return r.listServices(ctx, r.db.WithContext(ctx).Where("sitter_id = ?", sitterID))
}

func (r *repository) ListActiveServices(ctx context.Context, sitterID int64) ([]SitterService, error) {
	return r.listServices(ctx, r.db.WithContext(ctx).Where("sitter_id = ? AND is_active = ?", sitterID, true))
}

func (r *repository) listServices(_ context.Context, q *gorm.DB) ([]SitterService, error) {
	var rows []ServiceModel
	if err := q.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]SitterService, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainService(m))
	}
	return out, nil
}

// PrimaryServices returns the lowest-id active service per sitter.
func (r *repository) PrimaryServices(ctx context.Context, sitterIDs []int64) (map[int64]SitterService, error) {
	out := make(map[int64]SitterService, len(sitterIDs))
	if len(sitterIDs) == 0 {
		return out, nil
	}

	var rows []ServiceModel
	err := r.db.WithContext(ctx).
		Where("sitter_id IN ? AND is_active = ?", sitterIDs, true).
		Order("sitter_id asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, m := range rows {
		if _, seen := out[m.SitterID]; !seen {
			out[m.SitterID] = toDomainService(m)
		}
	}
	return out, nil
}

func (r *repository) SetAvailability(ctx context.Context, sitterID int64, available bool) error {
	m := AvailabilityModel{SitterID: sitterID, IsAvailable: available, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sitter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}).Create(&m).Error
}

// GetAvailability treats a missing row as unavailable.
func (r *repository) GetAvailability(ctx context.Context, sitterID int64) (bool, error) {
	var m AvailabilityModel
	err := r.db.WithContext(ctx).Where("sitter_id = ?", sitterID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.IsAvailable, nil
}
