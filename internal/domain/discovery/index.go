package discovery

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"petsitter/internal/domain/profile"
	"petsitter/internal/pkg/geo"
)

// GeoIndex answers spatial and text queries over sitter records. It knows
// nothing about bookings.
type GeoIndex interface {
	WithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]Candidate, error)
	MatchingArea(ctx context.Context, token string) ([]Candidate, error)
}

type gormGeoIndex struct {
	db *gorm.DB
}

func NewGeoIndex(db *gorm.DB) GeoIndex {
	return &gormGeoIndex{db: db}
}

type candidateRow struct {
	profile.SitterModel
	IsAvailable *bool `gorm:"column:is_available"`
}

func (g *gormGeoIndex) base(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).
		Table("sitters").
		Select("sitters.*, sitter_availability.is_available").
		Joins("LEFT JOIN sitter_availability ON sitter_availability.sitter_id = sitters.id")
}

// WithinRadius prefilters with a bounding box in SQL and keeps rows whose
// great-circle distance is within radiusMeters.
func (g *gormGeoIndex) WithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]Candidate, error) {
	box := geo.BoundingBox(center, radiusMeters)
	q := g.base(ctx).Where("sitters.latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if !box.WrapsLng {
		q = q.Where("sitters.longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var rows []candidateRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		c := toCandidate(row)
		c.DistanceMeters = geo.DistanceMeters(center, geo.Point{Lat: c.Sitter.Latitude, Lng: c.Sitter.Longitude})
		if c.DistanceMeters <= radiusMeters {
			out = append(out, c)
		}
	}
	return out, nil
}

// MatchingArea is a case-insensitive substring match on the area label.
func (g *gormGeoIndex) MatchingArea(ctx context.Context, token string) ([]Candidate, error) {
	pattern := "%" + escapeLike(strings.ToLower(token)) + "%"

	var rows []candidateRow
	err := g.base(ctx).
		Where(`LOWER(sitters.area) LIKE ? ESCAPE '\'`, pattern).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCandidate(row))
	}
	return out, nil
}

func toCandidate(row candidateRow) Candidate {
	return Candidate{
		Sitter:      *profile.ToDomainSitter(row.SitterModel),
		IsAvailable: row.IsAvailable != nil && *row.IsAvailable,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
