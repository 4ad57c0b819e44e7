package discovery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"petsitter/internal/domain/profile"
	"petsitter/internal/pkg/apperr"
	"petsitter/internal/pkg/geo"
)

const MaxRadiusMeters = 100000

// ProfileReader is the slice of the profile repository discovery needs.
type ProfileReader interface {
	GetOwnerByUserID(ctx context.Context, userID int64) (*profile.Owner, error)
	PrimaryServices(ctx context.Context, sitterIDs []int64) (map[int64]profile.SitterService, error)
}

// PendingLookup lists sitters an owner has a pending booking with.
type PendingLookup interface {
	PendingSitterIDs(ctx context.Context, ownerID int64) ([]int64, error)
}

type Options struct {
	DefaultRadiusMeters float64
	CacheTTL            time.Duration
}

type Service struct {
	index    GeoIndex
	profiles ProfileReader
	pending  PendingLookup
	cache    resultCache
	opts     Options
	log      *zap.Logger
}

// NewService wires the search path. cache may be nil.
func NewService(index GeoIndex, profiles ProfileReader, pending PendingLookup, cache *redis.Client, opts Options, log *zap.Logger) *Service {
	if opts.DefaultRadiusMeters <= 0 {
		opts.DefaultRadiusMeters = 5000
	}
	s := &Service{
		index:    index,
		profiles: profiles,
		pending:  pending,
		opts:     opts,
		log:      log,
	}
	if cache != nil && opts.CacheTTL > 0 {
		s.cache = &redisCache{client: cache, ttl: opts.CacheTTL, log: log}
	}
	return s
}

// RadiusQuery is a point-in-radius search. A nil radius means the default.
type RadiusQuery struct {
	Lat          float64
	Lng          float64
	RadiusMeters *float64
}

// SearchRadius returns eligible sitters within the radius, nearest first.
func (s *Service) SearchRadius(ctx context.Context, userID int64, q RadiusQuery) ([]SitterSummary, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	center := geo.Point{Lat: q.Lat, Lng: q.Lng}
	if !center.Valid() {
		return nil, ErrInvalidCoordinates
	}
	radius := s.opts.DefaultRadiusMeters
	if q.RadiusMeters != nil {
		radius = *q.RadiusMeters
	}
	if math.IsNaN(radius) || radius <= 0 || radius > MaxRadiusMeters {
		return nil, ErrInvalidRadius
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, err
	}

	queryKey := fmt.Sprintf("radius:%.6f:%.6f:%.0f", center.Lat, center.Lng, radius)
	ranked, err := s.ranked(ctx, userID, queryKey, func() ([]rankedSitter, error) {
		candidates, err := s.index.WithinRadius(ctx, center, radius)
		if err != nil {
			return nil, err
		}
		RankByDistance(candidates)
		return s.summarize(ctx, candidates, true)
	})
	if err != nil {
		return nil, err
	}
	return eligibleSummaries(ranked, requester), nil
}

// SearchArea returns eligible sitters whose area label contains the token,
// best rated first.
func (s *Service) SearchArea(ctx context.Context, userID int64, area string) ([]SitterSummary, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	token := strings.TrimSpace(area)
	if token == "" {
		return nil, ErrEmptyArea
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, err
	}

	queryKey := "area:" + strings.ToLower(token)
	ranked, err := s.ranked(ctx, userID, queryKey, func() ([]rankedSitter, error) {
		candidates, err := s.index.MatchingArea(ctx, token)
		if err != nil {
			return nil, err
		}
		RankByRating(candidates)
		return s.summarize(ctx, candidates, false)
	})
	if err != nil {
		return nil, err
	}
	return eligibleSummaries(ranked, requester), nil
}

// Invalidate drops every cached result for the user.
func (s *Service) Invalidate(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.invalidate(ctx, userID)
}

// ranked returns the ranked candidates for a query from the cache, or loads
// and caches them.
func (s *Service) ranked(ctx context.Context, userID int64, queryKey string, load func() ([]rankedSitter, error)) ([]rankedSitter, error) {
	if s.cache != nil {
		if hit, ok := s.cache.get(ctx, userID, queryKey); ok {
			return hit, nil
		}
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.set(ctx, userID, queryKey, out)
	}
	return out, nil
}

// eligibleSummaries keeps ranking order, so filtering after ranking gives the
// same result as ranking the eligible set.
func eligibleSummaries(ranked []rankedSitter, r Requester) []SitterSummary {
	out := make([]SitterSummary, 0, len(ranked))
	for _, rs := range ranked {
		c := Candidate{
			Sitter:      profile.Sitter{ID: rs.Summary.SitterID, UserID: rs.SitterUserID},
			IsAvailable: rs.IsAvailable,
		}
		if Eligible(c, r) {
			out = append(out, rs.Summary)
		}
	}
	return out
}

func (s *Service) requester(ctx context.Context, userID int64) (Requester, error) {
	r := Requester{UserID: userID, PendingSitterIDs: map[int64]struct{}{}}

	owner, err := s.profiles.GetOwnerByUserID(ctx, userID)
	if errors.Is(err, apperr.ErrProfileNotFound) {
		return r, nil
	}
	if err != nil {
		return r, err
	}

	ids, err := s.pending.PendingSitterIDs(ctx, owner.ID)
	if err != nil {
		return r, err
	}
	for _, id := range ids {
		r.PendingSitterIDs[id] = struct{}{}
	}
	return r, nil
}

func (s *Service) summarize(ctx context.Context, ranked []Candidate, withDistance bool) ([]rankedSitter, error) {
	ids := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Sitter.ID)
	}
	primary, err := s.profiles.PrimaryServices(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]rankedSitter, 0, len(ranked))
	for _, c := range ranked {
		sum := SitterSummary{
			SitterID:      c.Sitter.ID,
			DisplayName:   c.Sitter.DisplayName,
			Headline:      c.Sitter.Headline,
			Area:          c.Sitter.Area,
			City:          c.Sitter.City,
			Verified:      c.Sitter.Verified,
			AverageRating: c.Sitter.AverageRating,
			TotalReviews:  c.Sitter.TotalReviews,
			Accepts:       c.Sitter.Accepts,
		}
		if svc, ok := primary[c.Sitter.ID]; ok {
			sum.Service = &ServiceSummary{
				ServiceID:   svc.ID,
				ServiceType: svc.ServiceType,
				PricePerDay: svc.PricePerDay,
			}
		}
		if withDistance {
			d := math.Round(c.DistanceMeters*10) / 10
			sum.DistanceMeters = &d
		}
		out = append(out, rankedSitter{SitterUserID: c.Sitter.UserID, IsAvailable: c.IsAvailable, Summary: sum})
	}
	return out, nil
}
