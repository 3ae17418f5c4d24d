package nearby

import (
	"context"
	"fmt"
	"time"

	"github.com/pourrice/pourrice/internal/location"
	"github.com/pourrice/pourrice/internal/restaurant"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
	"github.com/pourrice/pourrice/pkg/logger"
	"github.com/pourrice/pourrice/pkg/validator"
)

// Snapshotter supplies the restaurant list to rank.
type Snapshotter interface {
	Snapshot() []restaurant.Restaurant
}

// Recorder stores lookup counters. Failures are logged, never surfaced.
type Recorder interface {
	RecordLookup(ctx context.Context, at time.Time, returned, excluded int) error
}

type nopRecorder struct{}

func (nopRecorder) RecordLookup(context.Context, time.Time, int, int) error { return nil }

// NopRecorder discards every lookup.
func NopRecorder() Recorder { return nopRecorder{} }

type Item struct {
	Restaurant     restaurant.Restaurant `json:"restaurant"`
	DistanceMeters float64               `json:"distance_meters"`
	Distance       string                `json:"distance"`
}

type Result struct {
	Items      []Item `json:"items"`
	Considered int    `json:"considered"`
	Excluded   int    `json:"excluded"`
}

type Service struct {
	catalog      Snapshotter
	validator    validator.Validator
	recorder     Recorder
	logger       logger.Logger
	defaultLimit int
	maxLimit     int
}

func NewService(catalog Snapshotter, val validator.Validator, recorder Recorder, log logger.Logger, defaultLimit, maxLimit int) *Service {
	if recorder == nil {
		recorder = NopRecorder()
	}
	return &Service{
		catalog:      catalog,
		validator:    val,
		recorder:     recorder,
		logger:       log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Nearby ranks the current catalog around origin. A zero limit means the
// configured default.
func (s *Service) Nearby(ctx context.Context, origin location.GeoPoint, limit int) (*Result, error) {
	limit, err := s.Validate(origin, limit)
	if err != nil {
		return nil, err
	}

	result := s.Rank(origin, s.catalog.Snapshot(), limit)

	if err := s.recorder.RecordLookup(ctx, time.Now(), len(result.Items), result.Excluded); err != nil {
		s.logger.Warn("Failed to record nearby lookup", "error", err)
	}

	return result, nil
}

// MaxLimit is the largest limit Nearby accepts.
func (s *Service) MaxLimit() int {
	return s.maxLimit
}

// Validate checks origin and resolves limit to the effective value.
func (s *Service) Validate(origin location.GeoPoint, limit int) (int, error) {
	if err := s.validator.ValidateCoordinates(origin.Latitude, origin.Longitude); err != nil {
		return 0, err
	}

	if limit == 0 {
		limit = s.defaultLimit
	}
	if err := s.validator.ValidateLimit(limit, s.maxLimit); err != nil {
		return 0, fmt.Errorf("%w: must be between 1 and %d", apperrors.ErrInvalidLimit, s.maxLimit)
	}

	return limit, nil
}

// Rank orders list around origin without touching the catalog. The caller
// is responsible for validating origin and limit.
func (s *Service) Rank(origin location.GeoPoint, list []restaurant.Restaurant, limit int) *Result {
	ranking := location.Rank(origin, list, limit)

	items := make([]Item, len(ranking.Items))
	for i, r := range ranking.Items {
		items[i] = Item{
			Restaurant:     r.Entity,
			DistanceMeters: r.DistanceMeters,
			Distance:       location.FormatDistance(r.DistanceMeters),
		}
	}

	return &Result{
		Items:      items,
		Considered: len(list),
		Excluded:   ranking.Excluded,
	}
}
