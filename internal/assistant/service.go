package assistant

import (
	"context"

	"github.com/pourrice/pourrice/internal/location"
	"github.com/pourrice/pourrice/internal/nearby"
	"github.com/pourrice/pourrice/pkg/logger"
	"github.com/pourrice/pourrice/pkg/validator"
)

// contextLimit caps how many nearby restaurants go into the prompt.
const contextLimit = 8

// NearbyFinder is the part of the nearby service the assistant uses.
type NearbyFinder interface {
	Nearby(ctx context.Context, origin location.GeoPoint, limit int) (*nearby.Result, error)
	MaxLimit() int
}

type Question struct {
	Text   string
	Lang   string
	Origin *location.GeoPoint
	// UserID scopes duplicate detection; empty means anonymous.
	UserID string
}

type Answer struct {
	Text    string        `json:"answer"`
	Context []nearby.Item `json:"context,omitempty"`
}

type Service struct {
	client    Client
	nearby    NearbyFinder
	validator validator.Validator
	guard     *Guard
	logger    logger.Logger
}

// NewService builds the assistant. guard may be nil to skip question
// screening.
func NewService(client Client, finder NearbyFinder, val validator.Validator, guard *Guard, log logger.Logger) *Service {
	return &Service{
		client:    client,
		nearby:    finder,
		validator: val,
		guard:     guard,
		logger:    log,
	}
}

// Ask answers q. When q carries an origin the nearest restaurants are
// included in the prompt and returned alongside the answer.
func (s *Service) Ask(ctx context.Context, q Question) (*Answer, error) {
	if err := s.validator.ValidateQuestion(q.Text); err != nil {
		return nil, err
	}

	if s.guard != nil {
		if err := s.guard.Check(ctx, q.UserID, q.Text); err != nil {
			return nil, err
		}
	}

	var items []nearby.Item
	if q.Origin != nil {
		result, err := s.nearby.Nearby(ctx, *q.Origin, min(contextLimit, s.nearby.MaxLimit()))
		if err != nil {
			return nil, err
		}
		items = result.Items
	}

	text, err := s.client.Generate(ctx, BuildPrompt(Sanitize(q.Text), q.Lang, items))
	if err != nil {
		s.logger.Error("Assistant request failed", "error", err)
		return nil, err
	}

	return &Answer{Text: text, Context: items}, nil
}
