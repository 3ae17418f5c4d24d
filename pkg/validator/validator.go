package validator

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

const maxQuestionLength = 1000

type Validator interface {
	ValidateCoordinates(lat, lon float64) error
	ValidateLimit(limit, max int) error
	ValidateQuestion(question string) error
}

type validator struct{}

func NewValidator() Validator {
	return &validator{}
}

// ValidateCoordinates rejects out-of-range values. NaN fails both comparisons
// and is rejected explicitly.
func (v *validator) ValidateCoordinates(lat, lon float64) error {
	if lat != lat || lat < -90 || lat > 90 {
		return apperrors.ErrInvalidLatitude
	}

	if lon != lon || lon < -180 || lon > 180 {
		return apperrors.ErrInvalidLongitude
	}

	return nil
}

func (v *validator) ValidateLimit(limit, max int) error {
	if limit < 1 || limit > max {
		return apperrors.ErrInvalidLimit
	}

	return nil
}

func (v *validator) ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return apperrors.ErrEmptyQuestion
	}

	if utf8.RuneCountInString(question) > maxQuestionLength {
		return apperrors.ErrQuestionTooLong
	}

	return nil
}
