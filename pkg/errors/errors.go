package errors

import "errors"

var (
	// Validation errors
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidLatitude    = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude   = errors.New("longitude must be between -180 and 180")
	ErrInvalidLimit       = errors.New("limit out of range")
	ErrEmptyQuestion      = errors.New("question cannot be empty")
	ErrQuestionTooLong    = errors.New("question must be at most 1000 characters")

	// Catalog errors
	ErrCatalogUnavailable = errors.New("restaurant catalog unavailable")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrUpstream           = errors.New("upstream request failed")

	// Auth errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid token")

	// Rate limit errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Assistant errors
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	ErrEmptyAnswer          = errors.New("assistant returned an empty answer")
	ErrDuplicateQuestion    = errors.New("question already asked recently")
	ErrQuestionRejected     = errors.New("question rejected")

	// Feed errors
	ErrInvalidMessageType = errors.New("invalid message type")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDataNotFound       = errors.New("data not found")
)

// AppError pairs an error with the HTTP status and machine-readable code
// the API reports for it.
type AppError struct {
	Err        error
	Message    string
	Code       string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message, code string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
	}
}
