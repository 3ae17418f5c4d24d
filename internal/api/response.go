package api

import (
	"errors"
	"net/http"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

// Response is the envelope of every /api reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorData `json:"error,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func SuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func ErrorResponse(message, code string) Response {
	return Response{
		Success: false,
		Error:   &ErrorData{Message: message, Code: code},
	}
}

// toAppError classifies err for the API. Errors that already are an
// AppError keep their status and code.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCoordinates),
		errors.Is(err, apperrors.ErrInvalidLatitude),
		errors.Is(err, apperrors.ErrInvalidLongitude):
		return apperrors.NewAppError(err, err.Error(), "INVALID_COORDINATES", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInvalidLimit):
		return apperrors.NewAppError(err, err.Error(), "INVALID_LIMIT", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrEmptyQuestion),
		errors.Is(err, apperrors.ErrQuestionTooLong),
		errors.Is(err, apperrors.ErrQuestionRejected):
		return apperrors.NewAppError(err, err.Error(), "INVALID_REQUEST", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrUnauthenticated), errors.Is(err, apperrors.ErrInvalidToken):
		return apperrors.NewAppError(err, err.Error(), "UNAUTHENTICATED", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrRateLimitExceeded), errors.Is(err, apperrors.ErrDuplicateQuestion):
		return apperrors.NewAppError(err, err.Error(), "RATE_LIMIT", http.StatusTooManyRequests)
	case errors.Is(err, apperrors.ErrRestaurantNotFound):
		return apperrors.NewAppError(err, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrCatalogUnavailable), errors.Is(err, apperrors.ErrUpstream):
		return apperrors.NewAppError(err, "Restaurant catalog unavailable", "CATALOG_UNAVAILABLE", http.StatusServiceUnavailable)
	case errors.Is(err, apperrors.ErrAssistantUnavailable), errors.Is(err, apperrors.ErrEmptyAnswer):
		return apperrors.NewAppError(err, "Assistant unavailable", "ASSISTANT_ERROR", http.StatusBadGateway)
	default:
		return apperrors.NewAppError(err, "Internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// AppErrorResponse renders appErr as an envelope.
func AppErrorResponse(appErr *apperrors.AppError) Response {
	return ErrorResponse(appErr.Error(), appErr.Code)
}
