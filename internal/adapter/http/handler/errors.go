package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/service"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
	// Expose marks errors whose text is safe to return as the detail field
	Expose bool
}

// MapUsecaseError maps usecase and domain errors to HTTP error responses
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrFormulaNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "formula not found",
		}
	case errors.Is(err, usecase.ErrColumnFormatNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "column format not found",
		}
	case errors.Is(err, usecase.ErrMissingCredentials):
		return ErrorResponse{
			StatusCode: http.StatusUnauthorized,
			Code:       "UNAUTHORIZED",
			Message:    "endpoint URL and API key are required",
		}
	case errors.Is(err, service.ErrDomainNotAllowed):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "DOMAIN_NOT_ALLOWED",
			Message:    "endpoint is outside the allowed network domains",
		}
	case errors.Is(err, service.ErrEmptyResultSet):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "EMPTY_RESULT",
			Message:    "language service returned no documents",
			Expose:     true,
		}
	case errors.Is(err, service.ErrTransport):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "UPSTREAM_ERROR",
			Message:    "language service request failed",
			Expose:     true,
		}
	case errors.Is(err, usecase.ErrHistoryUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "UNAVAILABLE",
			Message:    "invocation history is not configured",
		}
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "invalid request",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError sends the HTTP response mapped from err
func HandleUsecaseError(c *gin.Context, err error) {
	_ = c.Error(err)
	errResp := MapUsecaseError(err)

	var detail string
	if errResp.Expose {
		detail = err.Error()
	}
	respondErrorDetail(c, errResp.StatusCode, errResp.Code, errResp.Message, detail)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
