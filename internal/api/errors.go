package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/httputil"
	"github.com/pdihub/pdihub/internal/metrics"
	"github.com/pdihub/pdihub/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeConflict        = "conflict"
	ErrCodeValidationError = "validation_error"
	ErrCodePrecondition    = "precondition_failed"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondStepError reports a full-form validation failure with the failing step.
func respondStepError(c *gin.Context, stepErr *models.StepError) {
	metrics.ErrorsTotal.WithLabelValues(ErrCodeValidationError).Inc()
	httputil.RespondStepError(c, http.StatusUnprocessableEntity, ErrCodeValidationError, stepErr.Message, stepErr.Step)
}

// respondServiceError maps the shared service error sentinels to HTTP
// responses. Unrecognized errors, store errors included, are logged and
// surfaced verbatim in the 500 body: administrators diagnose from the
// literal message, so it is never rewritten.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, operation string) {
	var stepErr *models.StepError
	if errors.As(err, &stepErr) {
		respondStepError(c, stepErr)

		return
	}

	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
	case errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, models.ErrInspectionNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "inspection not found")
	case errors.Is(err, models.ErrUserNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "record already exists")
	case errors.Is(err, models.ErrMissingInspectionID):
		respondError(c, http.StatusPreconditionFailed, ErrCodePrecondition, err.Error())
	case errors.Is(err, models.ErrUnknownSection):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(operation)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
