package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware maps domain errors onto HTTP statuses after the
// handler chain runs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

// AbortWithError records an error for the middleware to map.
func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_transition",
			Message: transition.Error(),
			From:    string(transition.From),
			To:      string(transition.To),
		}
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFound.Error(),
		}
	}

	var delivery *domain.DeliveryError
	if errors.As(err, &delivery) {
		return http.StatusBadGateway, errorPayload{
			Type:    "delivery_failed",
			Message: delivery.Error(),
			Reason:  delivery.Reason,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, domain.ErrNoLineItems),
		errors.Is(err, domain.ErrNegativeUnitPrice),
		errors.Is(err, domain.ErrNonPositiveQuantity),
		errors.Is(err, domain.ErrNegativeTaxRate),
		errors.Is(err, domain.ErrMissingRecipient),
		errors.Is(err, domain.ErrUnsupportedTemplate),
		errors.Is(err, domain.ErrInvalidRequest):
		return true
	default:
		return false
	}
}
