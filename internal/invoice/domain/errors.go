package domain

import (
	"errors"
	"fmt"
)

// Validation errors: bad input shape or value, mapped to a bad-request class.
var (
	ErrNoLineItems         = errors.New("line_items_required")
	ErrNegativeUnitPrice   = errors.New("negative_unit_price")
	ErrNonPositiveQuantity = errors.New("non_positive_quantity")
	ErrNegativeTaxRate     = errors.New("negative_tax_rate")
	ErrMissingRecipient    = errors.New("missing_recipient")
	ErrUnsupportedTemplate = errors.New("unsupported_template")
	ErrInvalidRequest      = errors.New("invalid_request")
)

// InvalidTransitionError reports an illegal lifecycle move.
type InvalidTransitionError struct {
	From StatusCode
	To   StatusCode
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// NotFoundError reports an absent referenced resource.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// NewNotFound builds a NotFoundError for a resource and lookup key.
func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// DeliveryError reports a failed email dispatch after the attempt was logged.
// Document-generation and transport failures both surface through it.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	return "failed to send invoice email: " + e.Reason
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
