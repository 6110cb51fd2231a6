// Package domain defines the SMS dispatch and delivery status domain models and errors.
package domain

import (
	"fmt"

	"github.com/allisson/sms-relay/internal/errors"
)

// SMS error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for dispatch and status failures.
var (
	// ErrInvalidSms indicates a send request could not be decoded or has no notification id.
	ErrInvalidSms = errors.Wrap(errors.ErrInvalidInput, "invalid sms")

	// ErrUnsupportedDeliveryState indicates a delivery state the mapper does not handle.
	ErrUnsupportedDeliveryState = errors.Wrap(errors.ErrInvalidInput, "unsupported delivery state")

	// ErrPublishFailed indicates a status event was not acknowledged by the broker.
	ErrPublishFailed = errors.Wrap(errors.ErrUnavailable, "status event not acknowledged")

	// ErrGatewayUnavailable indicates the gateway call failed in transport and the
	// request should be attempted again.
	ErrGatewayUnavailable = errors.Wrap(errors.ErrUnavailable, "sms gateway unavailable")

	// ErrReferenceNotFound indicates the gateway reference is not registered.
	ErrReferenceNotFound = errors.Wrap(errors.ErrNotFound, "gateway reference not found")

	// ErrReferenceConflict indicates the gateway reference is already registered for
	// another notification.
	ErrReferenceConflict = errors.Wrap(errors.ErrConflict, "gateway reference already registered")
)

// UnsupportedStateError is returned when a delivery state has no send result mapping.
type UnsupportedStateError struct {
	State DeliveryState
	Name  string
}

func (e *UnsupportedStateError) Error() string {
	name := e.Name
	if name == "" {
		name = e.State.String()
	}
	return fmt.Sprintf("unhandled delivery state %q", name)
}

// Unwrap allows errors.Is(err, ErrUnsupportedDeliveryState) and errors.Is(err, errors.ErrInvalidInput).
func (e *UnsupportedStateError) Unwrap() error {
	return ErrUnsupportedDeliveryState
}
