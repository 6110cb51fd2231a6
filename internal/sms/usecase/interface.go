// Package usecase implements SMS dispatch orchestration and delivery status relaying.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

// Gateway sends one message and classifies the gateway response.
type Gateway interface {
	Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) domain.SendOutcome
}

// Producer publishes a payload and reports whether the broker acknowledged it.
type Producer interface {
	Produce(ctx context.Context, topic string, payload []byte) bool
}

// ReferenceRepository maps gateway references to notification ids.
type ReferenceRepository interface {
	Save(ctx context.Context, ref *domain.GatewayReference) error
	Get(ctx context.Context, reference string) (*domain.GatewayReference, error)
}

// ReferencePurger deletes references created before olderThan. Only the SQL stores
// implement it; the memory and redis stores expire entries on their own.
type ReferencePurger interface {
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// SendingUseCase dispatches messages to the gateway.
type SendingUseCase interface {
	// Send dispatches sms and publishes the resulting status event. It returns an
	// error when the event was not acknowledged or the gateway could not be
	// reached; in both cases the request should be retried.
	Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) error

	// SendOneTimePassword dispatches a message synchronously and returns the
	// gateway reference to the caller. No status event is published.
	SendOneTimePassword(
		ctx context.Context,
		payload *domain.OneTimePasswordPayload,
	) (*domain.OneTimePasswordOutcome, error)
}

// StatusUseCase relays delivery reports onto the status topic.
type StatusUseCase interface {
	// UpdateStatus maps the report's delivery state and publishes a status event.
	// Unsupported states fail without publishing.
	UpdateStatus(ctx context.Context, report *domain.DeliveryReport) error
}
