package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/metrics"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

// sendingUseCase implements SendingUseCase.
type sendingUseCase struct {
	gateway    Gateway
	publisher  statusPublisher
	references ReferenceRepository
	logger     *slog.Logger
}

// NewSendingUseCase creates a SendingUseCase publishing status events to
// statusTopic. references may be nil, in which case gateway references are not
// recorded.
func NewSendingUseCase(
	gateway Gateway,
	producer Producer,
	statusTopic string,
	references ReferenceRepository,
	logger *slog.Logger,
	m metrics.BusinessMetrics,
) SendingUseCase {
	return &sendingUseCase{
		gateway:    gateway,
		publisher:  newStatusPublisher(producer, statusTopic, sourceDispatch, m),
		references: references,
		logger:     logger,
	}
}

// Send calls the gateway once, records the reference when the message was
// accepted and publishes the status event. Once the gateway has answered, the
// outcome is recorded and published even if ctx is cancelled.
func (s *sendingUseCase) Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) error {
	outcome := s.gateway.Send(ctx, sms, ttl)

	// The message may already be on its way to the handset.
	publishCtx := context.WithoutCancel(ctx)

	if outcome.Accepted() {
		s.saveReference(publishCtx, sms, outcome.GatewayReference)
	}

	event := outcome.StatusEvent(sms)
	if err := s.publisher.publish(publishCtx, event); err != nil {
		s.logger.Error("failed to publish status event",
			slog.String("notification_id", sms.NotificationID.String()),
			slog.String("send_result", event.SendResult.String()),
			slog.Any("error", err),
		)
		return err
	}

	if !outcome.Accepted() && outcome.Error.Transient() {
		return errors.Wrap(domain.ErrGatewayUnavailable, outcome.Error.ErrorMessage)
	}
	return nil
}

// SendOneTimePassword calls the gateway once and returns the reference, if any.
func (s *sendingUseCase) SendOneTimePassword(
	ctx context.Context,
	payload *domain.OneTimePasswordPayload,
) (*domain.OneTimePasswordOutcome, error) {
	sms := payload.Sms()
	outcome := s.gateway.Send(ctx, sms, domain.DefaultTimeToLive)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.OneTimePasswordOutcome{NotificationID: payload.NotificationID}
	if outcome.Accepted() {
		result.GatewayReference = outcome.GatewayReference
		s.saveReference(ctx, sms, outcome.GatewayReference)
	}
	return result, nil
}

// saveReference never fails the dispatch; a lost mapping only means the
// delivery report is published without a notification id.
func (s *sendingUseCase) saveReference(ctx context.Context, sms *domain.Sms, reference string) {
	if s.references == nil || reference == "" {
		return
	}

	err := s.references.Save(ctx, &domain.GatewayReference{
		Reference:      reference,
		NotificationID: sms.NotificationID,
		CreatedAt:      time.Now().UTC(),
	})
	if err == nil {
		return
	}

	level := slog.LevelWarn
	if errors.Is(err, domain.ErrReferenceConflict) {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "failed to save gateway reference",
		slog.String("notification_id", sms.NotificationID.String()),
		slog.String("gateway_reference", reference),
		slog.Any("error", err),
	)
}
