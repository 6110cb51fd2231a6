package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/metrics"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

// statusUseCase implements StatusUseCase.
type statusUseCase struct {
	publisher  statusPublisher
	references ReferenceRepository
	logger     *slog.Logger
}

// NewStatusUseCase creates a StatusUseCase publishing to statusTopic.
// references may be nil, in which case events carry no notification id.
func NewStatusUseCase(
	producer Producer,
	statusTopic string,
	references ReferenceRepository,
	logger *slog.Logger,
	m metrics.BusinessMetrics,
) StatusUseCase {
	return &statusUseCase{
		publisher:  newStatusPublisher(producer, statusTopic, sourceDeliveryReport, m),
		references: references,
		logger:     logger,
	}
}

// UpdateStatus maps and publishes one delivery report.
func (s *statusUseCase) UpdateStatus(ctx context.Context, report *domain.DeliveryReport) error {
	result, err := domain.ParseDeliveryState(report.State)
	if err != nil {
		return err
	}

	event := &domain.SendOperationResult{
		NotificationID:   s.resolveNotificationID(ctx, report.Reference),
		GatewayReference: report.Reference,
		SendResult:       result,
	}

	if err := s.publisher.publish(ctx, event); err != nil {
		s.logger.Error("failed to publish delivery report",
			slog.String("gateway_reference", report.Reference),
			slog.String("state", report.State.String()),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (s *statusUseCase) resolveNotificationID(ctx context.Context, reference string) uuid.UUID {
	var id uuid.UUID
	if s.references == nil || reference == "" {
		return id
	}

	ref, err := s.references.Get(ctx, reference)
	switch {
	case err == nil:
		return ref.NotificationID
	case errors.Is(err, domain.ErrReferenceNotFound):
		s.logger.Debug("gateway reference not registered", slog.String("gateway_reference", reference))
	default:
		s.logger.Warn("failed to resolve gateway reference",
			slog.String("gateway_reference", reference),
			slog.Any("error", err),
		)
	}
	return id
}
