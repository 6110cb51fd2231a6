package usecase

import (
	"context"
	"time"

	"github.com/allisson/sms-relay/internal/metrics"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

const metricsDomain = "sms"

// sendingUseCaseWithMetrics decorates SendingUseCase with metrics instrumentation.
type sendingUseCaseWithMetrics struct {
	next    SendingUseCase
	metrics metrics.BusinessMetrics
}

// NewSendingUseCaseWithMetrics wraps a SendingUseCase with metrics recording.
func NewSendingUseCaseWithMetrics(useCase SendingUseCase, m metrics.BusinessMetrics) SendingUseCase {
	return &sendingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *sendingUseCaseWithMetrics) Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) error {
	start := time.Now()
	err := s.next.Send(ctx, sms, ttl)
	s.record(ctx, "sms_send", start, err == nil)
	return err
}

func (s *sendingUseCaseWithMetrics) SendOneTimePassword(
	ctx context.Context,
	payload *domain.OneTimePasswordPayload,
) (*domain.OneTimePasswordOutcome, error) {
	start := time.Now()
	output, err := s.next.SendOneTimePassword(ctx, payload)
	s.record(ctx, "sms_otp_send", start, err == nil && output.Accepted())
	return output, err
}

func (s *sendingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// statusUseCaseWithMetrics decorates StatusUseCase with metrics instrumentation.
type statusUseCaseWithMetrics struct {
	next    StatusUseCase
	metrics metrics.BusinessMetrics
}

// NewStatusUseCaseWithMetrics wraps a StatusUseCase with metrics recording.
func NewStatusUseCaseWithMetrics(useCase StatusUseCase, m metrics.BusinessMetrics) StatusUseCase {
	return &statusUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *statusUseCaseWithMetrics) UpdateStatus(ctx context.Context, report *domain.DeliveryReport) error {
	start := time.Now()
	err := s.next.UpdateStatus(ctx, report)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, metricsDomain, "sms_status_update", status)
	s.metrics.RecordDuration(ctx, metricsDomain, "sms_status_update", time.Since(start), status)

	return err
}
