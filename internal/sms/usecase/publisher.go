package usecase

import (
	"context"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/metrics"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

const (
	sourceDispatch       = "dispatch"
	sourceDeliveryReport = "delivery_report"
)

// statusPublisher publishes status events to the status topic and counts the
// acknowledged ones per source.
type statusPublisher struct {
	producer Producer
	topic    string
	source   string
	metrics  metrics.BusinessMetrics
}

func newStatusPublisher(
	producer Producer,
	topic, source string,
	m metrics.BusinessMetrics,
) statusPublisher {
	if m == nil {
		m = metrics.NewNoOpBusinessMetrics()
	}
	return statusPublisher{producer: producer, topic: topic, source: source, metrics: m}
}

func (p statusPublisher) publish(ctx context.Context, event *domain.SendOperationResult) error {
	payload, err := event.Serialize()
	if err != nil {
		return errors.Wrap(err, "failed to encode status event")
	}
	if !p.producer.Produce(ctx, p.topic, payload) {
		return domain.ErrPublishFailed
	}
	p.metrics.RecordStatusEvent(ctx, p.source, event.SendResult.String())
	return nil
}
