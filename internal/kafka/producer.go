package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ProducerClient is the subset of *kgo.Client used by Producer.
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Flush(ctx context.Context) error
	Close()
}

// Producer publishes payloads and waits for broker acknowledgment. It is safe
// for concurrent use.
type Producer struct {
	client ProducerClient
	logger *slog.Logger
}

// NewProducer creates a Producer on top of an already connected client.
func NewProducer(client ProducerClient, logger *slog.Logger) *Producer {
	return &Producer{client: client, logger: logger}
}

// Produce publishes payload to topic. It returns false when the record was not
// acknowledged after the client's retry budget was exhausted.
func (p *Producer) Produce(ctx context.Context, topic string, payload []byte) bool {
	record := &kgo.Record{Topic: topic, Value: payload}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.Error("record not acknowledged by broker",
			slog.String("topic", topic),
			slog.String("value", string(payload)),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close(ctx context.Context) error {
	err := p.client.Flush(ctx)
	p.client.Close()
	return err
}
