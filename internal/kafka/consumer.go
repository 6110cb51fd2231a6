package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/metrics"
)

// Handler processes the raw value of one record.
type Handler func(ctx context.Context, value []byte) error

// ConsumerClient is the subset of *kgo.Client used by Consumer.
type ConsumerClient interface {
	PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	AllowRebalance()
	Close()
}

// Consumer polls one record at a time and commits it after it was processed or
// forwarded for retry.
type Consumer struct {
	client  ConsumerClient
	topic   string
	groupID string
	logger  *slog.Logger
	metrics metrics.BusinessMetrics
}

// NewConsumer creates a Consumer on top of an already connected client. A nil
// businessMetrics records nothing.
func NewConsumer(
	client ConsumerClient,
	topic, groupID string,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *Consumer {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &Consumer{
		client:  client,
		topic:   topic,
		groupID: groupID,
		logger:  logger,
		metrics: businessMetrics,
	}
}

// Run polls until ctx is cancelled or the client is closed. A record whose
// process call fails is handed to retry before its offset is committed. Every
// record is committed, including one whose forward failed. The iteration in
// flight when ctx is cancelled runs to completion.
func (c *Consumer) Run(ctx context.Context, process, retry Handler) error {
	c.logger.Info("starting consumer",
		slog.String("topic", c.topic),
		slog.String("group_id", c.groupID),
	)

	for {
		if ctx.Err() != nil {
			c.logger.Info("stopping consumer", slog.String("topic", c.topic))
			return nil
		}

		fetches := c.client.PollRecords(ctx, 1)
		if fetches.IsClientClosed() {
			c.logger.Info("consumer client closed", slog.String("topic", c.topic))
			return nil
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.logger.Error("failed to poll records",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.Any("error", err),
			)
		})

		// Processing and commit must not observe shutdown.
		iterCtx := context.WithoutCancel(ctx)
		for _, record := range fetches.Records() {
			c.handle(iterCtx, record, process, retry)
		}
		c.client.AllowRebalance()
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record, process, retry Handler) {
	if err := process(ctx, record.Value); err != nil {
		c.logger.Error("failed to process record, forwarding to retry",
			slog.String("topic", record.Topic),
			slog.Int("partition", int(record.Partition)),
			slog.Int64("offset", record.Offset),
			slog.Any("error", err),
		)
		if err := retry(ctx, record.Value); err != nil {
			// The producer already spent its retry budget, so the record is lost
			// from the retry path. It is still committed to keep the group moving.
			c.logger.Error("failed to forward record to retry topic",
				slog.String("topic", record.Topic),
				slog.Int("partition", int(record.Partition)),
				slog.Int64("offset", record.Offset),
				slog.Any("error", err),
			)
			c.metrics.RecordOperation(ctx, "kafka", "retry_forward", "error")
		} else {
			c.metrics.RecordOperation(ctx, "kafka", "retry_forward", "success")
		}
	}

	if err := c.client.CommitRecords(ctx, record); err != nil {
		c.logger.Error("failed to commit record",
			slog.String("topic", record.Topic),
			slog.Int("partition", int(record.Partition)),
			slog.Int64("offset", record.Offset),
			slog.Any("error", err),
		)
	}
}

// Close leaves the group and closes the client.
func (c *Consumer) Close() {
	c.client.Close()
}
