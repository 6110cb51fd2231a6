// Package consumer wires the send-request topic to the sending use case.
package consumer

import (
	"context"
	"log/slog"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/kafka"
	"github.com/allisson/sms-relay/internal/sms/domain"
	"github.com/allisson/sms-relay/internal/sms/usecase"
)

// ConsumerName is appended to the consumer group base id.
const ConsumerName = "sendsmsqueueconsumer"

// Runner drives the poll/commit loop for one topic.
type Runner interface {
	Run(ctx context.Context, process, retry kafka.Handler) error
}

// SendSmsQueueConsumer dispatches send requests and forwards failed ones to the
// retry topic.
type SendSmsQueueConsumer struct {
	runner     Runner
	sending    usecase.SendingUseCase
	producer   usecase.Producer
	retryTopic string
	logger     *slog.Logger
}

// NewSendSmsQueueConsumer creates a SendSmsQueueConsumer.
func NewSendSmsQueueConsumer(
	runner Runner,
	sending usecase.SendingUseCase,
	producer usecase.Producer,
	retryTopic string,
	logger *slog.Logger,
) *SendSmsQueueConsumer {
	return &SendSmsQueueConsumer{
		runner:     runner,
		sending:    sending,
		producer:   producer,
		retryTopic: retryTopic,
		logger:     logger,
	}
}

// Run consumes until ctx is cancelled or the client is closed.
func (c *SendSmsQueueConsumer) Run(ctx context.Context) error {
	c.logger.Info("starting consumer", slog.String("consumer", ConsumerName))
	err := c.runner.Run(ctx, c.process, c.retry)
	c.logger.Info("consumer stopped", slog.String("consumer", ConsumerName))
	return err
}

// process drops undecodable messages; retrying them cannot succeed.
func (c *SendSmsQueueConsumer) process(ctx context.Context, value []byte) error {
	sms, err := domain.ParseSms(value)
	if err != nil {
		c.logger.Error("discarding malformed send request",
			slog.Int("size", len(value)),
			slog.Any("error", err),
		)
		return nil
	}
	return c.sending.Send(ctx, sms, domain.DefaultTimeToLive)
}

func (c *SendSmsQueueConsumer) retry(ctx context.Context, value []byte) error {
	if !c.producer.Produce(ctx, c.retryTopic, value) {
		return errors.Wrap(domain.ErrPublishFailed, "failed to forward to "+c.retryTopic)
	}
	return nil
}
