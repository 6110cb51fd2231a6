package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/sms-relay/internal/sms/domain"
	"github.com/allisson/sms-relay/internal/sms/usecase"
)

// EnqueueInput holds the fields of a send request given on the command line.
type EnqueueInput struct {
	NotificationID string
	Sender         string
	Recipient      string
	Message        string
}

// RunEnqueue publishes one send request to topic, the same payload upstream
// services put on the send queue. Useful for smoke testing a deployment.
func RunEnqueue(
	ctx context.Context,
	producer usecase.Producer,
	logger *slog.Logger,
	out io.Writer,
	topic string,
	input EnqueueInput,
	format string,
) error {
	id := uuid.New()
	if input.NotificationID != "" {
		parsed, err := uuid.Parse(input.NotificationID)
		if err != nil || parsed == uuid.Nil {
			return fmt.Errorf("invalid notification id: %q", input.NotificationID)
		}
		id = parsed
	}

	sms := &domain.Sms{
		NotificationID: id,
		Sender:         input.Sender,
		Recipient:      input.Recipient,
		Message:        input.Message,
	}
	payload, err := sms.Serialize()
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	if !producer.Produce(ctx, topic, payload) {
		return fmt.Errorf("send request was not acknowledged by the broker")
	}

	logger.Info("send request enqueued",
		slog.String("topic", topic),
		slog.String("notification_id", id.String()),
	)

	if format == "json" {
		return writeJSON(out, map[string]any{
			"topic":           topic,
			"notification_id": id.String(),
		})
	}

	_, err = fmt.Fprintf(out, "Enqueued notification %s on %s\n", id, topic)
	return err
}
