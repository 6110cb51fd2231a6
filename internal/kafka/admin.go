package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"

	"github.com/allisson/sms-relay/internal/errors"
)

// AdminClient is the subset of *kadm.Client used by Admin.
type AdminClient interface {
	ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
	CreateTopics(
		ctx context.Context,
		partitions int32,
		replicationFactor int16,
		configs map[string]*string,
		topics ...string,
	) (kadm.CreateTopicResponses, error)
	Close()
}

// TopicSpec describes how missing topics are created.
type TopicSpec struct {
	Partitions        int32
	ReplicationFactor int16
	Retention         time.Duration
}

// Admin provisions topics.
type Admin struct {
	client AdminClient
	spec   TopicSpec
	logger *slog.Logger
}

// NewAdmin creates an Admin on top of an already connected client.
func NewAdmin(client AdminClient, spec TopicSpec, logger *slog.Logger) *Admin {
	return &Admin{client: client, spec: spec, logger: logger}
}

// EnsureTopics creates the topics that do not exist yet. Existing topics are
// matched case-insensitively and left untouched.
func (a *Admin) EnsureTopics(ctx context.Context, topics []string) error {
	existing, err := a.client.ListTopics(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list topics")
	}

	var missing []string
	for _, topic := range topics {
		if !hasTopic(existing, topic) {
			missing = append(missing, topic)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var configs map[string]*string
	if a.spec.Retention > 0 {
		retention := strconv.FormatInt(a.spec.Retention.Milliseconds(), 10)
		configs = map[string]*string{"retention.ms": &retention}
	}

	responses, err := a.client.CreateTopics(ctx, a.spec.Partitions, a.spec.ReplicationFactor, configs, missing...)
	if err != nil {
		return errors.Wrap(err, "failed to create topics")
	}

	for _, topic := range missing {
		resp, ok := responses[topic]
		if ok && resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			a.logger.Error("failed to create topic", slog.String("topic", topic), slog.Any("error", resp.Err))
			return errors.Wrap(resp.Err, "failed to create topic "+topic)
		}
		a.logger.Info("topic created", slog.String("topic", topic))
	}
	return nil
}

// Close closes the underlying client.
func (a *Admin) Close() {
	a.client.Close()
}

func hasTopic(existing kadm.TopicDetails, topic string) bool {
	for name := range existing {
		if strings.EqualFold(name, topic) {
			return true
		}
	}
	return false
}
