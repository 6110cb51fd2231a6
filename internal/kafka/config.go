// Package kafka provides the broker clients used by the relay: an acknowledged
// producer, a manually committed single-record consumer loop and topic provisioning.
package kafka

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

const (
	defaultProducerRetries       = 3
	defaultProducerRetryBackoff  = time.Second
	defaultProduceRequestTimeout = 10 * time.Second
)

// Config holds the connection settings shared by all clients.
type Config struct {
	Brokers              []string
	SASLUsername         string
	SASLPassword         string
	ProducerRetries      int
	ProducerRetryBackoff time.Duration
}

// GroupID namespaces a consumer group per consumer type.
func GroupID(base, consumerName string) string {
	return fmt.Sprintf("%s-%s", base, consumerName)
}

func (c Config) baseOpts() []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.ClientID("sms-relay"),
	}
	if c.SASLUsername != "" {
		opts = append(opts,
			kgo.SASL(plain.Auth{User: c.SASLUsername, Pass: c.SASLPassword}.AsMechanism()),
			kgo.DialTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		)
	}
	return opts
}

func (c Config) producerRetries() int {
	if c.ProducerRetries <= 0 {
		return defaultProducerRetries
	}
	return c.ProducerRetries
}

func (c Config) producerRetryBackoff() time.Duration {
	if c.ProducerRetryBackoff <= 0 {
		return defaultProducerRetryBackoff
	}
	return c.ProducerRetryBackoff
}

// recordDeliveryTimeout bounds ProduceSync to every attempt plus the backoff
// between them. RecordRetries alone does not stop franz-go from retrying
// retriable errors while brokers are unreachable.
func (c Config) recordDeliveryTimeout() time.Duration {
	retries := c.producerRetries()
	return time.Duration(retries+1)*defaultProduceRequestTimeout +
		time.Duration(retries)*c.producerRetryBackoff()
}

// ProducerOpts returns the options for an acknowledged, idempotent producer.
// Idempotent writes are the franz-go default and require acks from all ISRs.
func (c Config) ProducerOpts() []kgo.Opt {
	backoff := c.producerRetryBackoff()

	return append(c.baseOpts(),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordRetries(c.producerRetries()),
		kgo.RetryBackoffFn(func(int) time.Duration { return backoff }),
		kgo.ProduceRequestTimeout(defaultProduceRequestTimeout),
		kgo.RecordDeliveryTimeout(c.recordDeliveryTimeout()),
	)
}

// ConsumerOpts returns the options for a manually committed group consumer.
func (c Config) ConsumerOpts(groupID, topic string) []kgo.Opt {
	return append(c.baseOpts(),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
}

// NewProducerClient connects a producer client.
func NewProducerClient(cfg Config) (*kgo.Client, error) {
	return kgo.NewClient(cfg.ProducerOpts()...)
}

// NewConsumerClient connects a consumer client for one topic.
func NewConsumerClient(cfg Config, groupID, topic string) (*kgo.Client, error) {
	return kgo.NewClient(cfg.ConsumerOpts(groupID, topic)...)
}

// NewAdminClient connects an admin client.
func NewAdminClient(cfg Config) (*kadm.Client, error) {
	client, err := kgo.NewClient(cfg.baseOpts()...)
	if err != nil {
		return nil, err
	}
	return kadm.NewClient(client), nil
}
