package app

import (
	"fmt"

	"github.com/allisson/sms-relay/internal/kafka"
	smsConsumer "github.com/allisson/sms-relay/internal/sms/consumer"
)

// KafkaConfig returns the connection settings shared by every broker client.
func (c *Container) KafkaConfig() kafka.Config {
	return kafka.Config{
		Brokers:              c.config.Brokers(),
		SASLUsername:         c.config.KafkaSASLUsername,
		SASLPassword:         c.config.KafkaSASLPassword,
		ProducerRetries:      c.config.KafkaProducerRetries,
		ProducerRetryBackoff: c.config.KafkaProducerRetryBackoff,
	}
}

// Producer returns the acknowledged producer shared by the consumer and the HTTP handlers.
func (c *Container) Producer() (*kafka.Producer, error) {
	var err error
	c.producerInit.Do(func() {
		c.producerClient, err = kafka.NewProducerClient(c.KafkaConfig())
		if err != nil {
			err = fmt.Errorf("failed to create kafka producer client: %w", err)
			c.initErrors["producer"] = err
			return
		}
		c.producer = kafka.NewProducer(c.producerClient, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["producer"]; exists {
		return nil, storedErr
	}
	return c.producer, nil
}

// KafkaAdmin returns the topic provisioner.
func (c *Container) KafkaAdmin() (*kafka.Admin, error) {
	var err error
	c.adminInit.Do(func() {
		c.admin, err = c.initKafkaAdmin()
		if err != nil {
			c.initErrors["admin"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["admin"]; exists {
		return nil, storedErr
	}
	return c.admin, nil
}

// SendSmsQueueConsumer returns the consumer of the send queue topic.
func (c *Container) SendSmsQueueConsumer() (*smsConsumer.SendSmsQueueConsumer, error) {
	var err error
	c.sendSmsQueueConsumerInit.Do(func() {
		c.sendSmsQueueConsumer, err = c.initSendSmsQueueConsumer()
		if err != nil {
			c.initErrors["sendSmsQueueConsumer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sendSmsQueueConsumer"]; exists {
		return nil, storedErr
	}
	return c.sendSmsQueueConsumer, nil
}

func (c *Container) initKafkaAdmin() (*kafka.Admin, error) {
	client, err := kafka.NewAdminClient(c.KafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka admin client: %w", err)
	}

	spec := kafka.TopicSpec{
		Partitions:        int32(c.config.KafkaTopicPartitions),
		ReplicationFactor: int16(c.config.KafkaTopicReplicationFactor),
		Retention:         c.config.KafkaTopicRetention,
	}
	return kafka.NewAdmin(client, spec, c.Logger()), nil
}

func (c *Container) initSendSmsQueueConsumer() (*smsConsumer.SendSmsQueueConsumer, error) {
	sendingUseCase, err := c.SendingUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sending use case for consumer: %w", err)
	}

	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get producer for consumer: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for consumer: %w", err)
	}

	topic := c.config.KafkaSendSmsQueueTopic
	groupID := kafka.GroupID(c.config.KafkaConsumerGroupID, smsConsumer.ConsumerName)

	client, err := kafka.NewConsumerClient(c.KafkaConfig(), groupID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer client: %w", err)
	}
	c.consumerClient = client

	runner := kafka.NewConsumer(client, topic, groupID, c.Logger(), bm)
	return smsConsumer.NewSendSmsQueueConsumer(
		runner,
		sendingUseCase,
		producer,
		c.config.KafkaSendSmsQueueRetryTopic,
		c.Logger(),
	), nil
}
