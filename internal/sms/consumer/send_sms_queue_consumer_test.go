package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sms-relay/internal/kafka"
	"github.com/allisson/sms-relay/internal/sms/domain"
	"github.com/allisson/sms-relay/internal/sms/usecase/mocks"
)

const retryTopic = "send-sms-queue-retry"

// fakeRunner hands each queued value to process, and to retry when process
// fails, the way kafka.Consumer does for one polled record. A failed forward
// is recorded and the loop moves on to the next value.
type fakeRunner struct {
	values    [][]byte
	retryErrs []error
}

func (f *fakeRunner) Run(ctx context.Context, process, retry kafka.Handler) error {
	for _, value := range f.values {
		if err := process(ctx, value); err != nil {
			if rerr := retry(ctx, value); rerr != nil {
				f.retryErrs = append(f.retryErrs, rerr)
			}
		}
	}
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendSmsQueueConsumer(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	message := []byte(`{"NotificationId":"` + id.String() + `","sender":"Altinn","RECIPIENT":"+4799999999","message":"hi"}`)
	expected := &domain.Sms{NotificationID: id, Sender: "Altinn", Recipient: "+4799999999", Message: "hi"}

	t.Run("Success_DispatchesDecodedRequest", func(t *testing.T) {
		sending := &mocks.MockSendingUseCase{}
		producer := &mocks.MockProducer{}
		runner := &fakeRunner{values: [][]byte{message}}

		sending.On("Send", ctx, expected, domain.DefaultTimeToLive).Return(nil).Once()

		c := NewSendSmsQueueConsumer(runner, sending, producer, retryTopic, newTestLogger())
		require.NoError(t, c.Run(ctx))

		sending.AssertExpectations(t)
		producer.AssertNotCalled(t, "Produce", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_FailedSendForwardsOriginalBytes", func(t *testing.T) {
		sending := &mocks.MockSendingUseCase{}
		producer := &mocks.MockProducer{}
		runner := &fakeRunner{values: [][]byte{message}}

		sending.On("Send", ctx, expected, domain.DefaultTimeToLive).
			Return(errors.New("network unreachable")).
			Once()
		producer.On("Produce", ctx, retryTopic, message).Return(true).Once()

		c := NewSendSmsQueueConsumer(runner, sending, producer, retryTopic, newTestLogger())
		require.NoError(t, c.Run(ctx))

		producer.AssertExpectations(t)
		producer.AssertNumberOfCalls(t, "Produce", 1)
	})

	t.Run("Success_MalformedRequestIsDropped", func(t *testing.T) {
		sending := &mocks.MockSendingUseCase{}
		producer := &mocks.MockProducer{}
		runner := &fakeRunner{values: [][]byte{[]byte("garbage")}}

		c := NewSendSmsQueueConsumer(runner, sending, producer, retryTopic, newTestLogger())
		require.NoError(t, c.Run(ctx))

		sending.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		producer.AssertNotCalled(t, "Produce", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_MissingNotificationIDIsDropped", func(t *testing.T) {
		sending := &mocks.MockSendingUseCase{}
		producer := &mocks.MockProducer{}
		runner := &fakeRunner{values: [][]byte{[]byte(`{"sender":"Altinn","recipient":"+47","message":"hi"}`)}}

		c := NewSendSmsQueueConsumer(runner, sending, producer, retryTopic, newTestLogger())
		require.NoError(t, c.Run(ctx))

		sending.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_RetryForwardNotAcknowledgedKeepsConsuming", func(t *testing.T) {
		sending := &mocks.MockSendingUseCase{}
		producer := &mocks.MockProducer{}
		runner := &fakeRunner{values: [][]byte{message, message}}

		sending.On("Send", ctx, expected, domain.DefaultTimeToLive).Return(domain.ErrPublishFailed).Twice()
		producer.On("Produce", ctx, retryTopic, message).Return(false).Twice()

		c := NewSendSmsQueueConsumer(runner, sending, producer, retryTopic, newTestLogger())
		require.NoError(t, c.Run(ctx))

		sending.AssertNumberOfCalls(t, "Send", 2)
		producer.AssertNumberOfCalls(t, "Produce", 2)
		require.Len(t, runner.retryErrs, 2)
		assert.ErrorIs(t, runner.retryErrs[0], domain.ErrPublishFailed)
		assert.Contains(t, runner.retryErrs[0].Error(), retryTopic)
	})
}

func TestConsumerName(t *testing.T) {
	assert.Equal(t, "sms-relay-sendsmsqueueconsumer", kafka.GroupID("sms-relay", ConsumerName))
}
