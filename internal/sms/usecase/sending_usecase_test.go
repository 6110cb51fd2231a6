package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sms-relay/internal/sms/domain"
	"github.com/allisson/sms-relay/internal/sms/usecase"
	"github.com/allisson/sms-relay/internal/sms/usecase/mocks"
)

const statusTopic = "sms-status-updated"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSms() *domain.Sms {
	return &domain.Sms{
		NotificationID: uuid.New(),
		Sender:         "Altinn",
		Recipient:      "+4799999999",
		Message:        "hi",
	}
}

// capturePayload records the payload handed to Produce.
func capturePayload(producer *mocks.MockProducer, ack bool) *[]byte {
	var captured []byte
	producer.On("Produce", mock.Anything, statusTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]byte)
		}).
		Return(ack).
		Once()
	return &captured
}

func TestSendingUseCase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AcceptedPublishesReference", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		references := &mocks.MockReferenceRepository{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, domain.DefaultTimeToLive).Return(domain.AcceptedOutcome("REF-123")).Once()
		references.On("Save", mock.Anything, mock.MatchedBy(func(ref *domain.GatewayReference) bool {
			return ref.Reference == "REF-123" && ref.NotificationID == sms.NotificationID
		})).Return(nil).Once()
		payload := capturePayload(producer, true)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, references, newTestLogger(), nil)
		require.NoError(t, uc.Send(ctx, sms, domain.DefaultTimeToLive))

		assert.JSONEq(t,
			`{"notificationId":"`+sms.NotificationID.String()+`","gatewayReference":"REF-123","sendResult":"Accepted"}`,
			string(*payload),
		)
		gateway.AssertExpectations(t)
		producer.AssertExpectations(t)
		references.AssertExpectations(t)
	})

	t.Run("Success_InvalidRecipientPublishesWithoutReference", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		references := &mocks.MockReferenceRepository{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, domain.DefaultTimeToLive).
			Return(domain.FailedOutcome(domain.SendResultFailedInvalidRecipient, "Invalid RCV +4799999999")).
			Once()
		payload := capturePayload(producer, true)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, references, newTestLogger(), nil)
		require.NoError(t, uc.Send(ctx, sms, domain.DefaultTimeToLive))

		event, err := domain.ParseSendOperationResult(*payload)
		require.NoError(t, err)
		assert.Equal(t, sms.NotificationID, event.NotificationID)
		assert.Equal(t, domain.SendResultFailedInvalidRecipient, event.SendResult)
		assert.Empty(t, event.GatewayReference)
		assert.NotContains(t, string(*payload), "gatewayReference")
		references.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Success_ReferenceSaveFailureDoesNotBlockPublish", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		references := &mocks.MockReferenceRepository{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, time.Hour).Return(domain.AcceptedOutcome("REF-1")).Once()
		references.On("Save", mock.Anything, mock.Anything).Return(domain.ErrReferenceConflict).Once()
		capturePayload(producer, true)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, references, newTestLogger(), nil)
		assert.NoError(t, uc.Send(ctx, sms, time.Hour))
		producer.AssertExpectations(t)
	})

	t.Run("Success_NilReferenceRepository", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, time.Hour).Return(domain.AcceptedOutcome("REF-1")).Once()
		capturePayload(producer, true)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, nil, newTestLogger(), nil)
		assert.NoError(t, uc.Send(ctx, sms, time.Hour))
	})

	t.Run("Error_PublishNotAcknowledged", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, time.Hour).Return(domain.AcceptedOutcome("REF-1")).Once()
		capturePayload(producer, false)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, nil, newTestLogger(), nil)
		err := uc.Send(ctx, sms, time.Hour)
		assert.ErrorIs(t, err, domain.ErrPublishFailed)
	})

	t.Run("Success_CancelDuringGatewayCallStillPublishes", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		references := &mocks.MockReferenceRepository{}
		sms := newTestSms()

		cancelCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gateway.On("Send", cancelCtx, sms, time.Hour).
			Run(func(args mock.Arguments) { cancel() }).
			Return(domain.AcceptedOutcome("REF-123")).
			Once()
		liveCtx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
		references.On("Save", liveCtx, mock.Anything).Return(nil).Once()
		var payload []byte
		producer.On("Produce", liveCtx, statusTopic, mock.Anything).
			Run(func(args mock.Arguments) { payload = args.Get(2).([]byte) }).
			Return(true).
			Once()

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, references, newTestLogger(), nil)
		require.NoError(t, uc.Send(cancelCtx, sms, time.Hour))

		require.Error(t, cancelCtx.Err())
		event, err := domain.ParseSendOperationResult(payload)
		require.NoError(t, err)
		assert.Equal(t, domain.SendResultAccepted, event.SendResult)
		assert.Equal(t, "REF-123", event.GatewayReference)
		producer.AssertExpectations(t)
		references.AssertExpectations(t)
	})

	t.Run("Error_TransportFailurePublishesThenFails", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		sms := newTestSms()

		gateway.On("Send", ctx, sms, time.Hour).
			Return(domain.TransportFailedOutcome(errors.New("connection refused"))).
			Once()
		payload := capturePayload(producer, true)

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, nil, newTestLogger(), nil)
		err := uc.Send(ctx, sms, time.Hour)
		assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
		assert.Contains(t, err.Error(), "connection refused")

		event, perr := domain.ParseSendOperationResult(*payload)
		require.NoError(t, perr)
		assert.Equal(t, domain.SendResultFailed, event.SendResult)
	})
}

func TestSendingUseCase_SendOneTimePassword(t *testing.T) {
	ctx := context.Background()
	payload := &domain.OneTimePasswordPayload{
		NotificationID: uuid.New(),
		Sender:         "Altinn",
		Recipient:      "+4799999999",
		Message:        "123456",
	}

	t.Run("Success_Accepted", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		references := &mocks.MockReferenceRepository{}

		gateway.On("Send", ctx, payload.Sms(), domain.DefaultTimeToLive).
			Return(domain.AcceptedOutcome("REF-OTP")).
			Once()
		references.On("Save", ctx, mock.Anything).Return(nil).Once()

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, references, newTestLogger(), nil)
		outcome, err := uc.SendOneTimePassword(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, payload.NotificationID, outcome.NotificationID)
		assert.Equal(t, "REF-OTP", outcome.GatewayReference)
		assert.True(t, outcome.Accepted())
		producer.AssertNotCalled(t, "Produce", mock.Anything, mock.Anything, mock.Anything)
		references.AssertExpectations(t)
	})

	t.Run("Success_RejectedHasNoReference", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}

		gateway.On("Send", ctx, payload.Sms(), domain.DefaultTimeToLive).
			Return(domain.FailedOutcome(domain.SendResultFailed, "rejected")).
			Once()

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, nil, newTestLogger(), nil)
		outcome, err := uc.SendOneTimePassword(ctx, payload)
		require.NoError(t, err)
		assert.False(t, outcome.Accepted())
		assert.Empty(t, outcome.GatewayReference)
	})

	t.Run("Error_ContextCanceled", func(t *testing.T) {
		gateway := &mocks.MockGateway{}
		producer := &mocks.MockProducer{}
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		gateway.On("Send", cancelCtx, payload.Sms(), domain.DefaultTimeToLive).
			Return(domain.TransportFailedOutcome(context.Canceled)).
			Once()

		uc := usecase.NewSendingUseCase(gateway, producer, statusTopic, nil, newTestLogger(), nil)
		outcome, err := uc.SendOneTimePassword(cancelCtx, payload)
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
