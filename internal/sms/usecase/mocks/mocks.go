// Package mocks provides mock implementations of the sms use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

// MockGateway is a mock implementation of usecase.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) domain.SendOutcome {
	args := m.Called(ctx, sms, ttl)
	return args.Get(0).(domain.SendOutcome)
}

// MockProducer is a mock implementation of usecase.Producer.
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Produce(ctx context.Context, topic string, payload []byte) bool {
	args := m.Called(ctx, topic, payload)
	return args.Bool(0)
}

// MockReferenceRepository is a mock implementation of usecase.ReferenceRepository.
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) Save(ctx context.Context, ref *domain.GatewayReference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockReferenceRepository) Get(ctx context.Context, reference string) (*domain.GatewayReference, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayReference), args.Error(1)
}

// MockSendingUseCase is a mock implementation of usecase.SendingUseCase.
type MockSendingUseCase struct {
	mock.Mock
}

func (m *MockSendingUseCase) Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) error {
	args := m.Called(ctx, sms, ttl)
	return args.Error(0)
}

func (m *MockSendingUseCase) SendOneTimePassword(
	ctx context.Context,
	payload *domain.OneTimePasswordPayload,
) (*domain.OneTimePasswordOutcome, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OneTimePasswordOutcome), args.Error(1)
}

// MockStatusUseCase is a mock implementation of usecase.StatusUseCase.
type MockStatusUseCase struct {
	mock.Mock
}

func (m *MockStatusUseCase) UpdateStatus(ctx context.Context, report *domain.DeliveryReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
