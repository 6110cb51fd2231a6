package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sms-relay/internal/errors"
)

func TestParseDeliveryState(t *testing.T) {
	tests := []struct {
		state    DeliveryState
		expected SendResult
	}{
		{DeliveryStateUnknown, SendResultFailed},
		{DeliveryStateDelivrd, SendResultDelivered},
		{DeliveryStateExpired, SendResultFailedExpired},
		{DeliveryStateDeleted, SendResultFailedDeleted},
		{DeliveryStateUndeliv, SendResultFailedUndelivered},
		{DeliveryStateRejectd, SendResultFailedRejected},
		{DeliveryStateFailed, SendResultFailed},
		{DeliveryStateNull, SendResultFailed},
		{DeliveryStateBarred, SendResultFailedBarredReceiver},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			result, err := ParseDeliveryState(tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.True(t, result.IsValid())
		})
	}
}

func TestParseDeliveryState_Unsupported(t *testing.T) {
	for _, state := range []DeliveryState{DeliveryStateBarredA, DeliveryStateZeroBal, DeliveryState(11), DeliveryState(-1)} {
		t.Run(state.String(), func(t *testing.T) {
			result, err := ParseDeliveryState(state)
			assert.Empty(t, result)
			require.Error(t, err)

			var unsupported *UnsupportedStateError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, state, unsupported.State)
			assert.True(t, errors.Is(err, ErrUnsupportedDeliveryState))
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestParseDeliveryStateName(t *testing.T) {
	t.Run("Success_AllVendorNames", func(t *testing.T) {
		for i, name := range deliveryStateNames {
			state, err := ParseDeliveryStateName(name)
			require.NoError(t, err)
			assert.Equal(t, DeliveryState(i), state)
		}
	})

	t.Run("Success_CaseInsensitiveAndTrimmed", func(t *testing.T) {
		state, err := ParseDeliveryStateName("  delivrd ")
		require.NoError(t, err)
		assert.Equal(t, DeliveryStateDelivrd, state)
	})

	t.Run("Error_UnknownName", func(t *testing.T) {
		_, err := ParseDeliveryStateName("BOUNCED")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedDeliveryState))
		assert.Contains(t, err.Error(), "BOUNCED")
	})
}

func TestDeliveryState_String(t *testing.T) {
	assert.Equal(t, "DELIVRD", DeliveryStateDelivrd.String())
	assert.Equal(t, "ZEROBAL", DeliveryStateZeroBal.String())
	assert.Equal(t, "DeliveryState(42)", DeliveryState(42).String())
}

func TestDeliveryReport_IsDelivered(t *testing.T) {
	assert.True(t, (&DeliveryReport{State: DeliveryStateDelivrd}).IsDelivered())
	assert.False(t, (&DeliveryReport{State: DeliveryStateFailed}).IsDelivered())
}

func TestSendResult_IsValid(t *testing.T) {
	assert.True(t, SendResultFailedInvalidRecipient.IsValid())
	assert.False(t, SendResult("Bounced").IsValid())
	assert.False(t, SendResult("").IsValid())
}
