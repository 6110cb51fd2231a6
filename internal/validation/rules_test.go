package validation

import (
	"errors"
	"strings"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/sms-relay/internal/errors"
)

func TestRecipient(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "international", value: "+4799999999"},
		{name: "national", value: "99999999"},
		{name: "too short", value: "12", shouldErr: true},
		{name: "letters", value: "+47abc", shouldErr: true},
		{name: "too long", value: "+1234567890123456", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, Recipient)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSender(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "alphanumeric", value: "Altinn"},
		{name: "numeric", value: "4799999999"},
		{name: "eleven characters", value: "ABCDEFGHIJK"},
		{name: "alphanumeric too long", value: "ABCDEFGHIJKL", shouldErr: true},
		{name: "invalid characters", value: "Alt!nn", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, Sender)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUUID(t *testing.T) {
	assert.NoError(t, validation.Validate("0195f9f4-8d3c-7a51-9b1e-3c7f4f1e2a10", UUID))
	assert.Error(t, validation.Validate("00000000-0000-0000-0000-000000000000", UUID))
	assert.Error(t, validation.Validate("not-a-uuid", UUID))
}

func TestMessageLength(t *testing.T) {
	assert.NoError(t, validation.Validate("hi", MessageLength))
	assert.NoError(t, validation.Validate(strings.Repeat("æ", 1530), MessageLength))
	assert.Error(t, validation.Validate(strings.Repeat("a", 1531), MessageLength))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("hello", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("hello", NoWhitespace))
	assert.Error(t, validation.Validate(" hello", NoWhitespace))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("recipient: must be a phone number"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "recipient: must be a phone number")
}
