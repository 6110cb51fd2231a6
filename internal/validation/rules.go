// Package validation provides validation rules for sms request fields.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/sms-relay/internal/errors"
)

const maxMessageRunes = 1530

var (
	msisdnRegex      = regexp.MustCompile(`^\+?[0-9]{3,15}$`)
	numericSenderRe  = regexp.MustCompile(`^\+?[0-9]{1,15}$`)
	alphanumSenderRe = regexp.MustCompile(`^[A-Za-z0-9 ._\-]{1,11}$`)
)

// WrapValidationError wraps validation errors as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// UUID validates a non-nil uuid string.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		id, err := uuid.Parse(s)
		return err == nil && id != uuid.Nil
	},
	validation.NewError("validation_uuid", "must be a valid non-nil uuid"),
)

// Recipient validates a phone number with an optional leading plus sign.
var Recipient = validation.NewStringRuleWithError(
	func(s string) bool {
		return msisdnRegex.MatchString(s)
	},
	validation.NewError("validation_recipient", "must be a phone number"),
)

// Sender validates a numeric sender of up to 15 digits or an alphanumeric
// sender of up to 11 characters, the limits gateways apply to originators.
var Sender = validation.NewStringRuleWithError(
	func(s string) bool {
		return numericSenderRe.MatchString(s) || alphanumSenderRe.MatchString(s)
	},
	validation.NewError("validation_sender", "must be up to 15 digits or up to 11 alphanumeric characters"),
)

// MessageLength validates that a message fits in a ten part concatenated sms.
var MessageLength = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_message_type", "must be a string")
	}
	if len([]rune(s)) > maxMessageRunes {
		return validation.NewError("validation_message_length", "must be at most 1530 characters")
	}
	return nil
})

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
