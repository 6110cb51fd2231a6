package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sms-relay/internal/errors"
)

const (
	// DefaultTimeToLive is used when a send request carries no time-to-live.
	DefaultTimeToLive = 48 * time.Hour

	// MaxTimeToLiveSeconds is the largest time-to-live accepted from callers.
	MaxTimeToLiveSeconds = 172800
)

// Sms is a request to send one text message. The notification id identifies the
// message end-to-end and is never the zero UUID for a parsed request.
type Sms struct {
	NotificationID uuid.UUID `json:"notificationId"`
	Sender         string    `json:"sender"`
	Recipient      string    `json:"recipient"`
	Message        string    `json:"message"`
}

// ParseSms decodes a send request from its JSON payload. Property names are
// matched case-insensitively.
func ParseSms(data []byte) (*Sms, error) {
	var sms Sms
	if err := json.Unmarshal(data, &sms); err != nil {
		return nil, errors.Wrap(ErrInvalidSms, err.Error())
	}
	if sms.NotificationID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidSms, "missing notification id")
	}
	return &sms, nil
}

// Serialize encodes the send request as queue JSON.
func (s *Sms) Serialize() ([]byte, error) {
	return json.Marshal(s)
}

// TimeToLiveFromSeconds converts a caller supplied time-to-live. Non-positive
// values fall back to DefaultTimeToLive.
func TimeToLiveFromSeconds(seconds int) time.Duration {
	if seconds <= 0 {
		return DefaultTimeToLive
	}
	return time.Duration(seconds) * time.Second
}
