package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SendOperationResult is the status event published on the status topic.
// Zero-valued fields are omitted from the payload; a delivery report for an
// unknown reference carries no notification id.
type SendOperationResult struct {
	NotificationID   uuid.UUID  `json:"notificationId,omitzero"`
	GatewayReference string     `json:"gatewayReference,omitempty"`
	SendResult       SendResult `json:"sendResult,omitempty"`
}

// Serialize encodes the status event as camelCase JSON.
func (r *SendOperationResult) Serialize() ([]byte, error) {
	return json.Marshal(r)
}

// ParseSendOperationResult decodes a status event payload.
func ParseSendOperationResult(data []byte) (*SendOperationResult, error) {
	var result SendOperationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
