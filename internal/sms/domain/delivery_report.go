package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryReport is one asynchronous delivery report sent by the gateway.
type DeliveryReport struct {
	ID           string
	Reference    string
	Receiver     string
	State        DeliveryState
	DeliveryTime string
}

// IsDelivered reports whether the message reached the handset.
func (r *DeliveryReport) IsDelivered() bool {
	return r.State == DeliveryStateDelivrd
}

// GatewayReference links a gateway reference to the notification it was issued for.
type GatewayReference struct {
	Reference      string
	NotificationID uuid.UUID
	CreatedAt      time.Time
}
