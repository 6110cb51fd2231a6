package domain

import "github.com/google/uuid"

// OneTimePasswordPayload is a synchronous send request whose outcome is returned
// to the caller instead of being published.
type OneTimePasswordPayload struct {
	NotificationID uuid.UUID
	Sender         string
	Recipient      string
	Message        string
}

// Sms converts the payload into a send request.
func (p *OneTimePasswordPayload) Sms() *Sms {
	return &Sms{
		NotificationID: p.NotificationID,
		Sender:         p.Sender,
		Recipient:      p.Recipient,
		Message:        p.Message,
	}
}

// OneTimePasswordOutcome carries the gateway reference when the gateway accepted
// the message. An empty reference means it did not.
type OneTimePasswordOutcome struct {
	NotificationID   uuid.UUID
	GatewayReference string
}

// Accepted reports whether the gateway returned a reference.
func (o *OneTimePasswordOutcome) Accepted() bool {
	return o != nil && o.GatewayReference != ""
}
