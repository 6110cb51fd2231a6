// Package service provides the SMS gateway adapter and its PSWin XML transport.
package service

import (
	"context"
	"time"
)

// GatewayMessage is one message in the vendor's terms.
type GatewayMessage struct {
	Sender     string
	Recipient  string
	Text       string
	TimeToLive time.Duration
}

// MessageResult is the vendor's synchronous verdict for one message.
type MessageResult struct {
	StatusOK         bool
	StatusText       string
	GatewayReference string
}

// GatewayClient sends one message to the vendor. An error means no verdict was
// received (transport failure, timeout, malformed response).
type GatewayClient interface {
	Send(ctx context.Context, message *GatewayMessage) (*MessageResult, error)
}
