package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/allisson/sms-relay/internal/errors"
)

const (
	pswinStatusOK = "OK"

	maxResponseBytes = 1 << 20
)

// PSWinConfig holds the gateway account and endpoint.
type PSWinConfig struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
}

// PSWinClient sends messages using the PSWin XML session protocol. It is safe
// for concurrent use.
type PSWinClient struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// NewPSWinClient creates a client with its own HTTP client bounded by cfg.Timeout.
func NewPSWinClient(cfg PSWinConfig) *PSWinClient {
	return &PSWinClient{
		endpoint:   cfg.Endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type pswinSession struct {
	XMLName  xml.Name       `xml:"SESSION"`
	Client   string         `xml:"CLIENT"`
	Password string         `xml:"PW"`
	Messages []pswinMessage `xml:"MSGLST>MSG"`
}

type pswinMessage struct {
	ID       int    `xml:"ID"`
	Text     string `xml:"TEXT"`
	Sender   string `xml:"SND"`
	Receiver string `xml:"RCV"`
	TTL      int    `xml:"TTL,omitempty"`
}

type pswinSessionResponse struct {
	XMLName  xml.Name             `xml:"SESSION"`
	Logon    string               `xml:"LOGON"`
	Reason   string               `xml:"REASON"`
	Messages []pswinMessageResult `xml:"MSGLST>MSG"`
}

type pswinMessageResult struct {
	ID        int    `xml:"ID"`
	Reference string `xml:"REF"`
	Status    string `xml:"STATUS"`
	Info      string `xml:"INFO"`
}

// Send posts one message and returns the gateway verdict.
func (c *PSWinClient) Send(ctx context.Context, message *GatewayMessage) (*MessageResult, error) {
	body, err := c.encode(message)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gateway request")
	}
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "gateway request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway responded with status %d", resp.StatusCode)
	}

	var session pswinSessionResponse
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&session); err != nil {
		return nil, errors.Wrap(err, "failed to decode gateway response")
	}

	if session.Logon != pswinStatusOK {
		return &MessageResult{StatusText: session.Reason}, nil
	}
	if len(session.Messages) == 0 {
		return nil, errors.New("gateway response has no message result")
	}

	result := session.Messages[0]
	if result.Status != pswinStatusOK {
		return &MessageResult{StatusText: result.Info}, nil
	}
	return &MessageResult{StatusOK: true, GatewayReference: result.Reference}, nil
}

func (c *PSWinClient) encode(message *GatewayMessage) ([]byte, error) {
	session := pswinSession{
		Client:   c.username,
		Password: c.password,
		Messages: []pswinMessage{{
			ID:       1,
			Text:     message.Text,
			Sender:   message.Sender,
			Receiver: message.Recipient,
			TTL:      ttlMinutes(message.TimeToLive),
		}},
	}

	data, err := xml.Marshal(session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode gateway request")
	}
	return append([]byte(xml.Header), data...), nil
}

// ttlMinutes rounds positive durations up to whole minutes, the gateway's unit.
func ttlMinutes(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Minute - 1) / time.Minute)
}
