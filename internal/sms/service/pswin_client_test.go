package service

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPSWinServer(t *testing.T, status int, response string, received *pswinSession) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/xml")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if received != nil {
			assert.NoError(t, xml.Unmarshal(body, received))
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func newTestMessage() *GatewayMessage {
	return &GatewayMessage{Sender: "Altinn", Recipient: "4799999999", Text: "Hello", TimeToLive: 48 * time.Hour}
}

func TestPSWinClient_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MessageAccepted", func(t *testing.T) {
		var received pswinSession
		server := newPSWinServer(t, http.StatusOK,
			`<?xml version="1.0"?><SESSION><LOGON>OK</LOGON><REASON></REASON><MSGLST><MSG><ID>1</ID><REF>984342374</REF><STATUS>OK</STATUS></MSG></MSGLST></SESSION>`,
			&received,
		)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Username: "user", Password: "pw", Timeout: time.Second})
		result, err := client.Send(ctx, newTestMessage())

		require.NoError(t, err)
		assert.True(t, result.StatusOK)
		assert.Equal(t, "984342374", result.GatewayReference)

		assert.Equal(t, "user", received.Client)
		assert.Equal(t, "pw", received.Password)
		require.Len(t, received.Messages, 1)
		assert.Equal(t, "Altinn", received.Messages[0].Sender)
		assert.Equal(t, "4799999999", received.Messages[0].Receiver)
		assert.Equal(t, "Hello", received.Messages[0].Text)
		assert.Equal(t, 2880, received.Messages[0].TTL)
	})

	t.Run("Success_MessageRejected", func(t *testing.T) {
		server := newPSWinServer(t, http.StatusOK,
			`<SESSION><LOGON>OK</LOGON><MSGLST><MSG><ID>1</ID><STATUS>FAIL</STATUS><INFO>Invalid RCV '123'</INFO></MSG></MSGLST></SESSION>`,
			nil,
		)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: time.Second})
		result, err := client.Send(ctx, newTestMessage())

		require.NoError(t, err)
		assert.False(t, result.StatusOK)
		assert.Equal(t, "Invalid RCV '123'", result.StatusText)
	})

	t.Run("Success_LogonFailed", func(t *testing.T) {
		server := newPSWinServer(t, http.StatusOK,
			`<SESSION><LOGON>FAIL</LOGON><REASON>Invalid username or password</REASON></SESSION>`,
			nil,
		)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: time.Second})
		result, err := client.Send(ctx, newTestMessage())

		require.NoError(t, err)
		assert.False(t, result.StatusOK)
		assert.Equal(t, "Invalid username or password", result.StatusText)
	})

	t.Run("Error_HTTPStatus", func(t *testing.T) {
		server := newPSWinServer(t, http.StatusBadGateway, "", nil)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: time.Second})
		result, err := client.Send(ctx, newTestMessage())

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Error_MalformedResponse", func(t *testing.T) {
		server := newPSWinServer(t, http.StatusOK, "not xml", nil)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: time.Second})
		_, err := client.Send(ctx, newTestMessage())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode gateway response")
	})

	t.Run("Error_EmptyMessageList", func(t *testing.T) {
		server := newPSWinServer(t, http.StatusOK, `<SESSION><LOGON>OK</LOGON></SESSION>`, nil)
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: time.Second})
		_, err := client.Send(ctx, newTestMessage())

		require.Error(t, err)
	})

	t.Run("Error_Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewPSWinClient(PSWinConfig{Endpoint: server.URL, Timeout: 20 * time.Millisecond})
		_, err := client.Send(ctx, newTestMessage())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway request failed")
	})
}

func TestTTLMinutes(t *testing.T) {
	assert.Equal(t, 0, ttlMinutes(0))
	assert.Equal(t, 1, ttlMinutes(time.Second))
	assert.Equal(t, 1, ttlMinutes(time.Minute))
	assert.Equal(t, 2, ttlMinutes(61*time.Second))
	assert.Equal(t, 2880, ttlMinutes(48*time.Hour))
}
