package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

const invalidRecipientPrefix = "Invalid RCV"

// GatewayService classifies gateway verdicts into send outcomes. It makes a
// single call per Send and never retries.
type GatewayService struct {
	client  GatewayClient
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewGatewayService creates a GatewayService. limiter may be nil.
func NewGatewayService(client GatewayClient, limiter *rate.Limiter, logger *slog.Logger) *GatewayService {
	return &GatewayService{
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

// Send dispatches sms with the given time-to-live; a non-positive ttl uses
// domain.DefaultTimeToLive.
func (s *GatewayService) Send(ctx context.Context, sms *domain.Sms, ttl time.Duration) domain.SendOutcome {
	if ttl <= 0 {
		ttl = domain.DefaultTimeToLive
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Info("sms gateway rate limit wait aborted",
				slog.String("notification_id", sms.NotificationID.String()),
				slog.Any("error", err),
			)
			return domain.TransportFailedOutcome(err)
		}
	}

	result, err := s.client.Send(ctx, &GatewayMessage{
		Sender:     sms.Sender,
		Recipient:  sms.Recipient,
		Text:       sms.Message,
		TimeToLive: ttl,
	})
	if err != nil {
		s.logger.Info("failed to reach sms gateway",
			slog.String("notification_id", sms.NotificationID.String()),
			slog.Any("error", err),
		)
		return domain.TransportFailedOutcome(err)
	}

	if result.StatusOK {
		return domain.AcceptedOutcome(result.GatewayReference)
	}

	if strings.HasPrefix(result.StatusText, invalidRecipientPrefix) {
		return domain.FailedOutcome(domain.SendResultFailedInvalidRecipient, result.StatusText)
	}

	s.logger.Info("sms gateway rejected message",
		slog.String("notification_id", sms.NotificationID.String()),
		slog.String("status", result.StatusText),
	)
	return domain.FailedOutcome(domain.SendResultFailed, result.StatusText)
}
