package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/httputil"
	"github.com/allisson/sms-relay/internal/sms/http/dto"
	"github.com/allisson/sms-relay/internal/sms/usecase"
	customValidation "github.com/allisson/sms-relay/internal/validation"
)

// ErrNotAccepted is returned when the gateway did not hand out a reference.
var ErrNotAccepted = errors.New("the service provider did not accept the sms message")

// SendingHandler serves the synchronous dispatch endpoints.
type SendingHandler struct {
	sendingUseCase usecase.SendingUseCase
	logger         *slog.Logger
}

// NewSendingHandler creates a SendingHandler.
func NewSendingHandler(sendingUseCase usecase.SendingUseCase, logger *slog.Logger) *SendingHandler {
	return &SendingHandler{
		sendingUseCase: sendingUseCase,
		logger:         logger,
	}
}

// InstantMessageHandler dispatches one message and publishes its status event.
// POST /notifications/sms/api/v1/instantmessage/send
// Returns 200 with an empty body once the status event is published.
func (h *SendingHandler) InstantMessageHandler(c *gin.Context) {
	var req dto.InstantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	if err := h.sendingUseCase.Send(ctx, req.ToSms(), req.TTL()); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

// OneTimePasswordHandler dispatches one message and returns its gateway reference.
// POST /notifications/sms/api/v1/otp
// Returns 200 with the reference, or 400 when the gateway did not accept it.
func (h *SendingHandler) OneTimePasswordHandler(c *gin.Context) {
	var req dto.OneTimePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	outcome, err := h.sendingUseCase.SendOneTimePassword(c.Request.Context(), req.ToPayload())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !outcome.Accepted() {
		httputil.HandleBadRequestGin(c, ErrNotAccepted, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOneTimePasswordOutcome(outcome))
}
