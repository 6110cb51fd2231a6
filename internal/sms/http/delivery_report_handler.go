// Package http provides the gin handlers of the sms relay: gateway delivery
// reports and synchronous dispatch endpoints.
package http

import (
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/httputil"
	"github.com/allisson/sms-relay/internal/sms/domain"
	"github.com/allisson/sms-relay/internal/sms/http/dto"
	"github.com/allisson/sms-relay/internal/sms/usecase"
)

const maxReportBodyBytes = 1 << 20

// DeliveryReportHandler receives delivery reports posted by the gateway.
type DeliveryReportHandler struct {
	statusUseCase usecase.StatusUseCase
	logger        *slog.Logger
}

// NewDeliveryReportHandler creates a DeliveryReportHandler.
func NewDeliveryReportHandler(statusUseCase usecase.StatusUseCase, logger *slog.Logger) *DeliveryReportHandler {
	return &DeliveryReportHandler{
		statusUseCase: statusUseCase,
		logger:        logger,
	}
}

// ReceiveHandler relays every report in the body onto the status topic.
// POST /notifications/sms/api/v1/reports - basic auth is applied by the router.
// Returns 400 without publishing anything when the body is malformed or any
// report carries an unsupported state. Reports whose status event was not
// acknowledged are answered with FAIL so the gateway redelivers them.
func (h *DeliveryReportHandler) ReceiveHandler(c *gin.Context) {
	var list dto.DeliveryReportList
	decoder := xml.NewDecoder(io.LimitReader(c.Request.Body, maxReportBodyBytes))
	if err := decoder.Decode(&list); err != nil {
		httputil.HandleBadRequestGin(c, errors.Wrap(err, "invalid delivery report"), h.logger)
		return
	}

	reports := make([]*domain.DeliveryReport, 0, len(list.Messages))
	for _, msg := range list.Messages {
		report, err := msg.ToDomain()
		if err == nil {
			_, err = domain.ParseDeliveryState(report.State)
		}
		if err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
		reports = append(reports, report)
	}

	ctx := c.Request.Context()
	response := dto.DeliveryReportResponseList{
		Messages: make([]dto.DeliveryReportResponse, 0, len(reports)),
	}
	for _, report := range reports {
		status := dto.ReportStatusOK
		if err := h.statusUseCase.UpdateStatus(ctx, report); err != nil {
			h.logger.Warn("delivery report not relayed",
				slog.String("report_id", report.ID),
				slog.String("gateway_reference", report.Reference),
				slog.Any("error", err),
			)
			status = dto.ReportStatusFail
		}
		response.Messages = append(response.Messages, dto.DeliveryReportResponse{ID: report.ID, Status: status})
	}

	c.XML(http.StatusOK, response)
}
