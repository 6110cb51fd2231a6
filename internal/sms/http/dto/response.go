package dto

import (
	"encoding/xml"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

// Delivery report acknowledgement statuses.
const (
	ReportStatusOK   = "OK"
	ReportStatusFail = "FAIL"
)

// OneTimePasswordResponse is returned when the gateway accepted the message.
type OneTimePasswordResponse struct {
	NotificationID   string `json:"notificationId"`
	GatewayReference string `json:"gatewayReference"`
}

// MapOneTimePasswordOutcome converts a use case outcome into the response body.
func MapOneTimePasswordOutcome(outcome *domain.OneTimePasswordOutcome) OneTimePasswordResponse {
	return OneTimePasswordResponse{
		NotificationID:   outcome.NotificationID.String(),
		GatewayReference: outcome.GatewayReference,
	}
}

// DeliveryReportResponseList acknowledges each received report. The gateway
// resends reports acknowledged with FAIL.
type DeliveryReportResponseList struct {
	XMLName  xml.Name                 `xml:"MSGLST"`
	Messages []DeliveryReportResponse `xml:"MSG"`
}

// DeliveryReportResponse is the acknowledgement for one report.
type DeliveryReportResponse struct {
	ID     string `xml:"ID"`
	Status string `xml:"STATUS"`
}
