// Package dto provides data transfer objects for the sms HTTP endpoints.
package dto

import (
	"encoding/xml"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/sms-relay/internal/sms/domain"
	customValidation "github.com/allisson/sms-relay/internal/validation"
)

// SendSmsFields are the fields shared by the instant message and one-time
// password requests.
type SendSmsFields struct {
	NotificationID string `json:"notificationId"`
	Sender         string `json:"sender"`
	Recipient      string `json:"recipient"`
	Message        string `json:"message"`
}

func (f *SendSmsFields) fieldRules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&f.NotificationID, validation.Required, customValidation.UUID),
		validation.Field(&f.Sender, validation.Required, customValidation.Sender),
		validation.Field(&f.Recipient, validation.Required, customValidation.Recipient),
		validation.Field(&f.Message, validation.Required, customValidation.NotBlank, customValidation.MessageLength),
	}
}

func (f *SendSmsFields) sms() *domain.Sms {
	return &domain.Sms{
		NotificationID: uuid.MustParse(f.NotificationID),
		Sender:         f.Sender,
		Recipient:      f.Recipient,
		Message:        f.Message,
	}
}

// InstantMessageRequest is the body of POST /instantmessage/send.
type InstantMessageRequest struct {
	SendSmsFields
	TimeToLive int `json:"timeToLive"`
}

// Validate checks if the instant message request is valid.
func (r *InstantMessageRequest) Validate() error {
	rules := append(r.fieldRules(),
		validation.Field(&r.TimeToLive,
			validation.Required,
			validation.Min(1),
			validation.Max(domain.MaxTimeToLiveSeconds),
		),
	)
	return validation.ValidateStruct(r, rules...)
}

// ToSms maps a validated request to the domain message.
func (r *InstantMessageRequest) ToSms() *domain.Sms {
	return r.sms()
}

// TTL returns the requested time to live.
func (r *InstantMessageRequest) TTL() time.Duration {
	return domain.TimeToLiveFromSeconds(r.TimeToLive)
}

// OneTimePasswordRequest is the body of POST /otp.
type OneTimePasswordRequest struct {
	SendSmsFields
}

// Validate checks if the one-time password request is valid.
func (r *OneTimePasswordRequest) Validate() error {
	return validation.ValidateStruct(r, r.fieldRules()...)
}

// ToPayload maps a validated request to the domain payload.
func (r *OneTimePasswordRequest) ToPayload() *domain.OneTimePasswordPayload {
	sms := r.sms()
	return &domain.OneTimePasswordPayload{
		NotificationID: sms.NotificationID,
		Sender:         sms.Sender,
		Recipient:      sms.Recipient,
		Message:        sms.Message,
	}
}

// DeliveryReportList is the PSWin delivery report body.
type DeliveryReportList struct {
	XMLName  xml.Name                `xml:"MSGLST"`
	Messages []DeliveryReportMessage `xml:"MSG"`
}

// DeliveryReportMessage is one report inside a DeliveryReportList.
type DeliveryReportMessage struct {
	ID           string `xml:"ID"`
	Reference    string `xml:"REF"`
	Receiver     string `xml:"RCV"`
	State        string `xml:"STATE"`
	DeliveryTime string `xml:"DELIVERYTIME"`
}

// ToDomain converts the message, rejecting state names outside the vendor list.
func (m DeliveryReportMessage) ToDomain() (*domain.DeliveryReport, error) {
	state, err := domain.ParseDeliveryStateName(m.State)
	if err != nil {
		return nil, err
	}
	return &domain.DeliveryReport{
		ID:           m.ID,
		Reference:    m.Reference,
		Receiver:     m.Receiver,
		State:        state,
		DeliveryTime: m.DeliveryTime,
	}, nil
}
