package domain

// ClientError describes why the gateway did not accept a message. Cause is set
// when the gateway could not be reached or did not answer in time.
type ClientError struct {
	SendResult   SendResult
	ErrorMessage string
	Cause        error
}

// Transient reports whether the failure happened in transport rather than
// being a gateway verdict, which makes another attempt worthwhile.
func (e *ClientError) Transient() bool {
	return e.Cause != nil
}

// SendOutcome is the result of one gateway call: either an accepted gateway
// reference or a ClientError, never both.
type SendOutcome struct {
	GatewayReference string
	Error            *ClientError
}

// AcceptedOutcome returns the success branch carrying the gateway reference.
func AcceptedOutcome(gatewayReference string) SendOutcome {
	return SendOutcome{GatewayReference: gatewayReference}
}

// FailedOutcome returns the error branch for a gateway verdict.
func FailedOutcome(result SendResult, message string) SendOutcome {
	return SendOutcome{Error: &ClientError{SendResult: result, ErrorMessage: message}}
}

// TransportFailedOutcome returns the error branch for a call that never got a verdict.
func TransportFailedOutcome(cause error) SendOutcome {
	return SendOutcome{Error: &ClientError{
		SendResult:   SendResultFailed,
		ErrorMessage: cause.Error(),
		Cause:        cause,
	}}
}

// Accepted reports whether the gateway accepted the message.
func (o SendOutcome) Accepted() bool {
	return o.Error == nil
}

// StatusEvent builds the status event published after a dispatch attempt.
func (o SendOutcome) StatusEvent(sms *Sms) *SendOperationResult {
	if o.Accepted() {
		return &SendOperationResult{
			NotificationID:   sms.NotificationID,
			GatewayReference: o.GatewayReference,
			SendResult:       SendResultAccepted,
		}
	}
	return &SendOperationResult{
		NotificationID: sms.NotificationID,
		SendResult:     o.Error.SendResult,
	}
}
