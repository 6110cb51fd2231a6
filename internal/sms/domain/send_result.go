package domain

// SendResult is the closed set of outcomes reported on the status topic.
type SendResult string

const (
	SendResultSending                SendResult = "Sending"
	SendResultAccepted               SendResult = "Accepted"
	SendResultDelivered              SendResult = "Delivered"
	SendResultFailed                 SendResult = "Failed"
	SendResultFailedInvalidRecipient SendResult = "Failed_InvalidRecipient"
	SendResultFailedBarredReceiver   SendResult = "Failed_BarredReceiver"
	SendResultFailedDeleted          SendResult = "Failed_Deleted"
	SendResultFailedExpired          SendResult = "Failed_Expired"
	SendResultFailedUndelivered      SendResult = "Failed_Undelivered"
	SendResultFailedRejected         SendResult = "Failed_Rejected"
)

// IsValid reports whether r is one of the known send results.
func (r SendResult) IsValid() bool {
	switch r {
	case SendResultSending,
		SendResultAccepted,
		SendResultDelivered,
		SendResultFailed,
		SendResultFailedInvalidRecipient,
		SendResultFailedBarredReceiver,
		SendResultFailedDeleted,
		SendResultFailedExpired,
		SendResultFailedUndelivered,
		SendResultFailedRejected:
		return true
	}
	return false
}

// String returns the wire name of the send result.
func (r SendResult) String() string {
	return string(r)
}
