package domain

import (
	"strconv"
	"strings"
)

// DeliveryState is the delivery status code reported by the gateway. The integer
// values follow the vendor's ordering.
type DeliveryState int

const (
	DeliveryStateUnknown DeliveryState = iota
	DeliveryStateDelivrd
	DeliveryStateExpired
	DeliveryStateDeleted
	DeliveryStateUndeliv
	DeliveryStateRejectd
	DeliveryStateFailed
	DeliveryStateNull
	DeliveryStateBarred
	DeliveryStateBarredA
	DeliveryStateZeroBal
)

var deliveryStateNames = [...]string{
	DeliveryStateUnknown: "UNKNOWN",
	DeliveryStateDelivrd: "DELIVRD",
	DeliveryStateExpired: "EXPIRED",
	DeliveryStateDeleted: "DELETED",
	DeliveryStateUndeliv: "UNDELIV",
	DeliveryStateRejectd: "REJECTD",
	DeliveryStateFailed:  "FAILED",
	DeliveryStateNull:    "NULL",
	DeliveryStateBarred:  "BARRED",
	DeliveryStateBarredA: "BARREDA",
	DeliveryStateZeroBal: "ZEROBAL",
}

// String returns the vendor name of the state, or its integer value when unknown.
func (s DeliveryState) String() string {
	if s >= 0 && int(s) < len(deliveryStateNames) {
		return deliveryStateNames[s]
	}
	return "DeliveryState(" + strconv.Itoa(int(s)) + ")"
}

// ParseDeliveryStateName converts a vendor state name (as found in delivery
// report XML) to a DeliveryState. Names are matched case-insensitively.
func ParseDeliveryStateName(name string) (DeliveryState, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for i, candidate := range deliveryStateNames {
		if candidate == normalized {
			return DeliveryState(i), nil
		}
	}
	return DeliveryStateUnknown, &UnsupportedStateError{Name: name}
}

// ParseDeliveryState maps a gateway delivery state to the send result published
// on the status topic. States outside the production subset are rejected.
func ParseDeliveryState(state DeliveryState) (SendResult, error) {
	switch state {
	case DeliveryStateUnknown:
		return SendResultFailed, nil
	case DeliveryStateDelivrd:
		return SendResultDelivered, nil
	case DeliveryStateExpired:
		return SendResultFailedExpired, nil
	case DeliveryStateDeleted:
		return SendResultFailedDeleted, nil
	case DeliveryStateUndeliv:
		return SendResultFailedUndelivered, nil
	case DeliveryStateRejectd:
		return SendResultFailedRejected, nil
	case DeliveryStateFailed:
		return SendResultFailed, nil
	case DeliveryStateNull:
		return SendResultFailed, nil
	case DeliveryStateBarred:
		return SendResultFailedBarredReceiver, nil
	}
	return "", &UnsupportedStateError{State: state}
}
