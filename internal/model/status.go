package model

import "errors"

// ReservationStatus enumerates the lifecycle states of a reservation.
// The numeric values are part of the wire format (clients send and
// receive them as integers) and must not be reordered.
//
// States:
//  WaitingForAcceptance            – initial state after the customer reserves.
//  CancelledByUser                 – terminal; customer cancelled before acceptance.
//  Accepted                        – agent accepted the request.
//  Rejected                        – terminal; agent rejected the request.
//  CancelledByUserAfterAcceptance  – terminal; customer cancelled an accepted reservation.
//  CancelledByAgentAfterAcceptance – terminal; agent cancelled an accepted reservation.
//  Done                            – terminal; the visit took place.
type ReservationStatus int

const (
	StatusWaitingForAcceptance            ReservationStatus = 0
	StatusCancelledByUser                 ReservationStatus = 1
	StatusAccepted                        ReservationStatus = 2
	StatusRejected                        ReservationStatus = 3
	StatusCancelledByUserAfterAcceptance  ReservationStatus = 4
	StatusCancelledByAgentAfterAcceptance ReservationStatus = 5
	StatusDone                            ReservationStatus = 6
)

// Valid reports whether s is one of the defined lifecycle states.
func (s ReservationStatus) Valid() bool {
	return s >= StatusWaitingForAcceptance && s <= StatusDone
}

// String returns the canonical name of the status for logs and events.
func (s ReservationStatus) String() string {
	switch s {
	case StatusWaitingForAcceptance:
		return "WaitingForAcceptance"
	case StatusCancelledByUser:
		return "CancelledByUser"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusCancelledByUserAfterAcceptance:
		return "CancelledByUserAfterAcceptance"
	case StatusCancelledByAgentAfterAcceptance:
		return "CancelledByAgentAfterAcceptance"
	case StatusDone:
		return "Done"
	}
	return "Unknown"
}

// ErrInvalidTransition is returned when an actor requests a status
// change that the transition table does not allow from the current
// state. Handlers translate it into an HTTP 400 response.
var ErrInvalidTransition = errors.New("invalid reservation status transition")

// NextOnCustomerCancel resolves the target state for a customer-initiated
// cancellation. Before acceptance the reservation moves to
// CancelledByUser; after acceptance to CancelledByUserAfterAcceptance.
// Every other state rejects the transition.
func NextOnCustomerCancel(from ReservationStatus) (ReservationStatus, error) {
	switch from {
	case StatusWaitingForAcceptance:
		return StatusCancelledByUser, nil
	case StatusAccepted:
		return StatusCancelledByUserAfterAcceptance, nil
	}
	return from, ErrInvalidTransition
}

// NextOnAccept resolves the target state for an agent accepting a request.
func NextOnAccept(from ReservationStatus) (ReservationStatus, error) {
	if from == StatusWaitingForAcceptance {
		return StatusAccepted, nil
	}
	return from, ErrInvalidTransition
}

// NextOnReject resolves the target state for an agent rejecting a request.
func NextOnReject(from ReservationStatus) (ReservationStatus, error) {
	if from == StatusWaitingForAcceptance {
		return StatusRejected, nil
	}
	return from, ErrInvalidTransition
}

// NextOnAgentCancel resolves the target state for an agent cancelling an
// already accepted reservation.
func NextOnAgentCancel(from ReservationStatus) (ReservationStatus, error) {
	if from == StatusAccepted {
		return StatusCancelledByAgentAfterAcceptance, nil
	}
	return from, ErrInvalidTransition
}

// NextOnComplete resolves the target state for an agent marking an
// accepted reservation as done.
func NextOnComplete(from ReservationStatus) (ReservationStatus, error) {
	if from == StatusAccepted {
		return StatusDone, nil
	}
	return from, ErrInvalidTransition
}

// AgentCategory is the coarser status filter exposed to restaurant
// agents when listing reservations. Its numeric values are also part
// of the wire format.
//
// Categories:
//  CategoryWaitingForAcceptance – requests awaiting a decision.
//  CategoryAccepted             – accepted upcoming reservations.
//  CategoryDone                 – completed visits.
//  CategoryRejected             – rejections plus agent cancellations.
//  CategoryCancelledByUser      – customer cancellations after acceptance.
type AgentCategory int

const (
	CategoryWaitingForAcceptance AgentCategory = 0
	CategoryAccepted             AgentCategory = 1
	CategoryDone                 AgentCategory = 2
	CategoryRejected             AgentCategory = 3
	CategoryCancelledByUser      AgentCategory = 4
)

// Statuses expands the category into the lifecycle states it selects.
// CategoryRejected deliberately unions Rejected with
// CancelledByAgentAfterAcceptance: agents see their own rejections and
// their post-acceptance cancellations in one bucket. Unknown categories
// fall back to Accepted.
func (c AgentCategory) Statuses() []ReservationStatus {
	switch c {
	case CategoryWaitingForAcceptance:
		return []ReservationStatus{StatusWaitingForAcceptance}
	case CategoryDone:
		return []ReservationStatus{StatusDone}
	case CategoryRejected:
		return []ReservationStatus{StatusRejected, StatusCancelledByAgentAfterAcceptance}
	case CategoryCancelledByUser:
		return []ReservationStatus{StatusCancelledByUserAfterAcceptance}
	}
	return []ReservationStatus{StatusAccepted}
}

// AgentVisibleStatuses lists every lifecycle state a restaurant agent
// gets to see. A CancelledByUser reservation never reached the agent's
// queue as anything actionable, so it stays a customer-only record.
func AgentVisibleStatuses() []ReservationStatus {
	return []ReservationStatus{
		StatusWaitingForAcceptance,
		StatusAccepted,
		StatusRejected,
		StatusCancelledByUserAfterAcceptance,
		StatusCancelledByAgentAfterAcceptance,
		StatusDone,
	}
}
