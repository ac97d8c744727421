package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// TicketStatus – immutable value object
// ---------------------------------------------------------------------------

// TicketStatus represents the lifecycle stage of a modification ticket.
type TicketStatus struct {
	value string
}

const (
	ticketStatusPending  = "PENDING"
	ticketStatusApproved = "APPROVED"
	ticketStatusRejected = "REJECTED"
)

var (
	TicketStatusPending  = TicketStatus{value: ticketStatusPending}
	TicketStatusApproved = TicketStatus{value: ticketStatusApproved}
	TicketStatusRejected = TicketStatus{value: ticketStatusRejected}
)

var validTicketStatuses = map[string]TicketStatus{
	ticketStatusPending:  TicketStatusPending,
	ticketStatusApproved: TicketStatusApproved,
	ticketStatusRejected: TicketStatusRejected,
}

// NewTicketStatus creates a TicketStatus from a raw string.
func NewTicketStatus(s string) (TicketStatus, error) {
	v, ok := validTicketStatuses[s]
	if !ok {
		return TicketStatus{}, fmt.Errorf("invalid ticket status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s TicketStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s TicketStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s TicketStatus) Equal(other TicketStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// RequestType – immutable value object
// ---------------------------------------------------------------------------

// RequestType is the closed set of changes a modification ticket may request.
// Approval side effects dispatch on this type through an exhaustive switch.
type RequestType struct {
	value string
}

const (
	requestTypeCreate   = "CREATE"
	requestTypeUpdate   = "UPDATE"
	requestTypeVoid     = "VOID"
	requestTypeDelete   = "DELETE"
	requestTypeActivate = "ACTIVATE"
)

var (
	RequestTypeCreate   = RequestType{value: requestTypeCreate}
	RequestTypeUpdate   = RequestType{value: requestTypeUpdate}
	RequestTypeVoid     = RequestType{value: requestTypeVoid}
	RequestTypeDelete   = RequestType{value: requestTypeDelete}
	RequestTypeActivate = RequestType{value: requestTypeActivate}
)

var validRequestTypes = map[string]RequestType{
	requestTypeCreate:   RequestTypeCreate,
	requestTypeUpdate:   RequestTypeUpdate,
	requestTypeVoid:     RequestTypeVoid,
	requestTypeDelete:   RequestTypeDelete,
	requestTypeActivate: RequestTypeActivate,
}

// NewRequestType creates a RequestType from a raw string.
func NewRequestType(s string) (RequestType, error) {
	v, ok := validRequestTypes[s]
	if !ok {
		return RequestType{}, fmt.Errorf("invalid request type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the request type.
func (t RequestType) String() string { return t.value }

// IsZero returns true if the request type has not been initialised.
func (t RequestType) IsZero() bool { return t.value == "" }

// Equal returns true when both request types carry the same value.
func (t RequestType) Equal(other RequestType) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// TicketAction – immutable value object
// ---------------------------------------------------------------------------

// TicketAction is the checker's decision on a pending ticket.
type TicketAction struct {
	value string
}

const (
	ticketActionApprove = "APPROVE"
	ticketActionReject  = "REJECT"
)

var (
	TicketActionApprove = TicketAction{value: ticketActionApprove}
	TicketActionReject  = TicketAction{value: ticketActionReject}
)

// NewTicketAction creates a TicketAction from a raw string.
func NewTicketAction(s string) (TicketAction, error) {
	switch s {
	case ticketActionApprove:
		return TicketActionApprove, nil
	case ticketActionReject:
		return TicketActionReject, nil
	}
	return TicketAction{}, fmt.Errorf("invalid ticket action: %q", s)
}

// String returns the string representation of the action.
func (a TicketAction) String() string { return a.value }

// IsZero returns true if the action has not been initialised.
func (a TicketAction) IsZero() bool { return a.value == "" }

// Equal returns true when both actions carry the same value.
func (a TicketAction) Equal(other TicketAction) bool { return a.value == other.value }
