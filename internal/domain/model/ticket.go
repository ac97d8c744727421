package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/event"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

// TargetTypeContract is the only target entity type the workflow currently
// gates.
const TargetTypeContract = "contract"

// ---------------------------------------------------------------------------
// ModificationTicket aggregate root (maker-checker)
// ---------------------------------------------------------------------------

// ModificationTicket is the persisted maker-checker request record. A maker
// creates it PENDING; a checker terminates it exactly once into APPROVED or
// REJECTED. Approval side effects on the target apply atomically with the
// status change.
type ModificationTicket struct {
	id           string
	requestedBy  string
	approvedBy   string
	targetType   string
	targetID     string
	requestType  valueobject.RequestType
	originalData json.RawMessage
	proposedData json.RawMessage
	reason       string
	note         string
	status       valueobject.TicketStatus
	processedAt  *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// NewModificationTicket creates a PENDING ticket. originalData is a snapshot
// of the target taken at creation time for audit and reversal.
func NewModificationTicket(
	requestedBy, targetType, targetID string,
	requestType valueobject.RequestType,
	originalData, proposedData json.RawMessage,
	reason string,
	now time.Time,
) (ModificationTicket, error) {
	if requestedBy == "" {
		return ModificationTicket{}, apperror.Validation("requester ID is required")
	}
	if targetType == "" || targetID == "" {
		return ModificationTicket{}, apperror.Validation("ticket target is required")
	}
	if requestType.IsZero() {
		return ModificationTicket{}, apperror.Validation("request type is required")
	}
	if reason == "" {
		return ModificationTicket{}, apperror.Validation("a reason is required")
	}

	t := ModificationTicket{
		id:           uuid.New().String(),
		requestedBy:  requestedBy,
		targetType:   targetType,
		targetID:     targetID,
		requestType:  requestType,
		originalData: originalData,
		proposedData: proposedData,
		reason:       reason,
		status:       valueobject.TicketStatusPending,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}
	t.domainEvents = append(t.domainEvents, event.NewTicketCreated(
		t.id, requestedBy, targetType, targetID, requestType.String(),
	))
	return t, nil
}

// ReconstructTicket rebuilds a ModificationTicket from persistence.
func ReconstructTicket(
	id, requestedBy, approvedBy, targetType, targetID string,
	requestType valueobject.RequestType,
	originalData, proposedData json.RawMessage,
	reason, note string,
	status valueobject.TicketStatus,
	processedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) ModificationTicket {
	return ModificationTicket{
		id:           id,
		requestedBy:  requestedBy,
		approvedBy:   approvedBy,
		targetType:   targetType,
		targetID:     targetID,
		requestType:  requestType,
		originalData: originalData,
		proposedData: proposedData,
		reason:       reason,
		note:         note,
		status:       status,
		processedAt:  processedAt,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// resolve terminates the ticket exactly once. The approver must be a
// different identity than the requester: the authorization boundary is
// expected to have enforced role segregation already, but the aggregate
// still refuses self-approval.
func (t ModificationTicket) resolve(
	approverID, note string,
	status valueobject.TicketStatus,
	now time.Time,
) (ModificationTicket, error) {
	if !t.status.Equal(valueobject.TicketStatusPending) {
		return t, apperror.Conflict("ticket %s has already been resolved as %s", t.id, t.status)
	}
	if approverID == "" {
		return t, apperror.Validation("approver ID is required")
	}
	if approverID == t.requestedBy {
		return t, apperror.Authorization("ticket %s cannot be resolved by its own requester", t.id)
	}

	processedAt := now
	next := t
	next.status = status
	next.approvedBy = approverID
	next.note = note
	next.processedAt = &processedAt
	next.updatedAt = now
	next.domainEvents = copyEvents(t.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewTicketProcessed(
		t.id, t.targetID, status.String(), approverID,
	))
	return next, nil
}

// Approve transitions PENDING -> APPROVED.
func (t ModificationTicket) Approve(approverID, note string, now time.Time) (ModificationTicket, error) {
	return t.resolve(approverID, note, valueobject.TicketStatusApproved, now)
}

// Reject transitions PENDING -> REJECTED. No further side effects.
func (t ModificationTicket) Reject(approverID, note string, now time.Time) (ModificationTicket, error) {
	return t.resolve(approverID, note, valueobject.TicketStatusRejected, now)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (t ModificationTicket) ID() string                          { return t.id }
func (t ModificationTicket) RequestedBy() string                 { return t.requestedBy }
func (t ModificationTicket) ApprovedBy() string                  { return t.approvedBy }
func (t ModificationTicket) TargetType() string                  { return t.targetType }
func (t ModificationTicket) TargetID() string                    { return t.targetID }
func (t ModificationTicket) RequestType() valueobject.RequestType { return t.requestType }
func (t ModificationTicket) OriginalData() json.RawMessage       { return t.originalData }
func (t ModificationTicket) ProposedData() json.RawMessage       { return t.proposedData }
func (t ModificationTicket) Reason() string                      { return t.reason }
func (t ModificationTicket) Note() string                        { return t.note }
func (t ModificationTicket) Status() valueobject.TicketStatus    { return t.status }
func (t ModificationTicket) ProcessedAt() *time.Time             { return t.processedAt }
func (t ModificationTicket) Version() int                        { return t.version }
func (t ModificationTicket) CreatedAt() time.Time                { return t.createdAt }
func (t ModificationTicket) UpdatedAt() time.Time                { return t.updatedAt }
func (t ModificationTicket) DomainEvents() []event.DomainEvent   { return t.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (t ModificationTicket) ClearEvents() ModificationTicket {
	next := t
	next.domainEvents = nil
	return next
}
