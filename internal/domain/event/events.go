package event

import (
	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Contract events
// ---------------------------------------------------------------------------

// ContractCreated is raised when a draft contract enters the system.
type ContractCreated struct {
	events.BaseEvent
	SubmissionID   string          `json:"submission_id"`
	ClientID       string          `json:"client_id"`
	OTRPrice       decimal.Decimal `json:"otr_price"`
	Principal      decimal.Decimal `json:"principal"`
	TotalLoan      decimal.Decimal `json:"total_loan"`
	DurationMonths int             `json:"duration_months"`
}

func NewContractCreated(
	contractID, submissionID, clientID string,
	otrPrice, principal, totalLoan decimal.Decimal,
	durationMonths int,
) ContractCreated {
	return ContractCreated{
		BaseEvent:      events.NewBaseEvent("credia.contract.created", contractID, "Contract"),
		SubmissionID:   submissionID,
		ClientID:       clientID,
		OTRPrice:       otrPrice,
		Principal:      principal,
		TotalLoan:      totalLoan,
		DurationMonths: durationMonths,
	}
}

// ContractActivated is raised when an ACTIVATE ticket is approved.
type ContractActivated struct {
	events.BaseEvent
	ContractNo string `json:"contract_no"`
	ApprovedBy string `json:"approved_by"`
}

func NewContractActivated(contractID, contractNo, approvedBy string) ContractActivated {
	return ContractActivated{
		BaseEvent:  events.NewBaseEvent("credia.contract.activated", contractID, "Contract"),
		ContractNo: contractNo,
		ApprovedBy: approvedBy,
	}
}

// ContractRejected is raised when a draft is rejected before activation.
type ContractRejected struct {
	events.BaseEvent
	ApprovedBy string `json:"approved_by"`
}

func NewContractRejected(contractID, approvedBy string) ContractRejected {
	return ContractRejected{
		BaseEvent:  events.NewBaseEvent("credia.contract.rejected", contractID, "Contract"),
		ApprovedBy: approvedBy,
	}
}

// ContractVoided is raised when a contract is administratively voided.
type ContractVoided struct {
	events.BaseEvent
	Reason     string `json:"reason"`
	ApprovedBy string `json:"approved_by"`
}

func NewContractVoided(contractID, reason, approvedBy string) ContractVoided {
	return ContractVoided{
		BaseEvent:  events.NewBaseEvent("credia.contract.voided", contractID, "Contract"),
		Reason:     reason,
		ApprovedBy: approvedBy,
	}
}

// PaymentSettled is raised when an installment payment is applied.
type PaymentSettled struct {
	events.BaseEvent
	InstallmentMonth int             `json:"installment_month"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Penalty          decimal.Decimal `json:"penalty"`
	RemainingLoan    decimal.Decimal `json:"remaining_loan"`
}

func NewPaymentSettled(
	contractID string,
	installmentMonth int,
	amountPaid, penalty, remainingLoan decimal.Decimal,
) PaymentSettled {
	return PaymentSettled{
		BaseEvent:        events.NewBaseEvent("credia.contract.payment_settled", contractID, "Contract"),
		InstallmentMonth: installmentMonth,
		AmountPaid:       amountPaid,
		Penalty:          penalty,
		RemainingLoan:    remainingLoan,
	}
}

// ContractClosed is raised when the remaining loan reaches zero.
type ContractClosed struct {
	events.BaseEvent
}

func NewContractClosed(contractID string) ContractClosed {
	return ContractClosed{
		BaseEvent: events.NewBaseEvent("credia.contract.closed", contractID, "Contract"),
	}
}

// InstallmentsMarkedLate is raised by the overdue reconciliation pass when
// unpaid lines past their due date are reclassified.
type InstallmentsMarkedLate struct {
	events.BaseEvent
	Months []int `json:"months"`
}

func NewInstallmentsMarkedLate(contractID string, months []int) InstallmentsMarkedLate {
	return InstallmentsMarkedLate{
		BaseEvent: events.NewBaseEvent("credia.contract.installments_late", contractID, "Contract"),
		Months:    months,
	}
}

// OverdueSweepCompleted summarizes one full reconciliation pass. Published
// directly rather than through the outbox since it is not tied to any single
// contract's transaction.
type OverdueSweepCompleted struct {
	events.BaseEvent
	Scanned     int `json:"scanned"`
	Changed     int `json:"changed"`
	LinesMarked int `json:"lines_marked"`
}

func NewOverdueSweepCompleted(sweepDate string, scanned, changed, linesMarked int) OverdueSweepCompleted {
	return OverdueSweepCompleted{
		BaseEvent:   events.NewBaseEvent("credia.reconciliation.completed", sweepDate, "ReconciliationRun"),
		Scanned:     scanned,
		Changed:     changed,
		LinesMarked: linesMarked,
	}
}

// ---------------------------------------------------------------------------
// Ticket events
// ---------------------------------------------------------------------------

// TicketCreated is raised when a maker opens a modification ticket.
type TicketCreated struct {
	events.BaseEvent
	RequestedBy string `json:"requested_by"`
	TargetType  string `json:"target_type"`
	TargetID    string `json:"target_id"`
	RequestType string `json:"request_type"`
}

func NewTicketCreated(ticketID, requestedBy, targetType, targetID, requestType string) TicketCreated {
	return TicketCreated{
		BaseEvent:   events.NewBaseEvent("credia.ticket.created", ticketID, "ModificationTicket"),
		RequestedBy: requestedBy,
		TargetType:  targetType,
		TargetID:    targetID,
		RequestType: requestType,
	}
}

// TicketProcessed is raised when a checker resolves a ticket.
type TicketProcessed struct {
	events.BaseEvent
	TargetID   string `json:"target_id"`
	Resolution string `json:"resolution"`
	ApprovedBy string `json:"approved_by"`
}

func NewTicketProcessed(ticketID, targetID, resolution, approvedBy string) TicketProcessed {
	return TicketProcessed{
		BaseEvent:  events.NewBaseEvent("credia.ticket.processed", ticketID, "ModificationTicket"),
		TargetID:   targetID,
		Resolution: resolution,
		ApprovedBy: approvedBy,
	}
}
