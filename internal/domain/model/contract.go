package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/event"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Contract aggregate root
// ---------------------------------------------------------------------------

// Contract is an immutable aggregate owning the loan state and its
// amortization schedule. Mutations return a new copy.
type Contract struct {
	id                 string
	submissionID       string
	contractNo         string // empty until activation
	clientID           string
	clientName         string // denormalized snapshot, written once
	createdBy          string
	approvedBy         string
	otrPrice           decimal.Decimal
	dpAmount           decimal.Decimal
	principal          decimal.Decimal
	interestRate       decimal.Decimal // raw rate as entered
	durationMonths     int
	monthlyInstallment decimal.Decimal
	totalLoan          decimal.Decimal
	remainingLoan      decimal.Decimal
	totalPaid          decimal.Decimal
	status             valueobject.ContractStatus
	schedule           []AmortizationLine
	voidReason         string
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []event.DomainEvent
}

// Settlement summarizes the outcome of settling one installment.
type Settlement struct {
	Month         int
	AmountDue     decimal.Decimal
	Penalty       decimal.Decimal
	TotalExpected decimal.Decimal
	Tendered      decimal.Decimal
	DaysLate      int
	PaidAt        time.Time
	Closed        bool
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewContract creates a draft contract in PENDING_ACTIVATION and generates
// its installment schedule. The interest rate is the raw tier rate already
// resolved by the caller; the contract number stays empty until activation.
func NewContract(
	submissionID, clientID, clientName, createdBy string,
	otrPrice, dpAmount, rawRate decimal.Decimal,
	durationMonths int,
	startDate, now time.Time,
) (Contract, error) {
	if submissionID == "" {
		return Contract{}, apperror.Validation("submission ID is required")
	}
	if clientID == "" {
		return Contract{}, apperror.Validation("client ID is required")
	}
	if createdBy == "" {
		return Contract{}, apperror.Validation("creator ID is required")
	}
	if otrPrice.LessThanOrEqual(decimal.Zero) {
		return Contract{}, apperror.Validation("OTR price must be positive, got %s", otrPrice)
	}
	if dpAmount.IsNegative() {
		return Contract{}, apperror.Validation("down payment must not be negative, got %s", dpAmount)
	}
	if dpAmount.GreaterThanOrEqual(otrPrice) {
		return Contract{}, apperror.Validation("down payment %s must be below the OTR price %s", dpAmount, otrPrice)
	}

	principal := otrPrice.Sub(dpAmount)
	sched, err := GenerateInstallmentSchedule(principal, rawRate, durationMonths, startDate)
	if err != nil {
		return Contract{}, err
	}

	c := Contract{
		id:                 uuid.New().String(),
		submissionID:       submissionID,
		clientID:           clientID,
		clientName:         clientName,
		createdBy:          createdBy,
		otrPrice:           otrPrice,
		dpAmount:           dpAmount,
		principal:          principal,
		interestRate:       rawRate,
		durationMonths:     durationMonths,
		monthlyInstallment: sched.MonthlyInstallment,
		totalLoan:          sched.TotalLoan,
		remainingLoan:      sched.TotalLoan,
		totalPaid:          decimal.Zero,
		status:             valueobject.ContractStatusPendingActivation,
		schedule:           sched.Lines,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}

	c.domainEvents = append(c.domainEvents, event.NewContractCreated(
		c.id, submissionID, clientID, otrPrice, principal, sched.TotalLoan, durationMonths,
	))

	return c, nil
}

// ReconstructContract rebuilds a Contract aggregate from persistence.
func ReconstructContract(
	id, submissionID, contractNo, clientID, clientName, createdBy, approvedBy string,
	otrPrice, dpAmount, principal, interestRate decimal.Decimal,
	durationMonths int,
	monthlyInstallment, totalLoan, remainingLoan, totalPaid decimal.Decimal,
	status valueobject.ContractStatus,
	schedule []AmortizationLine,
	voidReason string,
	version int,
	createdAt, updatedAt time.Time,
) Contract {
	return Contract{
		id:                 id,
		submissionID:       submissionID,
		contractNo:         contractNo,
		clientID:           clientID,
		clientName:         clientName,
		createdBy:          createdBy,
		approvedBy:         approvedBy,
		otrPrice:           otrPrice,
		dpAmount:           dpAmount,
		principal:          principal,
		interestRate:       interestRate,
		durationMonths:     durationMonths,
		monthlyInstallment: monthlyInstallment,
		totalLoan:          totalLoan,
		remainingLoan:      remainingLoan,
		totalPaid:          totalPaid,
		status:             status,
		schedule:           schedule,
		voidReason:         voidReason,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Activate transitions PENDING_ACTIVATION -> ACTIVE, assigns the contract
// number and records the approver. Driven exclusively through an approved
// ACTIVATE ticket.
func (c Contract) Activate(contractNo, approverID string, now time.Time) (Contract, error) {
	if !c.status.Equal(valueobject.ContractStatusPendingActivation) {
		return c, apperror.Conflict("contract %s cannot be activated from status %s", c.id, c.status)
	}
	if contractNo == "" {
		return c, apperror.Validation("contract number is required for activation")
	}

	next := c
	next.status = valueobject.ContractStatusActive
	next.contractNo = contractNo
	next.approvedBy = approverID
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewContractActivated(c.id, contractNo, approverID))
	return next, nil
}

// RejectActivation transitions PENDING_ACTIVATION -> REJECTED (terminal).
func (c Contract) RejectActivation(approverID string, now time.Time) (Contract, error) {
	if !c.status.Equal(valueobject.ContractStatusPendingActivation) {
		return c, apperror.Conflict("contract %s cannot be rejected from status %s", c.id, c.status)
	}
	next := c
	next.status = valueobject.ContractStatusRejected
	next.approvedBy = approverID
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewContractRejected(c.id, approverID))
	return next, nil
}

// Void transitions PENDING_ACTIVATION or ACTIVE -> VOID (terminal) and
// carries the ticket's reason onto the contract.
func (c Contract) Void(reason, approverID string, now time.Time) (Contract, error) {
	if c.status.IsTerminal() {
		return c, apperror.Conflict("contract %s is already terminal in status %s", c.id, c.status)
	}
	next := c
	next.status = valueobject.ContractStatusVoid
	next.voidReason = reason
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewContractVoided(c.id, reason, approverID))
	return next, nil
}

// CorrectClient merges an approved data correction onto the denormalized
// client fields. Nil pointers leave the current value untouched. Financial
// fields are deliberately not correctable; those require void and re-draft.
func (c Contract) CorrectClient(clientID, clientName *string, now time.Time) (Contract, error) {
	if c.status.IsTerminal() {
		return c, apperror.Conflict("contract %s is terminal and cannot be corrected", c.id)
	}
	next := c
	if clientID != nil && *clientID != "" {
		next.clientID = *clientID
	}
	if clientName != nil && *clientName != "" {
		next.clientName = *clientName
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	return next, nil
}

// SettleInstallment applies a tendered payment to the installment for the
// given month. Underpayment of amount due plus penalty is rejected; an
// overpayment is accepted and recorded without credit tracking. When the
// remaining loan reaches zero the contract closes automatically.
func (c Contract) SettleInstallment(month int, tendered decimal.Decimal, now time.Time) (Contract, Settlement, error) {
	if !c.status.Equal(valueobject.ContractStatusActive) {
		return c, Settlement{}, apperror.Conflict("contract %s does not accept payments in status %s", c.id, c.status)
	}

	idx := -1
	for i, line := range c.schedule {
		if line.Month == month {
			idx = i
			break
		}
	}
	if idx == -1 {
		return c, Settlement{}, apperror.NotFound("installment month %d not found on contract %s", month, c.id)
	}

	line := c.schedule[idx]
	if line.Status.IsSettled() {
		return c, Settlement{}, apperror.Conflict("installment month %d is already settled", month)
	}

	penalty := PenaltyFor(line.Amount, line.DueDate, now)
	expected := line.Amount.Add(penalty)
	if tendered.LessThan(expected) {
		return c, Settlement{}, apperror.Validation(
			"insufficient payment for month %d: expected at least %s, got %s", month, expected, tendered)
	}

	paidAt := now
	next := c
	next.schedule = make([]AmortizationLine, len(c.schedule))
	copy(next.schedule, c.schedule)
	next.schedule[idx].Status = valueobject.InstallmentStatusPaid
	next.schedule[idx].PenaltyPaid = penalty
	next.schedule[idx].PaidAt = &paidAt

	// Penalty money never reduces the remaining loan.
	next.totalPaid = c.totalPaid.Add(tendered)
	next.remainingLoan = c.remainingLoan.Sub(line.Amount)
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentSettled(
		c.id, month, tendered, penalty, next.remainingLoan,
	))

	closed := false
	if next.remainingLoan.LessThanOrEqual(decimal.Zero) {
		next.status = valueobject.ContractStatusClosed
		next.domainEvents = append(next.domainEvents, event.NewContractClosed(c.id))
		closed = true
	}

	return next, Settlement{
		Month:         month,
		AmountDue:     line.Amount,
		Penalty:       penalty,
		TotalExpected: expected,
		Tendered:      tendered,
		DaysLate:      DaysLate(line.DueDate, now),
		PaidAt:        paidAt,
		Closed:        closed,
	}, nil
}

// MarkOverdueLines flips UNPAID lines whose due date is strictly before
// today (date-only) to LATE. Idempotent: a second pass over an unchanged
// contract reports zero changes.
func (c Contract) MarkOverdueLines(today time.Time, now time.Time) (Contract, int) {
	ref := TruncateToDay(today)
	changed := 0
	for _, line := range c.schedule {
		if line.Status.Equal(valueobject.InstallmentStatusUnpaid) && TruncateToDay(line.DueDate).Before(ref) {
			changed++
		}
	}
	if changed == 0 {
		return c, 0
	}

	next := c
	next.schedule = make([]AmortizationLine, len(c.schedule))
	copy(next.schedule, c.schedule)
	months := make([]int, 0, changed)
	for i, line := range next.schedule {
		if line.Status.Equal(valueobject.InstallmentStatusUnpaid) && TruncateToDay(line.DueDate).Before(ref) {
			next.schedule[i].Status = valueobject.InstallmentStatusLate
			months = append(months, line.Month)
		}
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewInstallmentsMarkedLate(c.id, months))
	return next, changed
}

// OverdueLineCount reports how many lines are currently LATE.
func (c Contract) OverdueLineCount() int {
	n := 0
	for _, line := range c.schedule {
		if line.Status.Equal(valueobject.InstallmentStatusLate) {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Contract) ID() string                           { return c.id }
func (c Contract) SubmissionID() string                 { return c.submissionID }
func (c Contract) ContractNo() string                   { return c.contractNo }
func (c Contract) ClientID() string                     { return c.clientID }
func (c Contract) ClientName() string                   { return c.clientName }
func (c Contract) CreatedBy() string                    { return c.createdBy }
func (c Contract) ApprovedBy() string                   { return c.approvedBy }
func (c Contract) OTRPrice() decimal.Decimal            { return c.otrPrice }
func (c Contract) DPAmount() decimal.Decimal            { return c.dpAmount }
func (c Contract) Principal() decimal.Decimal           { return c.principal }
func (c Contract) InterestRate() decimal.Decimal        { return c.interestRate }
func (c Contract) DurationMonths() int                  { return c.durationMonths }
func (c Contract) MonthlyInstallment() decimal.Decimal  { return c.monthlyInstallment }
func (c Contract) TotalLoan() decimal.Decimal           { return c.totalLoan }
func (c Contract) RemainingLoan() decimal.Decimal       { return c.remainingLoan }
func (c Contract) TotalPaid() decimal.Decimal           { return c.totalPaid }
func (c Contract) Status() valueobject.ContractStatus   { return c.status }
func (c Contract) VoidReason() string                   { return c.voidReason }
func (c Contract) Version() int                         { return c.version }
func (c Contract) CreatedAt() time.Time                 { return c.createdAt }
func (c Contract) UpdatedAt() time.Time                 { return c.updatedAt }
func (c Contract) DomainEvents() []event.DomainEvent    { return c.domainEvents }

// Schedule returns a defensive copy of the amortization schedule.
func (c Contract) Schedule() []AmortizationLine {
	if c.schedule == nil {
		return nil
	}
	out := make([]AmortizationLine, len(c.schedule))
	copy(out, c.schedule)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (c Contract) ClearEvents() Contract {
	next := c
	next.domainEvents = nil
	return next
}

func copyEvents(evts []event.DomainEvent) []event.DomainEvent {
	if evts == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evts))
	copy(out, evts)
	return out
}
