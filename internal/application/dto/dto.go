package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateContractRequest carries the data needed to draft a new contract.
type CreateContractRequest struct {
	Actor          model.Actor     `json:"-"`
	ClientID       string          `json:"client_id"`
	OTRPrice       decimal.Decimal `json:"otr_price"`
	DPAmount       decimal.Decimal `json:"dp_amount"`
	DurationMonths int             `json:"duration_months"`
	StartDate      time.Time       `json:"start_date"`
}

// SettlePaymentRequest carries an installment payment.
type SettlePaymentRequest struct {
	Actor            model.Actor     `json:"-"`
	ContractID       string          `json:"contract_id"`
	InstallmentMonth int             `json:"installment_month"`
	Amount           decimal.Decimal `json:"amount"`
}

// GetContractRequest identifies a contract to retrieve.
type GetContractRequest struct {
	Actor      model.Actor `json:"-"`
	ContractID string      `json:"contract_id"`
}

// CreateTicketRequest opens a maker-checker modification ticket.
type CreateTicketRequest struct {
	Actor        model.Actor     `json:"-"`
	TargetType   string          `json:"target_type"`
	TargetID     string          `json:"target_id"`
	RequestType  string          `json:"request_type"`
	ProposedData json.RawMessage `json:"proposed_data,omitempty"`
	Reason       string          `json:"reason"`
}

// ProcessTicketRequest resolves a pending ticket.
type ProcessTicketRequest struct {
	Actor    model.Actor `json:"-"`
	TicketID string      `json:"ticket_id"`
	Action   string      `json:"action"`
	Note     string      `json:"note"`
}

// ContractCorrection is the typed payload of an UPDATE ticket. Nil fields
// are left untouched on approval.
type ContractCorrection struct {
	ClientID   *string `json:"client_id,omitempty"`
	ClientName *string `json:"client_name,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AmortizationLineResponse is one schedule line in the external shape. The
// running penalty is computed lazily at read time and never persisted by the
// reconciliation job.
type AmortizationLineResponse struct {
	Month          int             `json:"month"`
	DueDate        time.Time       `json:"due_date"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	PenaltyPaid    decimal.Decimal `json:"penalty_paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CurrentPenalty decimal.Decimal `json:"current_penalty"`
}

// TransactionResponse is one ledger entry in the external shape.
type TransactionResponse struct {
	TransactionNo    string          `json:"transaction_no"`
	InstallmentMonth int             `json:"installment_month"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Penalty          decimal.Decimal `json:"penalty"`
	ProcessedBy      string          `json:"processed_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ContractResponse is the external representation of a contract.
type ContractResponse struct {
	ID                 string                     `json:"id"`
	SubmissionID       string                     `json:"submission_id"`
	ContractNo         string                     `json:"contract_no,omitempty"`
	ClientID           string                     `json:"client_id"`
	ClientName         string                     `json:"client_name"`
	CreatedBy          string                     `json:"created_by"`
	ApprovedBy         string                     `json:"approved_by,omitempty"`
	OTRPrice           decimal.Decimal            `json:"otr_price"`
	DPAmount           decimal.Decimal            `json:"dp_amount"`
	Principal          decimal.Decimal            `json:"principal"`
	InterestRate       decimal.Decimal            `json:"interest_rate"`
	DurationMonths     int                        `json:"duration_months"`
	MonthlyInstallment decimal.Decimal            `json:"monthly_installment"`
	TotalLoan          decimal.Decimal            `json:"total_loan"`
	RemainingLoan      decimal.Decimal            `json:"remaining_loan"`
	TotalPaid          decimal.Decimal            `json:"total_paid"`
	Status             string                     `json:"status"`
	VoidReason         string                     `json:"void_reason,omitempty"`
	Schedule           []AmortizationLineResponse `json:"schedule"`
	Transactions       []TransactionResponse      `json:"transactions,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// SettlementResponse reports the outcome of a payment.
type SettlementResponse struct {
	ContractID       string          `json:"contract_id"`
	TransactionNo    string          `json:"transaction_no"`
	InstallmentMonth int             `json:"installment_month"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	Penalty          decimal.Decimal `json:"penalty"`
	DaysLate         int             `json:"days_late"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingLoan    decimal.Decimal `json:"remaining_loan"`
	ContractStatus   string          `json:"contract_status"`
}

// TicketResponse is the external representation of a modification ticket.
type TicketResponse struct {
	ID           string          `json:"id"`
	RequestedBy  string          `json:"requested_by"`
	ApprovedBy   string          `json:"approved_by,omitempty"`
	TargetType   string          `json:"target_type"`
	TargetID     string          `json:"target_id"`
	RequestType  string          `json:"request_type"`
	OriginalData json.RawMessage `json:"original_data,omitempty"`
	ProposedData json.RawMessage `json:"proposed_data,omitempty"`
	Reason       string          `json:"reason"`
	Note         string          `json:"note,omitempty"`
	Status       string          `json:"status"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

// NewContractResponse maps a contract aggregate to its external shape,
// computing the current penalty per line as of asOf.
func NewContractResponse(c model.Contract, txns []model.Transaction, asOf time.Time) ContractResponse {
	schedule := make([]AmortizationLineResponse, 0, len(c.Schedule()))
	for _, line := range c.Schedule() {
		current := decimal.Zero
		if !line.Status.IsSettled() {
			current = model.PenaltyFor(line.Amount, line.DueDate, asOf)
		}
		schedule = append(schedule, AmortizationLineResponse{
			Month:          line.Month,
			DueDate:        line.DueDate,
			Amount:         line.Amount,
			Status:         line.Status.String(),
			PenaltyPaid:    line.PenaltyPaid,
			PaidAt:         line.PaidAt,
			CurrentPenalty: current,
		})
	}

	var txnResponses []TransactionResponse
	for _, txn := range txns {
		txnResponses = append(txnResponses, TransactionResponse{
			TransactionNo:    txn.TransactionNo,
			InstallmentMonth: txn.InstallmentMonth,
			AmountPaid:       txn.AmountPaid,
			Penalty:          txn.Penalty,
			ProcessedBy:      txn.ProcessedBy,
			CreatedAt:        txn.CreatedAt,
		})
	}

	return ContractResponse{
		ID:                 c.ID(),
		SubmissionID:       c.SubmissionID(),
		ContractNo:         c.ContractNo(),
		ClientID:           c.ClientID(),
		ClientName:         c.ClientName(),
		CreatedBy:          c.CreatedBy(),
		ApprovedBy:         c.ApprovedBy(),
		OTRPrice:           c.OTRPrice(),
		DPAmount:           c.DPAmount(),
		Principal:          c.Principal(),
		InterestRate:       c.InterestRate(),
		DurationMonths:     c.DurationMonths(),
		MonthlyInstallment: c.MonthlyInstallment(),
		TotalLoan:          c.TotalLoan(),
		RemainingLoan:      c.RemainingLoan(),
		TotalPaid:          c.TotalPaid(),
		Status:             c.Status().String(),
		VoidReason:         c.VoidReason(),
		Schedule:           schedule,
		Transactions:       txnResponses,
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}
}

// NewTicketResponse maps a ticket aggregate to its external shape.
func NewTicketResponse(t model.ModificationTicket) TicketResponse {
	return TicketResponse{
		ID:           t.ID(),
		RequestedBy:  t.RequestedBy(),
		ApprovedBy:   t.ApprovedBy(),
		TargetType:   t.TargetType(),
		TargetID:     t.TargetID(),
		RequestType:  t.RequestType().String(),
		OriginalData: t.OriginalData(),
		ProposedData: t.ProposedData(),
		Reason:       t.Reason(),
		Note:         t.Note(),
		Status:       t.Status().String(),
		ProcessedAt:  t.ProcessedAt(),
		CreatedAt:    t.CreatedAt(),
	}
}
