package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger entry for a settled installment.
// Entries are created once per successful payment and never mutated or
// deleted.
type Transaction struct {
	ID               string
	TransactionNo    string
	ContractID       string
	InstallmentMonth int
	AmountPaid       decimal.Decimal
	Penalty          decimal.Decimal
	ProcessedBy      string
	CreatedAt        time.Time
}

// NewTransaction records a settled payment. The transaction number is a
// pre-generated human-legible identifier; uniqueness is enforced on insert.
func NewTransaction(
	transactionNo, contractID string,
	installmentMonth int,
	amountPaid, penalty decimal.Decimal,
	processedBy string,
	now time.Time,
) Transaction {
	return Transaction{
		ID:               uuid.New().String(),
		TransactionNo:    transactionNo,
		ContractID:       contractID,
		InstallmentMonth: installmentMonth,
		AmountPaid:       amountPaid,
		Penalty:          penalty,
		ProcessedBy:      processedBy,
		CreatedAt:        now,
	}
}
