package postgres

import (
	"context"
	"fmt"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// TransactionRepo implements port.TransactionRepository. The ledger is
// append-only: there is no update or delete path.
type TransactionRepo struct {
	q postgres.Querier
}

// NewTransactionRepo creates a PostgreSQL-backed transaction repository.
func NewTransactionRepo(q postgres.Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Save appends one ledger entry. A transaction number collision is a
// retryable ConflictError.
func (r *TransactionRepo) Save(ctx context.Context, t model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, transaction_no, contract_id, installment_month,
			amount_paid, penalty, processed_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransactionNo, t.ContractID, t.InstallmentMonth,
		t.AmountPaid, t.Penalty, t.ProcessedBy, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("transaction number %s already exists", t.TransactionNo)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByContractID lists a contract's ledger entries oldest first.
func (r *TransactionRepo) FindByContractID(ctx context.Context, contractID string) ([]model.Transaction, error) {
	query := `
		SELECT id, transaction_no, contract_id, installment_month,
		       amount_paid, penalty, processed_by, created_at
		FROM transactions
		WHERE contract_id = $1
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(
			&t.ID, &t.TransactionNo, &t.ContractID, &t.InstallmentMonth,
			&t.AmountPaid, &t.Penalty, &t.ProcessedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
