package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

const contractColumns = `
	id, submission_id, contract_no, client_id, client_name,
	created_by, approved_by, otr_price, dp_amount, principal,
	interest_rate, duration_months, monthly_installment,
	total_loan, remaining_loan, total_paid, status, void_reason,
	version, created_at, updated_at
`

// ContractRepo implements port.ContractRepository over a pool or an open
// transaction.
type ContractRepo struct {
	q postgres.Querier
}

// NewContractRepo creates a PostgreSQL-backed contract repository.
func NewContractRepo(q postgres.Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

// Save inserts a new contract with its full amortization schedule. A
// submission ID collision surfaces as a ConflictError so the caller can
// regenerate and retry.
func (r *ContractRepo) Save(ctx context.Context, c model.Contract) error {
	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`
	_, err := r.q.Exec(ctx, query,
		c.ID(), c.SubmissionID(), nullable(c.ContractNo()), c.ClientID(), c.ClientName(),
		c.CreatedBy(), nullable(c.ApprovedBy()), c.OTRPrice(), c.DPAmount(), c.Principal(),
		c.InterestRate(), c.DurationMonths(), c.MonthlyInstallment(),
		c.TotalLoan(), c.RemainingLoan(), c.TotalPaid(), c.Status().String(), nullable(c.VoidReason()),
		c.Version(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("contract identifier collision for submission %s", c.SubmissionID())
		}
		return fmt.Errorf("insert contract: %w", err)
	}

	for _, line := range c.Schedule() {
		lineQuery := `
			INSERT INTO amortization_lines (contract_id, month, due_date, amount, status, penalty_paid, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := r.q.Exec(ctx, lineQuery,
			c.ID(), line.Month, line.DueDate, line.Amount,
			line.Status.String(), line.PenaltyPaid, line.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("insert amortization line %d: %w", line.Month, err)
		}
	}
	return nil
}

// Update persists contract mutations under an optimistic version check and
// rewrites the schedule lines. A lost race is a ConflictError.
func (r *ContractRepo) Update(ctx context.Context, c model.Contract) error {
	query := `
		UPDATE contracts SET
			contract_no    = $1,
			client_id      = $2,
			client_name    = $3,
			approved_by    = $4,
			remaining_loan = $5,
			total_paid     = $6,
			status         = $7,
			void_reason    = $8,
			version        = version + 1,
			updated_at     = $9
		WHERE id = $10 AND version = $11
	`
	tag, err := r.q.Exec(ctx, query,
		nullable(c.ContractNo()), c.ClientID(), c.ClientName(),
		nullable(c.ApprovedBy()), c.RemainingLoan(), c.TotalPaid(),
		c.Status().String(), nullable(c.VoidReason()), c.UpdatedAt(),
		c.ID(), c.Version(),
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("contract %s was modified concurrently", c.ID())
	}

	for _, line := range c.Schedule() {
		lineQuery := `
			UPDATE amortization_lines
			SET status = $1, penalty_paid = $2, paid_at = $3
			WHERE contract_id = $4 AND month = $5
		`
		if _, err := r.q.Exec(ctx, lineQuery,
			line.Status.String(), line.PenaltyPaid, line.PaidAt, c.ID(), line.Month,
		); err != nil {
			return fmt.Errorf("update amortization line %d: %w", line.Month, err)
		}
	}
	return nil
}

// FindByID retrieves a contract with its schedule.
func (r *ContractRepo) FindByID(ctx context.Context, id string) (model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindBySubmissionID retrieves a contract by its draft submission ID.
func (r *ContractRepo) FindBySubmissionID(ctx context.Context, submissionID string) (model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE submission_id = $1`
	return r.findOne(ctx, query, submissionID)
}

// streamBatchSize bounds how many contract headers are held in memory at
// once while StreamByStatus walks the table.
const streamBatchSize = 100

// StreamByStatus feeds contracts in the given status to fn one at a time.
// The scan pages by keyset on (created_at, id) so memory stays bounded by
// the batch size regardless of how many contracts match, and the cursor is
// closed before each batch's schedules load on the same connection.
func (r *ContractRepo) StreamByStatus(
	ctx context.Context,
	status valueobject.ContractStatus,
	fn func(model.Contract) error,
) error {
	var (
		afterCreated time.Time
		afterID      string
	)

	for {
		batch, err := r.headerBatch(ctx, status.String(), afterCreated, afterID)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		for _, header := range batch {
			full, err := r.withSchedule(ctx, header)
			if err != nil {
				return err
			}
			if err := fn(full); err != nil {
				return err
			}
		}

		last := batch[len(batch)-1]
		afterCreated, afterID = last.CreatedAt(), last.ID()

		if len(batch) < streamBatchSize {
			return nil
		}
	}
}

// headerBatch loads one keyset page of contract headers. The zero-valued
// cursor (year-one timestamp, empty id) sorts before every real row.
func (r *ContractRepo) headerBatch(
	ctx context.Context,
	status string,
	afterCreated time.Time,
	afterID string,
) ([]model.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE status = $1 AND (created_at, id) > ($2, $3)
		ORDER BY created_at, id
		LIMIT $4
	`
	rows, err := r.q.Query(ctx, query, status, afterCreated, afterID, streamBatchSize)
	if err != nil {
		return nil, fmt.Errorf("query contracts by status: %w", err)
	}
	defer rows.Close()

	batch := make([]model.Contract, 0, streamBatchSize)
	for rows.Next() {
		c, err := scanContractRow(rows)
		if err != nil {
			return nil, err
		}
		batch = append(batch, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return batch, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *ContractRepo) findOne(ctx context.Context, query string, arg any) (model.Contract, error) {
	c, err := scanContractRow(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contract{}, apperror.NotFound("contract %v not found", arg)
		}
		return model.Contract{}, err
	}
	return r.withSchedule(ctx, c)
}

func (r *ContractRepo) withSchedule(ctx context.Context, header model.Contract) (model.Contract, error) {
	query := `
		SELECT month, due_date, amount, status, penalty_paid, paid_at
		FROM amortization_lines
		WHERE contract_id = $1
		ORDER BY month
	`
	rows, err := r.q.Query(ctx, query, header.ID())
	if err != nil {
		return model.Contract{}, fmt.Errorf("query amortization lines: %w", err)
	}
	defer rows.Close()

	var lines []model.AmortizationLine
	for rows.Next() {
		var (
			line      model.AmortizationLine
			statusStr string
		)
		if err := rows.Scan(&line.Month, &line.DueDate, &line.Amount, &statusStr, &line.PenaltyPaid, &line.PaidAt); err != nil {
			return model.Contract{}, fmt.Errorf("scan amortization line: %w", err)
		}
		line.Status, err = valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return model.Contract{}, fmt.Errorf("parse installment status: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return model.Contract{}, fmt.Errorf("iterate amortization lines: %w", err)
	}

	return model.ReconstructContract(
		header.ID(), header.SubmissionID(), header.ContractNo(),
		header.ClientID(), header.ClientName(), header.CreatedBy(), header.ApprovedBy(),
		header.OTRPrice(), header.DPAmount(), header.Principal(), header.InterestRate(),
		header.DurationMonths(),
		header.MonthlyInstallment(), header.TotalLoan(), header.RemainingLoan(), header.TotalPaid(),
		header.Status(), lines, header.VoidReason(), header.Version(),
		header.CreatedAt(), header.UpdatedAt(),
	), nil
}

func scanContractRow(s scannable) (model.Contract, error) {
	var (
		id, submissionID, clientID, clientName, createdBy string
		contractNo, approvedBy, voidReason                *string
		otrPrice, dpAmount, principal, interestRate       decimal.Decimal
		durationMonths                                    int
		monthlyInstallment, totalLoan                     decimal.Decimal
		remainingLoan, totalPaid                          decimal.Decimal
		statusStr                                         string
		version                                           int
		createdAt, updatedAt                              time.Time
	)

	err := s.Scan(
		&id, &submissionID, &contractNo, &clientID, &clientName,
		&createdBy, &approvedBy, &otrPrice, &dpAmount, &principal,
		&interestRate, &durationMonths, &monthlyInstallment,
		&totalLoan, &remainingLoan, &totalPaid, &statusStr, &voidReason,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Contract{}, err
	}

	status, err := valueobject.NewContractStatus(statusStr)
	if err != nil {
		return model.Contract{}, fmt.Errorf("parse contract status: %w", err)
	}

	return model.ReconstructContract(
		id, submissionID, deref(contractNo), clientID, clientName,
		createdBy, deref(approvedBy),
		otrPrice, dpAmount, principal, interestRate,
		durationMonths,
		monthlyInstallment, totalLoan, remainingLoan, totalPaid,
		status, nil, deref(voidReason), version,
		createdAt, updatedAt,
	), nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
