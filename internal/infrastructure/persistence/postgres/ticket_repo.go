package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// TicketRepo implements port.TicketRepository. A partial unique index on
// (target_id) WHERE status = 'PENDING' enforces the single-pending-ticket
// rule at the database level.
type TicketRepo struct {
	q postgres.Querier
}

// NewTicketRepo creates a PostgreSQL-backed ticket repository.
func NewTicketRepo(q postgres.Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

// Save inserts a new PENDING ticket. A second pending ticket for the same
// target trips the partial unique index and surfaces as a ConflictError.
func (r *TicketRepo) Save(ctx context.Context, t model.ModificationTicket) error {
	query := `
		INSERT INTO modification_tickets (
			id, requested_by, approved_by, target_type, target_id,
			request_type, original_data, proposed_data, reason, note,
			status, processed_at, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err := r.q.Exec(ctx, query,
		t.ID(), t.RequestedBy(), nullable(t.ApprovedBy()), t.TargetType(), t.TargetID(),
		t.RequestType().String(), rawOrNull(t.OriginalData()), rawOrNull(t.ProposedData()),
		t.Reason(), nullable(t.Note()),
		t.Status().String(), t.ProcessedAt(), t.Version(), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("a pending ticket already exists for %s %s", t.TargetType(), t.TargetID())
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// Update persists a ticket resolution under an optimistic version check.
func (r *TicketRepo) Update(ctx context.Context, t model.ModificationTicket) error {
	query := `
		UPDATE modification_tickets SET
			approved_by  = $1,
			note         = $2,
			status       = $3,
			processed_at = $4,
			version      = version + 1,
			updated_at   = $5
		WHERE id = $6 AND version = $7
	`
	tag, err := r.q.Exec(ctx, query,
		nullable(t.ApprovedBy()), nullable(t.Note()), t.Status().String(),
		t.ProcessedAt(), t.UpdatedAt(),
		t.ID(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("ticket %s was modified concurrently", t.ID())
	}
	return nil
}

// FindByID retrieves one ticket.
func (r *TicketRepo) FindByID(ctx context.Context, id string) (model.ModificationTicket, error) {
	query := `
		SELECT id, requested_by, approved_by, target_type, target_id,
		       request_type, original_data, proposed_data, reason, note,
		       status, processed_at, version, created_at, updated_at
		FROM modification_tickets
		WHERE id = $1
	`
	var (
		tID, requestedBy, targetType, targetID string
		approvedBy, note                       *string
		requestTypeStr, statusStr, reason      string
		originalData, proposedData             []byte
		processedAt                            *time.Time
		version                                int
		createdAt, updatedAt                   time.Time
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&tID, &requestedBy, &approvedBy, &targetType, &targetID,
		&requestTypeStr, &originalData, &proposedData, &reason, &note,
		&statusStr, &processedAt, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ModificationTicket{}, apperror.NotFound("ticket %s not found", id)
		}
		return model.ModificationTicket{}, fmt.Errorf("scan ticket: %w", err)
	}

	requestType, err := valueobject.NewRequestType(requestTypeStr)
	if err != nil {
		return model.ModificationTicket{}, fmt.Errorf("parse request type: %w", err)
	}
	status, err := valueobject.NewTicketStatus(statusStr)
	if err != nil {
		return model.ModificationTicket{}, fmt.Errorf("parse ticket status: %w", err)
	}

	return model.ReconstructTicket(
		tID, requestedBy, deref(approvedBy), targetType, targetID,
		requestType, originalData, proposedData, reason, deref(note),
		status, processedAt, version, createdAt, updatedAt,
	), nil
}

// rawOrNull maps empty JSON payloads to NULL.
func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
