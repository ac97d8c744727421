package adapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naufallariff/credia-system/internal/domain/model"
)

// PostgresAuditRecorder implements port.AuditRecorder with an append-only
// audit_logs table. Recording is fire-and-forget: a failed insert is logged
// and swallowed so the business operation it annotates never fails for it.
type PostgresAuditRecorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresAuditRecorder creates the recorder.
func NewPostgresAuditRecorder(pool *pgxpool.Pool, logger *slog.Logger) *PostgresAuditRecorder {
	return &PostgresAuditRecorder{pool: pool, logger: logger}
}

// Record appends one audit entry.
func (r *PostgresAuditRecorder) Record(
	ctx context.Context,
	actor model.Actor,
	actionType, description, targetModel, targetID string,
) {
	query := `
		INSERT INTO audit_logs (id, actor_id, actor_name, actor_role, action_type, description, target_model, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		uuid.New().String(), actor.ID, actor.Name, actor.Role,
		actionType, description, targetModel, targetID, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("audit record failed",
			"action_type", actionType,
			"target_id", targetID,
			"error", err,
		)
	}
}
