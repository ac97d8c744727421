package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/naufallariff/credia-system/pkg/events"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository. Entries are written inside
// the caller's transaction and drained by the relay outside of it.
type OutboxRepo struct {
	q postgres.Querier
}

// NewOutboxRepo creates a PostgreSQL-backed outbox repository.
func NewOutboxRepo(q postgres.Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// Store appends outbox entries.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	for _, entry := range entries {
		query := `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := r.q.Exec(ctx, query,
			entry.ID, entry.AggregateID, entry.AggregateType,
			entry.EventType, entry.Payload, entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert outbox entry %s: %w", entry.ID, err)
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize entries awaiting publication,
// oldest first.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var entry events.OutboxEntry
		if err := rows.Scan(
			&entry.ID, &entry.AggregateID, &entry.AggregateType,
			&entry.EventType, &entry.Payload, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the given entries as delivered.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE outbox SET published_at = $1 WHERE id = ANY($2)`,
		time.Now().UTC(), ids,
	)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
