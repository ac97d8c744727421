package events

import (
	"context"
	"encoding/json"
	"time"
)

// OutboxEntry is a domain event staged in the outbox table, written in the
// same transaction as the aggregate change it describes. A relay publishes
// staged entries to the broker and stamps PublishedAt.
type OutboxEntry struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxEntry stages event for publication. The payload is the event's
// own JSON form; identity fields ride in the entry columns, not the payload.
func NewOutboxEntry(event DomainEvent) OutboxEntry {
	payload, _ := json.Marshal(event)
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}
}

// OutboxRepository persists and drains staged entries.
type OutboxRepository interface {
	Store(ctx context.Context, entries []OutboxEntry) error
	FetchUnpublished(ctx context.Context, batchSize int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []string) error
}
