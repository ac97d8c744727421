package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/naufallariff/credia-system/pkg/events"
	"github.com/naufallariff/credia-system/pkg/kafka"
)

// OutboxRelay drains the transactional outbox into Kafka. Events are written
// to the outbox inside the same transaction as the state change; the relay
// delivers them at least once afterwards.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	producer  *kafka.Producer
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewOutboxRelay wires dependencies.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	producer *kafka.Producer,
	topic string,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start polls the outbox until ctx is cancelled. It blocks, so callers run
// it in its own goroutine.
func (r *OutboxRelay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

func (r *OutboxRelay) drainOnce(ctx context.Context) error {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, kafka.Message{
			Key:   []byte(entry.AggregateID),
			Value: entry.Payload,
			Headers: map[string]string{
				"event_id":       entry.ID,
				"event_type":     entry.EventType,
				"aggregate_type": entry.AggregateType,
			},
		})
		ids = append(ids, entry.ID)
	}

	if err := r.producer.Publish(ctx, r.topic, messages...); err != nil {
		return err
	}
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return err
	}

	r.logger.Debug("outbox entries published", "count", len(ids), "topic", r.topic)
	return nil
}
