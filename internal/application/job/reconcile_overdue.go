package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naufallariff/credia-system/internal/domain/event"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/port"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/events"
)

// OverdueReconciler reclassifies unpaid installments whose due date has
// passed. It never computes or persists a monetary penalty; penalties are
// derived at read and settlement time.
type OverdueReconciler struct {
	contracts port.ContractRepository
	uow       port.UnitOfWork
	audit     port.AuditRecorder
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewOverdueReconciler wires dependencies.
func NewOverdueReconciler(
	contracts port.ContractRepository,
	uow port.UnitOfWork,
	audit port.AuditRecorder,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *OverdueReconciler {
	return &OverdueReconciler{
		contracts: contracts,
		uow:       uow,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
	}
}

// Report summarizes one reconciliation pass.
type Report struct {
	Scanned     int
	Changed     int
	LinesMarked int
}

// Run walks every ACTIVE contract once, row by row, and persists only those
// whose schedule actually changed. A second pass over an unchanged dataset
// writes nothing.
func (r *OverdueReconciler) Run(ctx context.Context, today time.Time) (Report, error) {
	var report Report
	system := model.SystemActor()

	err := r.contracts.StreamByStatus(ctx, valueobject.ContractStatusActive, func(c model.Contract) error {
		report.Scanned++

		next, changed := c.MarkOverdueLines(today, time.Now().UTC())
		if changed == 0 {
			return nil
		}

		err := r.uow.Do(ctx, func(repos port.TxRepositories) error {
			if err := repos.Contracts().Update(ctx, next); err != nil {
				return fmt.Errorf("update contract %s: %w", next.ID(), err)
			}
			entries := make([]events.OutboxEntry, 0, len(next.DomainEvents()))
			for _, evt := range next.DomainEvents() {
				entries = append(entries, events.NewOutboxEntry(evt))
			}
			return repos.Outbox().Store(ctx, entries)
		})
		if err != nil {
			return err
		}

		report.Changed++
		report.LinesMarked += changed

		r.audit.Record(ctx, system, "OVERDUE_RECONCILE",
			fmt.Sprintf("marked %d installment(s) late on contract %s", changed, next.ID()),
			"contract", next.ID())
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("stream active contracts: %w", err)
	}

	summary := event.NewOverdueSweepCompleted(
		today.Format("2006-01-02"), report.Scanned, report.Changed, report.LinesMarked)
	if err := r.publisher.Publish(ctx, summary); err != nil {
		r.logger.Error("failed to publish sweep summary", "error", err)
	}

	r.logger.Info("overdue reconciliation pass finished",
		"scanned", report.Scanned,
		"changed", report.Changed,
		"lines_marked", report.LinesMarked,
	)
	return report, nil
}
