package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naufallariff/credia-system/internal/domain/port"
	"github.com/naufallariff/credia-system/pkg/events"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork over a pgx transaction. All
// repositories handed to the callback share the same transaction.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a pool-backed unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Do runs fn inside one transaction. fn returning an error rolls everything
// back, including outbox entries.
func (u *UnitOfWork) Do(ctx context.Context, fn func(repos port.TxRepositories) error) error {
	return postgres.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx pgx.Tx
}

func (r txRepositories) Contracts() port.ContractRepository       { return NewContractRepo(r.tx) }
func (r txRepositories) Transactions() port.TransactionRepository { return NewTransactionRepo(r.tx) }
func (r txRepositories) Tickets() port.TicketRepository           { return NewTicketRepo(r.tx) }
func (r txRepositories) Outbox() events.OutboxRepository          { return NewOutboxRepo(r.tx) }
