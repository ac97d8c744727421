package port

import (
	"context"

	"github.com/naufallariff/credia-system/internal/domain/event"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ContractRepository persists and retrieves contracts with their embedded
// amortization schedules. Update applies an optimistic version check; a lost
// race surfaces as a ConflictError.
type ContractRepository interface {
	Save(ctx context.Context, c model.Contract) error
	Update(ctx context.Context, c model.Contract) error
	FindByID(ctx context.Context, id string) (model.Contract, error)
	FindBySubmissionID(ctx context.Context, submissionID string) (model.Contract, error)
	// StreamByStatus iterates contracts in the given status one row at a
	// time without bulk-loading. Returning an error from fn stops the scan.
	StreamByStatus(ctx context.Context, status valueobject.ContractStatus, fn func(model.Contract) error) error
}

// TransactionRepository appends and reads the immutable payment ledger.
type TransactionRepository interface {
	Save(ctx context.Context, t model.Transaction) error
	FindByContractID(ctx context.Context, contractID string) ([]model.Transaction, error)
}

// TicketRepository persists and retrieves modification tickets. Save must
// surface the one-PENDING-ticket-per-target constraint as a ConflictError.
type TicketRepository interface {
	Save(ctx context.Context, t model.ModificationTicket) error
	Update(ctx context.Context, t model.ModificationTicket) error
	FindByID(ctx context.Context, id string) (model.ModificationTicket, error)
}

// RuleRepository reads the singleton rule configuration. Absence is reported
// as a ConfigurationError: contract creation fails closed.
type RuleRepository interface {
	GetRules(ctx context.Context) (model.RuleConfiguration, error)
}

// ClientDirectory resolves a client reference to a name/status snapshot at
// contract-creation time.
type ClientDirectory interface {
	FindClient(ctx context.Context, id string) (model.ClientSnapshot, error)
}

// ---------------------------------------------------------------------------
// Unit of work
// ---------------------------------------------------------------------------

// TxRepositories exposes the repositories bound to one open transaction.
type TxRepositories interface {
	Contracts() ContractRepository
	Transactions() TransactionRepository
	Tickets() TicketRepository
	Outbox() events.OutboxRepository
}

// UnitOfWork executes fn within a single atomic persistence transaction.
// If fn returns an error, nothing persists.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepositories) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External collaborator ports
// ---------------------------------------------------------------------------

// AuditRecorder records an audit trail entry. Fire-and-forget: it must not
// block or fail the calling operation.
type AuditRecorder interface {
	Record(ctx context.Context, actor model.Actor, actionType, description, targetModel, targetID string)
}

// Severity levels for notifications.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// NotificationDispatcher delivers notifications to users or whole roles.
// Fire-and-forget: delivery failures must not fail the calling operation.
type NotificationDispatcher interface {
	NotifyRole(ctx context.Context, role, severity, title, message string)
	NotifyUser(ctx context.Context, userID, severity, title, message string)
}
