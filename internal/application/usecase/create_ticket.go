package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/port"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

// CreateTicketUseCase opens a maker-checker modification ticket against a
// contract. The ticket snapshots the target at creation time; the checker
// role is notified best-effort after commit.
type CreateTicketUseCase struct {
	uow      port.UnitOfWork
	notifier port.NotificationDispatcher
	audit    port.AuditRecorder
}

// NewCreateTicketUseCase wires dependencies.
func NewCreateTicketUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationDispatcher,
	audit port.AuditRecorder,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		uow:      uow,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute validates the target, snapshots it, and persists a PENDING ticket.
// A second pending ticket for the same target surfaces as a ConflictError
// from the persistence constraint.
func (uc *CreateTicketUseCase) Execute(
	ctx context.Context,
	req dto.CreateTicketRequest,
) (dto.TicketResponse, error) {
	now := time.Now().UTC()

	// Opening tickets is a maker operation.
	if req.Actor.IsClient() {
		return dto.TicketResponse{}, apperror.Authorization("clients cannot open modification tickets")
	}

	if req.TargetType != model.TargetTypeContract {
		return dto.TicketResponse{}, apperror.Validation(
			"unsupported ticket target type %q", req.TargetType)
	}
	requestType, err := valueobject.NewRequestType(req.RequestType)
	if err != nil {
		return dto.TicketResponse{}, apperror.Validation("%s", err)
	}

	// Snapshot and insert happen in one transaction so original_data cannot
	// go stale between the read and the ticket row. The snapshot travels on
	// the ticket for audit and reversal.
	var ticket model.ModificationTicket
	err = uc.uow.Do(ctx, func(repos port.TxRepositories) error {
		contract, err := repos.Contracts().FindByID(ctx, req.TargetID)
		if err != nil {
			return fmt.Errorf("find target contract: %w", err)
		}
		original, err := json.Marshal(dto.NewContractResponse(contract, nil, now))
		if err != nil {
			return fmt.Errorf("snapshot target: %w", err)
		}

		ticket, err = model.NewModificationTicket(
			req.Actor.ID, model.TargetTypeContract, contract.ID(),
			requestType, original, req.ProposedData, req.Reason, now,
		)
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}

		if err := repos.Tickets().Save(ctx, ticket); err != nil {
			return fmt.Errorf("save ticket: %w", err)
		}
		return repos.Outbox().Store(ctx, outboxEntries(ticket.DomainEvents()))
	})
	if err != nil {
		return dto.TicketResponse{}, err
	}

	// Delivery failures are the dispatcher's problem, never the maker's.
	uc.notifier.NotifyRole(ctx, model.RoleApprover, port.SeverityInfo,
		"Modification ticket pending review",
		fmt.Sprintf("%s ticket %s awaits review for contract %s",
			requestType.String(), ticket.ID(), ticket.TargetID()))

	uc.audit.Record(ctx, req.Actor, "TICKET_CREATE",
		fmt.Sprintf("opened %s ticket for contract %s", requestType.String(), ticket.TargetID()),
		"modification_ticket", ticket.ID())

	return dto.NewTicketResponse(ticket), nil
}
