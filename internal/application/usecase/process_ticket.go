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
	"github.com/naufallariff/credia-system/internal/domain/service"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/events"
)

// ProcessTicketUseCase is the checker side of the workflow: it resolves a
// pending ticket and, on approval, applies the requested change to the
// target. Ticket terminalization and target mutation commit together.
type ProcessTicketUseCase struct {
	uow      port.UnitOfWork
	notifier port.NotificationDispatcher
	audit    port.AuditRecorder
}

// NewProcessTicketUseCase wires dependencies.
func NewProcessTicketUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationDispatcher,
	audit port.AuditRecorder,
) *ProcessTicketUseCase {
	return &ProcessTicketUseCase{uow: uow, notifier: notifier, audit: audit}
}

// Execute resolves a ticket with APPROVE or REJECT. The approver must hold
// the checker role and must not be the ticket's requester.
func (uc *ProcessTicketUseCase) Execute(
	ctx context.Context,
	req dto.ProcessTicketRequest,
) (dto.TicketResponse, error) {
	now := time.Now().UTC()

	if req.Actor.Role != model.RoleApprover && req.Actor.Role != model.RoleAdmin {
		return dto.TicketResponse{}, apperror.Authorization(
			"role %s cannot resolve modification tickets", req.Actor.Role)
	}
	action, err := valueobject.NewTicketAction(req.Action)
	if err != nil {
		return dto.TicketResponse{}, apperror.Validation("%s", err)
	}

	var ticket model.ModificationTicket
	err = uc.uow.Do(ctx, func(repos port.TxRepositories) error {
		var err error
		ticket, err = repos.Tickets().FindByID(ctx, req.TicketID)
		if err != nil {
			return fmt.Errorf("find ticket: %w", err)
		}

		var pending []events.DomainEvent
		switch {
		case action.Equal(valueobject.TicketActionApprove):
			ticket, err = ticket.Approve(req.Actor.ID, req.Note, now)
			if err != nil {
				return fmt.Errorf("approve ticket: %w", err)
			}
			contract, err := uc.applyApproval(ctx, repos, ticket, req.Actor, now)
			if err != nil {
				return err
			}
			pending = contract.DomainEvents()

		case action.Equal(valueobject.TicketActionReject):
			ticket, err = ticket.Reject(req.Actor.ID, req.Note, now)
			if err != nil {
				return fmt.Errorf("reject ticket: %w", err)
			}
			// Rejecting an activation request also terminates the draft.
			if ticket.RequestType().Equal(valueobject.RequestTypeActivate) {
				contract, err := repos.Contracts().FindByID(ctx, ticket.TargetID())
				if err != nil {
					return fmt.Errorf("find target contract: %w", err)
				}
				contract, err = contract.RejectActivation(req.Actor.ID, now)
				if err != nil {
					return fmt.Errorf("reject activation: %w", err)
				}
				if err := repos.Contracts().Update(ctx, contract); err != nil {
					return fmt.Errorf("update contract: %w", err)
				}
				pending = contract.DomainEvents()
			}
		}

		if err := repos.Tickets().Update(ctx, ticket); err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}
		pending = append(pending, ticket.DomainEvents()...)
		return repos.Outbox().Store(ctx, outboxEntries(pending))
	})
	if err != nil {
		return dto.TicketResponse{}, err
	}

	uc.notifier.NotifyUser(ctx, ticket.RequestedBy(), port.SeverityInfo,
		fmt.Sprintf("Ticket %s", ticket.Status()),
		fmt.Sprintf("your %s request for %s %s was %s",
			ticket.RequestType(), ticket.TargetType(), ticket.TargetID(), ticket.Status()))

	uc.audit.Record(ctx, req.Actor, "TICKET_"+action.String(),
		fmt.Sprintf("resolved %s ticket %s as %s",
			ticket.RequestType(), ticket.ID(), ticket.Status()),
		"modification_ticket", ticket.ID())

	return dto.NewTicketResponse(ticket), nil
}

// applyApproval dispatches the approved change onto the target contract and
// persists it. Every request type is handled explicitly; types that have no
// meaning for a contract target are rejected.
func (uc *ProcessTicketUseCase) applyApproval(
	ctx context.Context,
	repos port.TxRepositories,
	ticket model.ModificationTicket,
	actor model.Actor,
	now time.Time,
) (model.Contract, error) {
	contract, err := repos.Contracts().FindByID(ctx, ticket.TargetID())
	if err != nil {
		return model.Contract{}, fmt.Errorf("find target contract: %w", err)
	}

	switch {
	case ticket.RequestType().Equal(valueobject.RequestTypeActivate):
		contract, err = contract.Activate(service.NewContractNumber(now), actor.ID, now)

	case ticket.RequestType().Equal(valueobject.RequestTypeVoid):
		contract, err = contract.Void(ticket.Reason(), actor.ID, now)

	case ticket.RequestType().Equal(valueobject.RequestTypeUpdate):
		var correction dto.ContractCorrection
		if jsonErr := json.Unmarshal(ticket.ProposedData(), &correction); jsonErr != nil {
			return model.Contract{}, apperror.Validation(
				"ticket %s carries malformed proposed data: %v", ticket.ID(), jsonErr)
		}
		contract, err = contract.CorrectClient(correction.ClientID, correction.ClientName, now)

	case ticket.RequestType().Equal(valueobject.RequestTypeCreate),
		ticket.RequestType().Equal(valueobject.RequestTypeDelete):
		return model.Contract{}, apperror.Validation(
			"request type %s is not applicable to a contract target", ticket.RequestType())

	default:
		return model.Contract{}, apperror.Validation(
			"unknown request type %s", ticket.RequestType())
	}
	if err != nil {
		return model.Contract{}, fmt.Errorf("apply %s: %w", ticket.RequestType(), err)
	}

	if err := repos.Contracts().Update(ctx, contract); err != nil {
		return model.Contract{}, fmt.Errorf("update contract: %w", err)
	}
	return contract, nil
}
