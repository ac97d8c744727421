package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/application/usecase"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

func pendingTicket(t *testing.T, requestType valueobject.RequestType, proposed json.RawMessage) model.ModificationTicket {
	t.Helper()
	ticket, err := model.NewModificationTicket(
		"staff-001", model.TargetTypeContract, "contract-001",
		requestType, json.RawMessage(`{}`), proposed, "routine review",
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return ticket.ClearEvents()
}

func wireTicket(uow *mockUnitOfWork, ticket model.ModificationTicket, contract model.Contract) {
	uow.tickets.findByIDFunc = func(_ context.Context, _ string) (model.ModificationTicket, error) {
		return ticket, nil
	}
	uow.contracts.findByIDFunc = func(_ context.Context, _ string) (model.Contract, error) {
		return contract, nil
	}
}

func TestProcessTicket_Execute(t *testing.T) {
	t.Run("approving an activation ticket activates the contract", func(t *testing.T) {
		uow := newMockUnitOfWork()
		notifier := &mockNotificationDispatcher{}
		audit := &mockAuditRecorder{}
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeActivate, nil),
			testContract("contract-001", valueobject.ContractStatusPendingActivation))
		uc := usecase.NewProcessTicketUseCase(uow, notifier, audit)

		resp, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
			Note:     "all documents in order",
		})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "approver-001", resp.ApprovedBy)
		require.NotNil(t, resp.ProcessedAt)

		require.Len(t, uow.contracts.updatedContracts, 1)
		activated := uow.contracts.updatedContracts[0]
		assert.Equal(t, "ACTIVE", activated.Status().String())
		assert.NotEmpty(t, activated.ContractNo())
		assert.Equal(t, "approver-001", activated.ApprovedBy())

		require.Len(t, uow.tickets.updatedTickets, 1)
		assert.NotEmpty(t, uow.outbox.storedEntries)
		require.Len(t, notifier.userNotes, 1)
		assert.Equal(t, "staff-001", notifier.userNotes[0].recipient)
		require.Len(t, audit.records, 1)
		assert.Equal(t, "TICKET_APPROVE", audit.records[0].actionType)
	})

	t.Run("rejecting an activation ticket rejects the draft", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeActivate, nil),
			testContract("contract-001", valueobject.ContractStatusPendingActivation))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		resp, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "REJECT",
			Note:     "income proof missing",
		})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		require.Len(t, uow.contracts.updatedContracts, 1)
		assert.Equal(t, "REJECTED", uow.contracts.updatedContracts[0].Status().String())
	})

	t.Run("approving a void ticket voids the contract with the reason", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeVoid, nil),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.NoError(t, err)
		require.Len(t, uow.contracts.updatedContracts, 1)
		voided := uow.contracts.updatedContracts[0]
		assert.Equal(t, "VOID", voided.Status().String())
		assert.Equal(t, "routine review", voided.VoidReason())
	})

	t.Run("approving an update ticket merges the correction", func(t *testing.T) {
		name := "Budi Santoso Jr"
		proposed, err := json.Marshal(dto.ContractCorrection{ClientName: &name})
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeUpdate, proposed),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err = uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.NoError(t, err)
		require.Len(t, uow.contracts.updatedContracts, 1)
		corrected := uow.contracts.updatedContracts[0]
		assert.Equal(t, "Budi Santoso Jr", corrected.ClientName())
		assert.Equal(t, "client-001", corrected.ClientID(), "unset fields stay untouched")
	})

	t.Run("rejecting a void ticket leaves the contract alone", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeVoid, nil),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		resp, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "REJECT",
			Note:     "void not justified",
		})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Empty(t, uow.contracts.updatedContracts)
	})

	t.Run("refuses resolution by the ticket's own requester", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeVoid, nil),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		// The requester staff-001 now wears the approver role.
		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    model.Actor{ID: "staff-001", Name: "Siti Rahma", Role: model.RoleApprover},
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
		assert.Empty(t, uow.tickets.updatedTickets)
	})

	t.Run("refuses a non-checker role", func(t *testing.T) {
		uc := usecase.NewProcessTicketUseCase(newMockUnitOfWork(), &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    staffActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	})

	t.Run("refuses an unknown action", func(t *testing.T) {
		uc := usecase.NewProcessTicketUseCase(newMockUnitOfWork(), &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "DEFER",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("refuses to resolve an already resolved ticket", func(t *testing.T) {
		resolved, err := pendingTicket(t, valueobject.RequestTypeVoid, nil).
			Approve("approver-002", "done", time.Now().UTC())
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		wireTicket(uow, resolved.ClearEvents(), testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err = uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("refuses request types that do not apply to contracts", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeDelete, nil),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Empty(t, uow.contracts.updatedContracts)
	})

	t.Run("refuses malformed proposed data on an update ticket", func(t *testing.T) {
		uow := newMockUnitOfWork()
		wireTicket(uow,
			pendingTicket(t, valueobject.RequestTypeUpdate, json.RawMessage(`{broken`)),
			testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewProcessTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.ProcessTicketRequest{
			Actor:    approverActor(),
			TicketID: "ticket-001",
			Action:   "APPROVE",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}
