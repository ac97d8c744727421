package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/application/usecase"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

func TestCreateTicket_Execute(t *testing.T) {
	// The target is read inside the same transaction that inserts the ticket,
	// so the contract lookup is configured on the unit of work.
	ticketUOW := func() *mockUnitOfWork {
		uow := newMockUnitOfWork()
		uow.contracts.findByIDFunc = func(_ context.Context, id string) (model.Contract, error) {
			return testContract(id, valueobject.ContractStatusPendingActivation), nil
		}
		return uow
	}

	t.Run("opens a pending activation ticket and notifies checkers", func(t *testing.T) {
		uow := ticketUOW()
		notifier := &mockNotificationDispatcher{}
		audit := &mockAuditRecorder{}
		uc := usecase.NewCreateTicketUseCase(uow, notifier, audit)

		resp, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       staffActor(),
			TargetType:  "contract",
			TargetID:    "contract-001",
			RequestType: "ACTIVATE",
			Reason:      "documents verified",
		})

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "ACTIVATE", resp.RequestType)
		assert.Equal(t, "staff-001", resp.RequestedBy)
		assert.NotEmpty(t, resp.OriginalData, "target snapshot must travel on the ticket")

		require.Len(t, uow.tickets.savedTickets, 1)
		assert.NotEmpty(t, uow.outbox.storedEntries)
		require.Len(t, notifier.roleNotes, 1)
		assert.Equal(t, model.RoleApprover, notifier.roleNotes[0].recipient)
		require.Len(t, audit.records, 1)
		assert.Equal(t, "TICKET_CREATE", audit.records[0].actionType)
	})

	t.Run("carries the proposed correction on an update ticket", func(t *testing.T) {
		uow := ticketUOW()
		uc := usecase.NewCreateTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		name := "Budi Santoso Jr"
		proposed, err := json.Marshal(dto.ContractCorrection{ClientName: &name})
		require.NoError(t, err)

		resp, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:        staffActor(),
			TargetType:   "contract",
			TargetID:     "contract-001",
			RequestType:  "UPDATE",
			ProposedData: proposed,
			Reason:       "client name misspelled",
		})

		require.NoError(t, err)
		assert.JSONEq(t, string(proposed), string(resp.ProposedData))
	})

	t.Run("surfaces the duplicate pending ticket constraint", func(t *testing.T) {
		uow := ticketUOW()
		uow.tickets.saveFunc = func(_ context.Context, _ model.ModificationTicket) error {
			return apperror.Conflict("a pending ticket already exists for target contract-001")
		}
		notifier := &mockNotificationDispatcher{}
		uc := usecase.NewCreateTicketUseCase(uow, notifier, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       staffActor(),
			TargetType:  "contract",
			TargetID:    "contract-001",
			RequestType: "VOID",
			Reason:      "data entry error",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Empty(t, notifier.roleNotes)
	})

	t.Run("rejects an unknown request type", func(t *testing.T) {
		uc := usecase.NewCreateTicketUseCase(ticketUOW(), &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       staffActor(),
			TargetType:  "contract",
			TargetID:    "contract-001",
			RequestType: "ESCALATE",
			Reason:      "x",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("rejects an unsupported target type", func(t *testing.T) {
		uc := usecase.NewCreateTicketUseCase(ticketUOW(), &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       staffActor(),
			TargetType:  "client",
			TargetID:    "client-001",
			RequestType: "UPDATE",
			Reason:      "x",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("rejects a missing target contract", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uow.contracts.findByIDFunc = func(_ context.Context, id string) (model.Contract, error) {
			return model.Contract{}, apperror.NotFound("contract %s not found", id)
		}
		uc := usecase.NewCreateTicketUseCase(uow, &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       staffActor(),
			TargetType:  "contract",
			TargetID:    "missing",
			RequestType: "VOID",
			Reason:      "x",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		assert.Empty(t, uow.tickets.savedTickets, "no ticket row without its snapshot")
	})

	t.Run("rejects a client actor as maker", func(t *testing.T) {
		uc := usecase.NewCreateTicketUseCase(ticketUOW(), &mockNotificationDispatcher{}, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.CreateTicketRequest{
			Actor:       clientActor("client-001"),
			TargetType:  "contract",
			TargetID:    "contract-001",
			RequestType: "VOID",
			Reason:      "x",
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	})
}
