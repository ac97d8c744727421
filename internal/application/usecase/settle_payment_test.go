package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/application/usecase"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

func TestSettlePayment_Execute(t *testing.T) {
	monthly := decimal.NewFromInt(1_000_000)

	settleOn := func(uow *mockUnitOfWork, c model.Contract) {
		uow.contracts.findByIDFunc = func(_ context.Context, _ string) (model.Contract, error) {
			return c, nil
		}
	}

	t.Run("settles an on-time installment", func(t *testing.T) {
		uow := newMockUnitOfWork()
		audit := &mockAuditRecorder{}
		settleOn(uow, testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewSettlePaymentUseCase(uow, audit)

		resp, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 1,
			Amount:           monthly,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.InstallmentMonth)
		assert.True(t, decimal.Zero.Equal(resp.Penalty))
		assert.Equal(t, 0, resp.DaysLate)
		assert.True(t, decimal.NewFromInt(2_000_000).Equal(resp.RemainingLoan), "remaining %s", resp.RemainingLoan)
		assert.Equal(t, "ACTIVE", resp.ContractStatus)
		assert.NotEmpty(t, resp.TransactionNo)

		require.Len(t, uow.contracts.updatedContracts, 1)
		require.Len(t, uow.transactions.savedTransactions, 1)
		txn := uow.transactions.savedTransactions[0]
		assert.Equal(t, "contract-001", txn.ContractID)
		assert.Equal(t, "staff-001", txn.ProcessedBy)
		assert.True(t, monthly.Equal(txn.AmountPaid))
		assert.NotEmpty(t, uow.outbox.storedEntries)
		require.Len(t, audit.records, 1)
		assert.Equal(t, "PAYMENT_SETTLE", audit.records[0].actionType)
	})

	t.Run("charges a penalty on a late installment", func(t *testing.T) {
		// Line 1 fell due ten days ago: penalty 1,000,000 * 0.005 * 10.
		now := time.Now().UTC()
		contract := testContract("contract-001", valueobject.ContractStatusActive)
		lines := contract.Schedule()
		lines[0].DueDate = model.TruncateToDay(now.AddDate(0, 0, -10))
		lines[0].Status = valueobject.InstallmentStatusLate
		contract = model.ReconstructContract(
			contract.ID(), contract.SubmissionID(), contract.ContractNo(),
			contract.ClientID(), contract.ClientName(), contract.CreatedBy(), contract.ApprovedBy(),
			contract.OTRPrice(), contract.DPAmount(), contract.Principal(), contract.InterestRate(),
			contract.DurationMonths(),
			contract.MonthlyInstallment(), contract.TotalLoan(), contract.RemainingLoan(), contract.TotalPaid(),
			contract.Status(), lines, contract.VoidReason(), contract.Version(),
			contract.CreatedAt(), contract.UpdatedAt(),
		)

		uow := newMockUnitOfWork()
		settleOn(uow, contract)
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		expectedPenalty := decimal.NewFromInt(50_000)

		t.Run("rejects payment of the bare amount", func(t *testing.T) {
			_, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
				Actor:            staffActor(),
				ContractID:       "contract-001",
				InstallmentMonth: 1,
				Amount:           monthly,
			})
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		})

		t.Run("accepts amount plus penalty", func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
				Actor:            staffActor(),
				ContractID:       "contract-001",
				InstallmentMonth: 1,
				Amount:           monthly.Add(expectedPenalty),
			})
			require.NoError(t, err)
			assert.True(t, expectedPenalty.Equal(resp.Penalty), "penalty %s", resp.Penalty)
			assert.Equal(t, 10, resp.DaysLate)
			// Penalty never reduces the remaining loan.
			assert.True(t, decimal.NewFromInt(2_000_000).Equal(resp.RemainingLoan))
		})
	})

	t.Run("closes the contract on the final installment", func(t *testing.T) {
		now := time.Now().UTC()
		contract := testContract("contract-001", valueobject.ContractStatusActive)
		lines := contract.Schedule()
		paidAt := now.AddDate(0, -1, 0)
		for i := 0; i < 2; i++ {
			lines[i].Status = valueobject.InstallmentStatusPaid
			lines[i].PaidAt = &paidAt
		}
		contract = model.ReconstructContract(
			contract.ID(), contract.SubmissionID(), contract.ContractNo(),
			contract.ClientID(), contract.ClientName(), contract.CreatedBy(), contract.ApprovedBy(),
			contract.OTRPrice(), contract.DPAmount(), contract.Principal(), contract.InterestRate(),
			contract.DurationMonths(),
			contract.MonthlyInstallment(), contract.TotalLoan(), monthly, decimal.NewFromInt(2_000_000),
			contract.Status(), lines, contract.VoidReason(), contract.Version(),
			contract.CreatedAt(), contract.UpdatedAt(),
		)

		uow := newMockUnitOfWork()
		settleOn(uow, contract)
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		resp, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 3,
			Amount:           monthly,
		})

		require.NoError(t, err)
		assert.Equal(t, "CLOSED", resp.ContractStatus)
		assert.True(t, decimal.Zero.Equal(resp.RemainingLoan))
	})

	t.Run("rejects paying an already settled month", func(t *testing.T) {
		contract := testContract("contract-001", valueobject.ContractStatusActive)
		settled, _, err := contract.SettleInstallment(1, monthly, time.Now().UTC())
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		settleOn(uow, settled.ClearEvents())
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		_, err = uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 1,
			Amount:           monthly,
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Empty(t, uow.transactions.savedTransactions)
	})

	t.Run("rejects payment into a pending contract", func(t *testing.T) {
		uow := newMockUnitOfWork()
		settleOn(uow, testContract("contract-001", valueobject.ContractStatusPendingActivation))
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 1,
			Amount:           monthly,
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("rejects an unknown installment month", func(t *testing.T) {
		uow := newMockUnitOfWork()
		settleOn(uow, testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 99,
			Amount:           monthly,
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		uc := usecase.NewSettlePaymentUseCase(newMockUnitOfWork(), &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            staffActor(),
			ContractID:       "contract-001",
			InstallmentMonth: 1,
			Amount:           decimal.Zero,
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("rejects a client paying another client's contract", func(t *testing.T) {
		uow := newMockUnitOfWork()
		settleOn(uow, testContract("contract-001", valueobject.ContractStatusActive))
		uc := usecase.NewSettlePaymentUseCase(uow, &mockAuditRecorder{})

		_, err := uc.Execute(context.Background(), dto.SettlePaymentRequest{
			Actor:            clientActor("client-999"),
			ContractID:       "contract-001",
			InstallmentMonth: 1,
			Amount:           monthly,
		})

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	})
}
