package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/port"
	"github.com/naufallariff/credia-system/internal/domain/service"
)

// SettlePaymentUseCase applies an installment payment: the contract update
// and the ledger insert commit together or not at all.
type SettlePaymentUseCase struct {
	uow   port.UnitOfWork
	audit port.AuditRecorder
}

// NewSettlePaymentUseCase wires dependencies.
func NewSettlePaymentUseCase(uow port.UnitOfWork, audit port.AuditRecorder) *SettlePaymentUseCase {
	return &SettlePaymentUseCase{uow: uow, audit: audit}
}

// Execute settles one installment month on a contract. The tendered amount
// must cover the scheduled amount plus any accrued penalty; overpayment is
// accepted and recorded as tendered.
func (uc *SettlePaymentUseCase) Execute(
	ctx context.Context,
	req dto.SettlePaymentRequest,
) (dto.SettlementResponse, error) {
	now := time.Now().UTC()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return dto.SettlementResponse{}, apperror.Validation(
			"payment amount must be positive, got %s", req.Amount)
	}

	var (
		contract   model.Contract
		settlement model.Settlement
		txn        model.Transaction
	)
	err := uc.uow.Do(ctx, func(repos port.TxRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByID(ctx, req.ContractID)
		if err != nil {
			return fmt.Errorf("find contract: %w", err)
		}

		// A client may only pay into their own contract.
		if req.Actor.IsClient() && contract.ClientID() != req.Actor.ID {
			return apperror.Authorization(
				"client %s does not own contract %s", req.Actor.ID, req.ContractID)
		}

		contract, settlement, err = contract.SettleInstallment(req.InstallmentMonth, req.Amount, now)
		if err != nil {
			return fmt.Errorf("settle installment: %w", err)
		}

		txn = model.NewTransaction(
			service.NewTransactionNumber(now),
			contract.ID(), settlement.Month,
			settlement.Tendered, settlement.Penalty,
			req.Actor.ID, now,
		)

		if err := repos.Contracts().Update(ctx, contract); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		if err := repos.Transactions().Save(ctx, txn); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}
		return repos.Outbox().Store(ctx, outboxEntries(contract.DomainEvents()))
	})
	if err != nil {
		return dto.SettlementResponse{}, err
	}

	uc.audit.Record(ctx, req.Actor, "PAYMENT_SETTLE",
		fmt.Sprintf("settled month %d of contract %s with %s (penalty %s)",
			settlement.Month, contract.ID(), settlement.Tendered, settlement.Penalty),
		"contract", contract.ID())

	return dto.SettlementResponse{
		ContractID:       contract.ID(),
		TransactionNo:    txn.TransactionNo,
		InstallmentMonth: settlement.Month,
		AmountDue:        settlement.AmountDue,
		Penalty:          settlement.Penalty,
		DaysLate:         settlement.DaysLate,
		AmountPaid:       settlement.Tendered,
		RemainingLoan:    contract.RemainingLoan(),
		ContractStatus:   contract.Status().String(),
	}, nil
}
