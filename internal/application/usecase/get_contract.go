package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/naufallariff/credia-system/internal/application/dto"
	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/port"
)

// GetContractUseCase retrieves one contract with its schedule, running
// penalties, and payment ledger.
type GetContractUseCase struct {
	contracts    port.ContractRepository
	transactions port.TransactionRepository
}

// NewGetContractUseCase wires dependencies.
func NewGetContractUseCase(
	contracts port.ContractRepository,
	transactions port.TransactionRepository,
) *GetContractUseCase {
	return &GetContractUseCase{contracts: contracts, transactions: transactions}
}

// Execute loads a contract. Callers with the client role may only read their
// own contracts. Per-line penalties are computed at read time and never
// persisted.
func (uc *GetContractUseCase) Execute(
	ctx context.Context,
	req dto.GetContractRequest,
) (dto.ContractResponse, error) {
	now := time.Now().UTC()

	contract, err := uc.contracts.FindByID(ctx, req.ContractID)
	if err != nil {
		return dto.ContractResponse{}, fmt.Errorf("find contract: %w", err)
	}

	if req.Actor.IsClient() && contract.ClientID() != req.Actor.ID {
		return dto.ContractResponse{}, apperror.Authorization(
			"client %s does not own contract %s", req.Actor.ID, req.ContractID)
	}

	txns, err := uc.transactions.FindByContractID(ctx, req.ContractID)
	if err != nil {
		return dto.ContractResponse{}, fmt.Errorf("list transactions: %w", err)
	}

	return dto.NewContractResponse(contract, txns, now), nil
}
