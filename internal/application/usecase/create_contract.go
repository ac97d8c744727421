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
	"github.com/naufallariff/credia-system/pkg/events"
)

// defaultRatePercent applies when no interest tier covers the OTR price.
var defaultRatePercent = decimal.NewFromInt(10)

// CreateContractUseCase drafts a new contract in PENDING_ACTIVATION with a
// fully generated amortization schedule. Activation is a separate
// maker-checker step.
type CreateContractUseCase struct {
	clients port.ClientDirectory
	rules   port.RuleRepository
	uow     port.UnitOfWork
	audit   port.AuditRecorder
}

// NewCreateContractUseCase wires dependencies.
func NewCreateContractUseCase(
	clients port.ClientDirectory,
	rules port.RuleRepository,
	uow port.UnitOfWork,
	audit port.AuditRecorder,
) *CreateContractUseCase {
	return &CreateContractUseCase{
		clients: clients,
		rules:   rules,
		uow:     uow,
		audit:   audit,
	}
}

// Execute validates the request against the rule configuration, resolves the
// client snapshot, and persists the draft atomically with its outbox events.
func (uc *CreateContractUseCase) Execute(
	ctx context.Context,
	req dto.CreateContractRequest,
) (dto.ContractResponse, error) {
	now := time.Now().UTC()

	// 1. Drafting is a maker operation.
	if req.Actor.IsClient() {
		return dto.ContractResponse{}, apperror.Authorization("clients cannot draft contracts")
	}

	// 2. Resolve and verify the client reference.
	client, err := uc.clients.FindClient(ctx, req.ClientID)
	if err != nil {
		return dto.ContractResponse{}, fmt.Errorf("find client: %w", err)
	}
	if !client.IsActiveClient() {
		return dto.ContractResponse{}, apperror.Validation(
			"client %s is not an active client account", req.ClientID)
	}

	// 3. Load the rule configuration. Absence fails the whole operation.
	rules, err := uc.rules.GetRules(ctx)
	if err != nil {
		return dto.ContractResponse{}, fmt.Errorf("load rules: %w", err)
	}

	// 4. Enforce the minimum down payment.
	minDP := rules.MinimumDownPayment(req.OTRPrice)
	if req.DPAmount.LessThan(minDP) {
		return dto.ContractResponse{}, apperror.Validation(
			"down payment %s is below the minimum %s for OTR price %s",
			req.DPAmount, minDP, req.OTRPrice)
	}

	// 5. Resolve the interest rate from the tier table.
	rate, matched := rules.RateForPrice(req.OTRPrice)
	if !matched {
		rate = defaultRatePercent
	}

	// 6. Build the aggregate. Schedule generation and remaining input
	//    validation live in the model.
	submissionID := service.NewSubmissionID(now)
	contract, err := model.NewContract(
		submissionID, client.ID, client.Name, req.Actor.ID,
		req.OTRPrice, req.DPAmount, rate,
		req.DurationMonths, req.StartDate, now,
	)
	if err != nil {
		return dto.ContractResponse{}, fmt.Errorf("create contract: %w", err)
	}

	// 7. Persist contract and outbox entries in one transaction.
	err = uc.uow.Do(ctx, func(repos port.TxRepositories) error {
		if err := repos.Contracts().Save(ctx, contract); err != nil {
			return fmt.Errorf("save contract: %w", err)
		}
		return repos.Outbox().Store(ctx, outboxEntries(contract.DomainEvents()))
	})
	if err != nil {
		return dto.ContractResponse{}, err
	}

	uc.audit.Record(ctx, req.Actor, "CONTRACT_CREATE",
		fmt.Sprintf("drafted contract %s for client %s", submissionID, client.ID),
		"contract", contract.ID())

	return dto.NewContractResponse(contract, nil, now), nil
}

func outboxEntries(evts []events.DomainEvent) []events.OutboxEntry {
	entries := make([]events.OutboxEntry, 0, len(evts))
	for _, evt := range evts {
		entries = append(entries, events.NewOutboxEntry(evt))
	}
	return entries
}
