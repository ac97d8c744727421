package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/port"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
	"github.com/naufallariff/credia-system/pkg/events"
)

// --- Mock implementations ---

type mockContractRepository struct {
	saveFunc             func(ctx context.Context, c model.Contract) error
	updateFunc           func(ctx context.Context, c model.Contract) error
	findByIDFunc         func(ctx context.Context, id string) (model.Contract, error)
	streamByStatusFunc   func(ctx context.Context, status valueobject.ContractStatus, fn func(model.Contract) error) error
	savedContracts       []model.Contract
	updatedContracts     []model.Contract
}

func (m *mockContractRepository) Save(ctx context.Context, c model.Contract) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.savedContracts = append(m.savedContracts, c)
	return nil
}

func (m *mockContractRepository) Update(ctx context.Context, c model.Contract) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	m.updatedContracts = append(m.updatedContracts, c)
	return nil
}

func (m *mockContractRepository) FindByID(ctx context.Context, id string) (model.Contract, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Contract{}, fmt.Errorf("contract not found")
}

func (m *mockContractRepository) FindBySubmissionID(_ context.Context, _ string) (model.Contract, error) {
	return model.Contract{}, fmt.Errorf("contract not found")
}

func (m *mockContractRepository) StreamByStatus(ctx context.Context, status valueobject.ContractStatus, fn func(model.Contract) error) error {
	if m.streamByStatusFunc != nil {
		return m.streamByStatusFunc(ctx, status, fn)
	}
	return nil
}

type mockTransactionRepository struct {
	saveFunc          func(ctx context.Context, t model.Transaction) error
	findByContractID  func(ctx context.Context, contractID string) ([]model.Transaction, error)
	savedTransactions []model.Transaction
}

func (m *mockTransactionRepository) Save(ctx context.Context, t model.Transaction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, t)
	}
	m.savedTransactions = append(m.savedTransactions, t)
	return nil
}

func (m *mockTransactionRepository) FindByContractID(ctx context.Context, contractID string) ([]model.Transaction, error) {
	if m.findByContractID != nil {
		return m.findByContractID(ctx, contractID)
	}
	return nil, nil
}

type mockTicketRepository struct {
	saveFunc       func(ctx context.Context, t model.ModificationTicket) error
	updateFunc     func(ctx context.Context, t model.ModificationTicket) error
	findByIDFunc   func(ctx context.Context, id string) (model.ModificationTicket, error)
	savedTickets   []model.ModificationTicket
	updatedTickets []model.ModificationTicket
}

func (m *mockTicketRepository) Save(ctx context.Context, t model.ModificationTicket) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, t)
	}
	m.savedTickets = append(m.savedTickets, t)
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t model.ModificationTicket) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, t)
	}
	m.updatedTickets = append(m.updatedTickets, t)
	return nil
}

func (m *mockTicketRepository) FindByID(ctx context.Context, id string) (model.ModificationTicket, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.ModificationTicket{}, fmt.Errorf("ticket not found")
}

type mockRuleRepository struct {
	getRulesFunc func(ctx context.Context) (model.RuleConfiguration, error)
}

func (m *mockRuleRepository) GetRules(ctx context.Context) (model.RuleConfiguration, error) {
	if m.getRulesFunc != nil {
		return m.getRulesFunc(ctx)
	}
	return defaultRules(), nil
}

type mockClientDirectory struct {
	findClientFunc func(ctx context.Context, id string) (model.ClientSnapshot, error)
}

func (m *mockClientDirectory) FindClient(ctx context.Context, id string) (model.ClientSnapshot, error) {
	if m.findClientFunc != nil {
		return m.findClientFunc(ctx, id)
	}
	return model.ClientSnapshot{ID: id, Name: "Budi Santoso", Role: model.RoleClient, Status: "active"}, nil
}

type mockOutboxRepository struct {
	storeFunc     func(ctx context.Context, entries []events.OutboxEntry) error
	storedEntries []events.OutboxEntry
}

func (m *mockOutboxRepository) Store(ctx context.Context, entries []events.OutboxEntry) error {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, entries)
	}
	m.storedEntries = append(m.storedEntries, entries...)
	return nil
}

func (m *mockOutboxRepository) FetchUnpublished(_ context.Context, _ int) ([]events.OutboxEntry, error) {
	return nil, nil
}

func (m *mockOutboxRepository) MarkPublished(_ context.Context, _ []string) error {
	return nil
}

// mockUnitOfWork hands the registered mock repositories to the callback. No
// real transaction semantics: the callback's error is simply passed through.
type mockUnitOfWork struct {
	contracts    *mockContractRepository
	transactions *mockTransactionRepository
	tickets      *mockTicketRepository
	outbox       *mockOutboxRepository
	doErr        error
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		contracts:    &mockContractRepository{},
		transactions: &mockTransactionRepository{},
		tickets:      &mockTicketRepository{},
		outbox:       &mockOutboxRepository{},
	}
}

func (m *mockUnitOfWork) Do(_ context.Context, fn func(repos port.TxRepositories) error) error {
	if m.doErr != nil {
		return m.doErr
	}
	return fn(m)
}

func (m *mockUnitOfWork) Contracts() port.ContractRepository       { return m.contracts }
func (m *mockUnitOfWork) Transactions() port.TransactionRepository { return m.transactions }
func (m *mockUnitOfWork) Tickets() port.TicketRepository           { return m.tickets }
func (m *mockUnitOfWork) Outbox() events.OutboxRepository          { return m.outbox }

type auditRecord struct {
	actor       model.Actor
	actionType  string
	description string
	targetModel string
	targetID    string
}

type mockAuditRecorder struct {
	records []auditRecord
}

func (m *mockAuditRecorder) Record(_ context.Context, actor model.Actor, actionType, description, targetModel, targetID string) {
	m.records = append(m.records, auditRecord{actor, actionType, description, targetModel, targetID})
}

type notification struct {
	recipient string
	severity  string
	title     string
	message   string
}

type mockNotificationDispatcher struct {
	roleNotes []notification
	userNotes []notification
}

func (m *mockNotificationDispatcher) NotifyRole(_ context.Context, role, severity, title, message string) {
	m.roleNotes = append(m.roleNotes, notification{role, severity, title, message})
}

func (m *mockNotificationDispatcher) NotifyUser(_ context.Context, userID, severity, title, message string) {
	m.userNotes = append(m.userNotes, notification{userID, severity, title, message})
}

// --- Fixtures ---

func defaultRules() model.RuleConfiguration {
	return model.RuleConfiguration{
		MinDownPaymentPercent: decimal.NewFromInt(20),
		Tiers: []model.InterestTier{
			{MinPrice: decimal.Zero, MaxPrice: decimal.NewFromInt(30_000_000), RatePercent: decimal.NewFromInt(15)},
			{MinPrice: decimal.NewFromInt(30_000_001), MaxPrice: decimal.NewFromInt(100_000_000), RatePercent: decimal.NewFromInt(12)},
		},
	}
}

func staffActor() model.Actor {
	return model.Actor{ID: "staff-001", Name: "Siti Rahma", Role: model.RoleStaff}
}

func approverActor() model.Actor {
	return model.Actor{ID: "approver-001", Name: "Andi Wijaya", Role: model.RoleApprover}
}

func clientActor(id string) model.Actor {
	return model.Actor{ID: id, Name: "Budi Santoso", Role: model.RoleClient}
}

// testContract builds a contract fixture in the given status: three monthly
// lines of 1,000,000 each, first one due a month from now.
func testContract(id string, status valueobject.ContractStatus) model.Contract {
	now := time.Now().UTC()
	monthly := decimal.NewFromInt(1_000_000)
	lines := make([]model.AmortizationLine, 0, 3)
	for i := 1; i <= 3; i++ {
		lines = append(lines, model.AmortizationLine{
			Month:       i,
			DueDate:     model.TruncateToDay(now.AddDate(0, i, 0)),
			Amount:      monthly,
			Status:      valueobject.InstallmentStatusUnpaid,
			PenaltyPaid: decimal.Zero,
		})
	}
	contractNo := ""
	if status.Equal(valueobject.ContractStatusActive) {
		contractNo = "CTR-20260801-AB12CD"
	}
	return model.ReconstructContract(
		id, "SUB-20260801-FF00AA", contractNo,
		"client-001", "Budi Santoso", "staff-001", "",
		decimal.NewFromInt(3_500_000), decimal.NewFromInt(700_000),
		decimal.NewFromInt(2_800_000), decimal.NewFromInt(12),
		3,
		monthly, decimal.NewFromInt(3_000_000), decimal.NewFromInt(3_000_000), decimal.Zero,
		status,
		lines,
		"", 1, now, now,
	)
}
