package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

func draftContract(t *testing.T) model.Contract {
	t.Helper()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	c, err := model.NewContract(
		"SUB-20260801-0000AA", "client-001", "Budi Santoso", "staff-001",
		decimal.NewFromInt(50_000_000), decimal.NewFromInt(10_000_000),
		decimal.NewFromInt(12), 12,
		now, now,
	)
	require.NoError(t, err)
	return c
}

func activeContract(t *testing.T) model.Contract {
	t.Helper()
	now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	c, err := draftContract(t).Activate("CTR-20260802-0000AA", "approver-001", now)
	require.NoError(t, err)
	return c.ClearEvents()
}

func TestNewContract(t *testing.T) {
	t.Run("creates a pending draft with a full schedule", func(t *testing.T) {
		c := draftContract(t)

		assert.True(t, c.Status().Equal(valueobject.ContractStatusPendingActivation))
		assert.Empty(t, c.ContractNo(), "no contract number before activation")
		assert.True(t, c.Principal().Equal(decimal.NewFromInt(40_000_000)))
		assert.True(t, c.TotalLoan().Equal(decimal.NewFromInt(44_800_000)))
		assert.True(t, c.RemainingLoan().Equal(c.TotalLoan()))
		assert.True(t, c.TotalPaid().IsZero())
		assert.Len(t, c.Schedule(), 12)
		assert.Equal(t, 1, c.Version())
		require.Len(t, c.DomainEvents(), 1)
		assert.Equal(t, "credia.contract.created", c.DomainEvents()[0].EventType())
	})

	t.Run("rejects a down payment at or above the price", func(t *testing.T) {
		now := time.Now().UTC()
		_, err := model.NewContract(
			"SUB-20260801-0000AB", "client-001", "Budi Santoso", "staff-001",
			decimal.NewFromInt(50_000_000), decimal.NewFromInt(50_000_000),
			decimal.NewFromInt(12), 12, now, now,
		)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}

func TestContract_Activate(t *testing.T) {
	t.Run("assigns the contract number and approver", func(t *testing.T) {
		draft := draftContract(t)
		now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

		active, err := draft.Activate("CTR-20260802-0000AA", "approver-001", now)

		require.NoError(t, err)
		assert.True(t, active.Status().Equal(valueobject.ContractStatusActive))
		assert.Equal(t, "CTR-20260802-0000AA", active.ContractNo())
		assert.Equal(t, "approver-001", active.ApprovedBy())

		// The original draft is untouched.
		assert.True(t, draft.Status().Equal(valueobject.ContractStatusPendingActivation))
	})

	t.Run("refuses to activate twice", func(t *testing.T) {
		c := activeContract(t)
		_, err := c.Activate("CTR-20260803-0000AB", "approver-001", time.Now().UTC())

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})
}

func TestContract_RejectActivation(t *testing.T) {
	draft := draftContract(t)

	rejected, err := draft.RejectActivation("approver-001", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, rejected.Status().Equal(valueobject.ContractStatusRejected))

	// Terminal: no further transitions.
	_, err = rejected.Activate("CTR-X", "approver-001", time.Now().UTC())
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	_, err = rejected.Void("cleanup", "approver-001", time.Now().UTC())
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestContract_Void(t *testing.T) {
	t.Run("voids an active contract with a reason", func(t *testing.T) {
		c := activeContract(t)

		voided, err := c.Void("fraudulent application", "approver-001", time.Now().UTC())

		require.NoError(t, err)
		assert.True(t, voided.Status().Equal(valueobject.ContractStatusVoid))
		assert.Equal(t, "fraudulent application", voided.VoidReason())
	})

	t.Run("void is terminal", func(t *testing.T) {
		c := activeContract(t)
		voided, err := c.Void("fraudulent application", "approver-001", time.Now().UTC())
		require.NoError(t, err)

		_, err = voided.Void("again", "approver-001", time.Now().UTC())
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		_, _, err = voided.SettleInstallment(1, decimal.NewFromInt(3_734_000), time.Now().UTC())
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})
}

func TestContract_CorrectClient(t *testing.T) {
	c := activeContract(t)
	name := "Budi Santoso bin Ahmad"

	corrected, err := c.CorrectClient(nil, &name, time.Now().UTC())

	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso bin Ahmad", corrected.ClientName())
	assert.Equal(t, c.ClientID(), corrected.ClientID(), "nil leaves the field untouched")
}

func TestContract_SettleInstallment(t *testing.T) {
	t.Run("settles an on-time installment", func(t *testing.T) {
		c := activeContract(t)
		// Due 2026-09-01; pay on the due date.
		payDay := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

		next, settlement, err := c.SettleInstallment(1, decimal.NewFromInt(3_734_000), payDay)

		require.NoError(t, err)
		assert.True(t, settlement.Penalty.IsZero())
		assert.Equal(t, 0, settlement.DaysLate)
		assert.False(t, settlement.Closed)
		assert.True(t, next.RemainingLoan().Equal(decimal.NewFromInt(41_066_000)))
		assert.True(t, next.Schedule()[0].Status.IsSettled())
		assert.NotNil(t, next.Schedule()[0].PaidAt)
	})

	t.Run("late settlement demands the penalty on top", func(t *testing.T) {
		c := activeContract(t)
		// Month 1 due 2026-09-01; pay 10 days late.
		payDay := time.Date(2026, 9, 11, 10, 0, 0, 0, time.UTC)
		penalty := decimal.NewFromInt(186_700) // ceil(3,734,000 * 0.005 * 10)

		_, _, err := c.SettleInstallment(1, decimal.NewFromInt(3_734_000), payDay)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		next, settlement, err := c.SettleInstallment(1, decimal.NewFromInt(3_734_000).Add(penalty), payDay)
		require.NoError(t, err)
		assert.Equal(t, 10, settlement.DaysLate)
		assert.True(t, settlement.Penalty.Equal(penalty))
		assert.True(t, next.Schedule()[0].PenaltyPaid.Equal(penalty))

		// Penalty money never reduces the remaining loan.
		assert.True(t, next.RemainingLoan().Equal(decimal.NewFromInt(41_066_000)))
	})

	t.Run("closes automatically on the final settlement", func(t *testing.T) {
		c := activeContract(t)
		next := c
		var settlement model.Settlement
		var err error
		for month := 1; month <= 12; month++ {
			line := next.Schedule()[month-1]
			next, settlement, err = next.SettleInstallment(month, line.Amount, line.DueDate)
			require.NoError(t, err)
		}

		assert.True(t, settlement.Closed)
		assert.True(t, next.Status().Equal(valueobject.ContractStatusClosed))
		assert.True(t, next.RemainingLoan().IsZero())
	})

	t.Run("closed contracts do not accept payments", func(t *testing.T) {
		c := activeContract(t)
		next := c
		var err error
		for month := 1; month <= 12; month++ {
			line := next.Schedule()[month-1]
			next, _, err = next.SettleInstallment(month, line.Amount, line.DueDate)
			require.NoError(t, err)
		}
		require.True(t, next.Status().Equal(valueobject.ContractStatusClosed))

		_, _, err = next.SettleInstallment(1, decimal.NewFromInt(3_734_000), time.Now().UTC())
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("refuses a second settlement of the same month", func(t *testing.T) {
		c := activeContract(t)
		payDay := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		next, _, err := c.SettleInstallment(1, decimal.NewFromInt(3_734_000), payDay)
		require.NoError(t, err)

		_, _, err = next.SettleInstallment(1, decimal.NewFromInt(3_734_000), payDay)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("unknown month", func(t *testing.T) {
		c := activeContract(t)
		_, _, err := c.SettleInstallment(99, decimal.NewFromInt(3_734_000), time.Now().UTC())
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("pending contracts do not accept payments", func(t *testing.T) {
		c := draftContract(t)
		_, _, err := c.SettleInstallment(1, decimal.NewFromInt(3_734_000), time.Now().UTC())
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})
}

func TestContract_MarkOverdueLines(t *testing.T) {
	c := activeContract(t)
	// Months 1 and 2 due 2026-09-01 and 2026-10-01.
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	marked, changed := c.MarkOverdueLines(today, today)

	assert.Equal(t, 2, changed)
	assert.Equal(t, 2, marked.OverdueLineCount())
	assert.True(t, marked.Schedule()[2].Status.Equal(valueobject.InstallmentStatusUnpaid),
		"month 3 is not yet due")

	// Second pass over the marked contract is a no-op.
	again, changed := marked.MarkOverdueLines(today, today)
	assert.Equal(t, 0, changed)
	assert.Equal(t, 2, again.OverdueLineCount())

	// A LATE line still settles, with the penalty due.
	payDay := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	penalty := decimal.NewFromInt(821_480) // ceil(3,734,000 * 0.005 * 44)
	settled, settlement, err := marked.SettleInstallment(1, decimal.NewFromInt(3_734_000).Add(penalty), payDay)
	require.NoError(t, err)
	assert.Equal(t, 44, settlement.DaysLate)
	assert.Equal(t, 1, settled.OverdueLineCount())
}
