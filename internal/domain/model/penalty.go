package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// penaltyDailyRate is the simple daily surcharge applied to an installment
// paid after its due date: 0.5% of the scheduled amount per day late.
var penaltyDailyRate = decimal.RequireFromString("0.005")

// DaysLate returns the number of whole days the due date lies before the
// reference date, at date-only granularity. Zero when the installment is not
// yet overdue.
func DaysLate(dueDate, today time.Time) int {
	due := TruncateToDay(dueDate)
	ref := TruncateToDay(today)
	if !due.Before(ref) {
		return 0
	}
	return int(ref.Sub(due).Hours() / 24)
}

// PenaltyFor computes the overdue penalty for a scheduled amount:
// ceil(amount * 0.005 * daysLate). Penalty money never reduces the remaining
// loan; it is tracked separately per line.
func PenaltyFor(amountDue decimal.Decimal, dueDate, today time.Time) decimal.Decimal {
	days := DaysLate(dueDate, today)
	if days == 0 {
		return decimal.Zero
	}
	return amountDue.Mul(penaltyDailyRate).Mul(decimal.NewFromInt(int64(days))).Ceil()
}
