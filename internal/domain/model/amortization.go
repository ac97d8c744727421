package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/valueobject"
)

// AmortizationLine is one monthly installment obligation in a contract's
// schedule. Lines are only ever mutated by payment settlement (to PAID) or by
// the overdue reconciliation pass (UNPAID to LATE); they are never deleted.
type AmortizationLine struct {
	Month       int
	DueDate     time.Time
	Amount      decimal.Decimal
	Status      valueobject.InstallmentStatus
	PenaltyPaid decimal.Decimal
	PaidAt      *time.Time
}

// InstallmentSchedule is the output of the amortization calculation.
type InstallmentSchedule struct {
	TotalInterest      decimal.Decimal
	TotalLoan          decimal.Decimal
	MonthlyInstallment decimal.Decimal
	Lines              []AmortizationLine
}

var (
	decimalOne      = decimal.NewFromInt(1)
	decimalThousand = decimal.NewFromInt(1000)
	decimalHundred  = decimal.NewFromInt(100)
	decimalTwelve   = decimal.NewFromInt(12)
)

// NormalizeRate converts a raw interest rate into a decimal factor.
//
// Values strictly greater than 1.0 are read as whole-number percents
// (12 means 12% and becomes 0.12). Values less than or equal to 1.0 are
// already factors, so exactly 1.0 means 100%, not 1%. The boundary is pinned
// by tests; callers that mean 1% must pass 0.01.
func NormalizeRate(raw decimal.Decimal) decimal.Decimal {
	if raw.GreaterThan(decimalOne) {
		return raw.Div(decimalHundred)
	}
	return raw
}

// ceilToThousand rounds d up to the nearest 1,000 currency minor units.
func ceilToThousand(d decimal.Decimal) decimal.Decimal {
	return d.Div(decimalThousand).Ceil().Mul(decimalThousand)
}

// GenerateInstallmentSchedule computes a flat-rate installment schedule.
//
// Interest is charged once on the original principal for the full term:
//
//	totalInterest      = ceil(principal * rateFactor * months/12)
//	totalLoan          = principal + totalInterest
//	monthlyInstallment = ceilToThousand(ceil(totalLoan / months))
//
// Every line carries the monthly installment except the final one, which is
// adjusted down so the line amounts sum exactly to totalLoan. Due dates are
// the start date advanced by i whole months, truncated to a UTC day boundary.
// The function is pure: no side effects, no I/O.
func GenerateInstallmentSchedule(
	principal decimal.Decimal,
	rawRate decimal.Decimal,
	durationMonths int,
	startDate time.Time,
) (InstallmentSchedule, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return InstallmentSchedule{}, apperror.Validation("principal must be positive, got %s", principal)
	}
	if durationMonths <= 0 {
		return InstallmentSchedule{}, apperror.Validation("duration must be at least 1 month, got %d", durationMonths)
	}
	if rawRate.IsNegative() {
		return InstallmentSchedule{}, apperror.Validation("interest rate must not be negative, got %s", rawRate)
	}

	factor := NormalizeRate(rawRate)
	months := decimal.NewFromInt(int64(durationMonths))

	totalInterest := principal.Mul(factor).Mul(months).Div(decimalTwelve).Ceil()
	totalLoan := principal.Add(totalInterest)
	monthly := ceilToThousand(totalLoan.Div(months).Ceil())

	// Last line absorbs the rounding so the schedule sums to totalLoan exactly.
	finalAmount := totalLoan.Sub(monthly.Mul(months.Sub(decimalOne)))
	if finalAmount.LessThanOrEqual(decimal.Zero) {
		return InstallmentSchedule{}, apperror.Validation(
			"duration of %d months is too long for a total loan of %s", durationMonths, totalLoan)
	}

	start := TruncateToDay(startDate)
	lines := make([]AmortizationLine, 0, durationMonths)
	for i := 1; i <= durationMonths; i++ {
		amount := monthly
		if i == durationMonths {
			amount = finalAmount
		}
		lines = append(lines, AmortizationLine{
			Month:       i,
			DueDate:     start.AddDate(0, i, 0),
			Amount:      amount,
			Status:      valueobject.InstallmentStatusUnpaid,
			PenaltyPaid: decimal.Zero,
		})
	}

	return InstallmentSchedule{
		TotalInterest:      totalInterest,
		TotalLoan:          totalLoan,
		MonthlyInstallment: monthly,
		Lines:              lines,
	}, nil
}

// TruncateToDay strips the time-of-day component in UTC. All due-date
// comparisons in the system happen at this granularity.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
