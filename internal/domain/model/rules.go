package model

import (
	"github.com/shopspring/decimal"
)

// InterestTier maps an OTR price band to the raw interest rate applied to
// contracts whose price falls inside it. Bands are inclusive on both ends.
type InterestTier struct {
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	RatePercent decimal.Decimal
}

// Contains reports whether price falls inside the tier's band.
func (t InterestTier) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(t.MinPrice) && price.LessThanOrEqual(t.MaxPrice)
}

// RuleConfiguration is the singleton business-rule record read at contract
// creation: the minimum down-payment percentage and the ordered interest
// tiers. Its absence is a fatal misconfiguration, never silently defaulted.
type RuleConfiguration struct {
	MinDownPaymentPercent decimal.Decimal
	Tiers                 []InterestTier
}

// MinimumDownPayment returns the smallest acceptable down payment for the
// given OTR price.
func (r RuleConfiguration) MinimumDownPayment(otrPrice decimal.Decimal) decimal.Decimal {
	return otrPrice.Mul(r.MinDownPaymentPercent).Div(decimalHundred)
}

// RateForPrice selects the interest tier whose band contains the OTR price.
// The second return value is false when no tier matches; the caller falls
// back to a default rate rather than erroring.
func (r RuleConfiguration) RateForPrice(otrPrice decimal.Decimal) (decimal.Decimal, bool) {
	for _, tier := range r.Tiers {
		if tier.Contains(otrPrice) {
			return tier.RatePercent, true
		}
	}
	return decimal.Zero, false
}
