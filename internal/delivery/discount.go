package delivery

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ApplyValueDiscount returns baseFee transformed by the first satisfied
// discount rule, checked in descending MinOrderValue order. Exactly one rule
// applies; rules never stack. An unsatisfied rule set leaves the fee unchanged.
func ApplyValueDiscount(baseFee, subtotal decimal.Decimal, rules []models.DiscountRule) decimal.Decimal {
	sorted := make([]models.DiscountRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinOrderValue.GreaterThan(sorted[j].MinOrderValue)
	})

	for _, rule := range sorted {
		if subtotal.LessThan(rule.MinOrderValue) {
			continue
		}
		switch rule.Kind {
		case models.DiscountPercentageOff:
			return baseFee.Mul(hundred.Sub(rule.Amount)).Div(hundred)
		case models.DiscountFixedReduction:
			fee := baseFee.Sub(rule.Amount)
			if fee.IsNegative() {
				return decimal.Zero
			}
			return fee
		case models.DiscountFreeDelivery:
			return decimal.Zero
		}
	}

	return baseFee
}

// CheckMinimumOrder evaluates minimum-order rules in declaration order and
// reports the first rule whose scope matches the postcode. The result is
// advisory: it never blocks fee calculation.
func CheckMinimumOrder(subtotal decimal.Decimal, rules []models.MinimumRule, postcode string) models.MinimumOrderStatus {
	norm := NormalizePostcode(postcode)

	for _, rule := range rules {
		if rule.Scope == models.MinimumScopePostcode && !strings.HasPrefix(norm, NormalizePostcode(rule.Pattern)) {
			continue
		}
		shortfall := rule.Minimum.Sub(subtotal)
		if shortfall.IsNegative() {
			shortfall = decimal.Zero
		}
		return models.MinimumOrderStatus{
			Required:  rule.Minimum,
			Met:       subtotal.GreaterThanOrEqual(rule.Minimum),
			Shortfall: shortfall,
		}
	}

	return models.MinimumOrderStatus{Required: decimal.Zero, Met: true, Shortfall: decimal.Zero}
}
