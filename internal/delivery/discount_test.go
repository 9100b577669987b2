package delivery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/yorkbites/orderdesk/internal/models"
)

func valueDiscounts() []models.DiscountRule {
	return []models.DiscountRule{
		{MinOrderValue: decimal.RequireFromString("25"), Kind: models.DiscountFreeDelivery},
		{MinOrderValue: decimal.RequireFromString("20"), Kind: models.DiscountFixedReduction, Amount: decimal.RequireFromString("1.00")},
		{MinOrderValue: decimal.RequireFromString("15"), Kind: models.DiscountPercentageOff, Amount: decimal.RequireFromString("50")},
	}
}

func TestApplyValueDiscount(t *testing.T) {
	baseFee := decimal.RequireFromString("3.00")

	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{name: "below_all_thresholds_keeps_base_fee", subtotal: "10.00", want: "3.00"},
		{name: "percentage_off_at_lowest_threshold", subtotal: "15.00", want: "1.50"},
		{name: "highest_satisfied_rule_wins_not_lowest", subtotal: "22.00", want: "2.00"},
		{name: "free_delivery_at_top_threshold", subtotal: "25.00", want: "0"},
		{name: "zero_subtotal_keeps_base_fee", subtotal: "0", want: "3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyValueDiscount(baseFee, decimal.RequireFromString(tt.subtotal), valueDiscounts())
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestApplyValueDiscount_RulesNeverStack(t *testing.T) {
	// both rules are satisfied; only the higher threshold may apply
	rules := []models.DiscountRule{
		{MinOrderValue: decimal.RequireFromString("10"), Kind: models.DiscountFixedReduction, Amount: decimal.RequireFromString("1.00")},
		{MinOrderValue: decimal.RequireFromString("20"), Kind: models.DiscountFixedReduction, Amount: decimal.RequireFromString("1.00")},
	}

	got := ApplyValueDiscount(decimal.RequireFromString("3.00"), decimal.RequireFromString("30.00"), rules)

	assert.True(t, decimal.RequireFromString("2.00").Equal(got),
		"exactly one reduction must apply, got %s", got)
}

func TestApplyValueDiscount_FixedReductionNeverGoesNegative(t *testing.T) {
	rules := []models.DiscountRule{
		{MinOrderValue: decimal.RequireFromString("10"), Kind: models.DiscountFixedReduction, Amount: decimal.RequireFromString("5.00")},
	}

	got := ApplyValueDiscount(decimal.RequireFromString("2.50"), decimal.RequireFromString("12.00"), rules)

	assert.True(t, got.Equal(decimal.Zero), "fee must floor at zero, got %s", got)
}

func TestApplyValueDiscount_UnknownKindIsSkipped(t *testing.T) {
	rules := []models.DiscountRule{
		{MinOrderValue: decimal.RequireFromString("10"), Kind: "loyalty_points"},
	}

	got := ApplyValueDiscount(decimal.RequireFromString("3.00"), decimal.RequireFromString("12.00"), rules)

	assert.True(t, decimal.RequireFromString("3.00").Equal(got))
}

func TestCheckMinimumOrder(t *testing.T) {
	rules := []models.MinimumRule{
		{Scope: models.MinimumScopePostcode, Pattern: "YO1", Minimum: decimal.RequireFromString("15.00")},
		{Scope: models.MinimumScopeAll, Minimum: decimal.RequireFromString("10.00")},
	}

	tests := []struct {
		name          string
		subtotal      string
		postcode      string
		wantRequired  string
		wantMet       bool
		wantShortfall string
	}{
		{
			name:          "postcode_scope_applies_first_in_declaration_order",
			subtotal:      "12.00",
			postcode:      "YO10 3BP",
			wantRequired:  "15.00",
			wantMet:       false,
			wantShortfall: "3.00",
		},
		{
			name:          "global_scope_applies_outside_pattern",
			subtotal:      "12.00",
			postcode:      "LS1 4AP",
			wantRequired:  "10.00",
			wantMet:       true,
			wantShortfall: "0",
		},
		{
			name:          "exact_threshold_is_met",
			subtotal:      "15.00",
			postcode:      "YO10 3BP",
			wantRequired:  "15.00",
			wantMet:       true,
			wantShortfall: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckMinimumOrder(decimal.RequireFromString(tt.subtotal), rules, tt.postcode)

			assert.True(t, decimal.RequireFromString(tt.wantRequired).Equal(got.Required))
			assert.Equal(t, tt.wantMet, got.Met)
			assert.True(t, decimal.RequireFromString(tt.wantShortfall).Equal(got.Shortfall),
				"want shortfall %s, got %s", tt.wantShortfall, got.Shortfall)
		})
	}
}

func TestCheckMinimumOrder_NoRulesMeansNoMinimum(t *testing.T) {
	got := CheckMinimumOrder(decimal.Zero, nil, "YO10 3BP")

	assert.True(t, got.Met)
	assert.True(t, got.Required.Equal(decimal.Zero))
	assert.True(t, got.Shortfall.Equal(decimal.Zero))
}

func TestCheckMinimumOrder_Idempotent(t *testing.T) {
	rules := []models.MinimumRule{
		{Scope: models.MinimumScopeAll, Minimum: decimal.RequireFromString("10.00")},
	}
	subtotal := decimal.RequireFromString("7.50")

	first := CheckMinimumOrder(subtotal, rules, "YO10 3BP")
	second := CheckMinimumOrder(subtotal, rules, "YO10 3BP")

	assert.Equal(t, first, second)
}
