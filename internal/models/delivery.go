package models

import "github.com/shopspring/decimal"

// pricing mode
const (
	PricingModePostcode = "postcode"
	PricingModeDistance = "distance"
)

// discount kind
const (
	DiscountPercentageOff  = "percentage_off"
	DiscountFixedReduction = "fixed_reduction"
	DiscountFreeDelivery   = "free_delivery"
)

// minimum order scope
const (
	MinimumScopeAll      = "all"
	MinimumScopePostcode = "postcode"
)

// ZoneRule maps a postcode pattern (exact or prefix) to a flat delivery fee.
// Patterns are compared case-insensitively with whitespace stripped;
// the longest matching pattern wins.
type ZoneRule struct {
	Pattern string
	Fee     decimal.Decimal
}

// TierRule maps a distance bracket to a flat delivery fee.
// Tiers are evaluated in ascending MaxDistanceKm order.
type TierRule struct {
	MaxDistanceKm float64
	Fee           decimal.Decimal
}

// DiscountRule reduces the delivery fee once the order subtotal reaches
// MinOrderValue. Rules never stack: the highest satisfied threshold applies.
type DiscountRule struct {
	MinOrderValue decimal.Decimal
	Kind          string
	Amount        decimal.Decimal
}

// MinimumRule sets a minimum order value, globally or for a postcode prefix.
type MinimumRule struct {
	Scope   string
	Pattern string
	Minimum decimal.Decimal
}

// DeliveryConfig is the restaurant's pricing configuration. It is a read-only
// snapshot during a single fee calculation.
type DeliveryConfig struct {
	Mode            string
	Zones           []ZoneRule
	Tiers           []TierRule
	Discounts       []DiscountRule
	Minimums        []MinimumRule
	DefaultFee      *decimal.Decimal
	PrepTimeMinutes int
	MaxDistanceKm   float64
}

// MinimumOrderStatus is advisory information about the minimum-order check
type MinimumOrderStatus struct {
	Required  decimal.Decimal
	Met       bool
	Shortfall decimal.Decimal
}

// FeeQuote is the outcome of a delivery fee calculation
type FeeQuote struct {
	Fee              decimal.Decimal
	BaseFee          decimal.Decimal
	Zone             string
	EstimatedMinutes int
	MinimumOrder     MinimumOrderStatus
}
