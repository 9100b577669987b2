package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
	"gopkg.in/yaml.v3"
)

type deliveryZoneYAML struct {
	Pattern string  `yaml:"pattern"`
	Fee     float64 `yaml:"fee"`
}

type deliveryTierYAML struct {
	MaxDistanceKm float64 `yaml:"max_distance_km"`
	Fee           float64 `yaml:"fee"`
}

type deliveryDiscountYAML struct {
	MinOrderValue float64 `yaml:"min_order_value"`
	Kind          string  `yaml:"kind"`
	Amount        float64 `yaml:"amount"`
}

type deliveryMinimumYAML struct {
	Scope   string  `yaml:"scope"`
	Pattern string  `yaml:"pattern"`
	Minimum float64 `yaml:"minimum"`
}

type deliveryYAML struct {
	Mode            string                 `yaml:"mode"`
	PrepTimeMinutes int                    `yaml:"prep_time_minutes"`
	MaxDistanceKm   float64                `yaml:"max_distance_km"`
	DefaultFee      *float64               `yaml:"default_fee"`
	Zones           []deliveryZoneYAML     `yaml:"zones"`
	Tiers           []deliveryTierYAML     `yaml:"tiers"`
	Discounts       []deliveryDiscountYAML `yaml:"discounts"`
	Minimums        []deliveryMinimumYAML  `yaml:"minimums"`
}

// LoadDeliveryConfig reads delivery pricing rules from a YAML file
func LoadDeliveryConfig(path string) (*models.DeliveryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read delivery rules: %w", err)
	}

	var raw deliveryYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse delivery rules: %w", err)
	}

	if raw.Mode != models.PricingModePostcode && raw.Mode != models.PricingModeDistance {
		return nil, fmt.Errorf("unknown pricing mode %q", raw.Mode)
	}

	cfg := models.DeliveryConfig{
		Mode:            raw.Mode,
		PrepTimeMinutes: raw.PrepTimeMinutes,
		MaxDistanceKm:   raw.MaxDistanceKm,
	}

	if raw.DefaultFee != nil {
		fee := decimal.NewFromFloat(*raw.DefaultFee)
		cfg.DefaultFee = &fee
	}

	for _, z := range raw.Zones {
		if z.Pattern == "" {
			return nil, fmt.Errorf("zone rule with empty pattern")
		}
		cfg.Zones = append(cfg.Zones, models.ZoneRule{
			Pattern: z.Pattern,
			Fee:     decimal.NewFromFloat(z.Fee),
		})
	}

	for _, t := range raw.Tiers {
		if t.MaxDistanceKm <= 0 {
			return nil, fmt.Errorf("tier rule with non-positive max_distance_km")
		}
		cfg.Tiers = append(cfg.Tiers, models.TierRule{
			MaxDistanceKm: t.MaxDistanceKm,
			Fee:           decimal.NewFromFloat(t.Fee),
		})
	}

	for _, d := range raw.Discounts {
		switch d.Kind {
		case models.DiscountPercentageOff, models.DiscountFixedReduction, models.DiscountFreeDelivery:
		default:
			return nil, fmt.Errorf("unknown discount kind %q", d.Kind)
		}
		cfg.Discounts = append(cfg.Discounts, models.DiscountRule{
			MinOrderValue: decimal.NewFromFloat(d.MinOrderValue),
			Kind:          d.Kind,
			Amount:        decimal.NewFromFloat(d.Amount),
		})
	}

	for _, m := range raw.Minimums {
		switch m.Scope {
		case models.MinimumScopeAll:
		case models.MinimumScopePostcode:
			if m.Pattern == "" {
				return nil, fmt.Errorf("postcode minimum rule requires a pattern")
			}
		default:
			return nil, fmt.Errorf("unknown minimum scope %q", m.Scope)
		}
		cfg.Minimums = append(cfg.Minimums, models.MinimumRule{
			Scope:   m.Scope,
			Pattern: m.Pattern,
			Minimum: decimal.NewFromFloat(m.Minimum),
		})
	}

	return &cfg, nil
}
