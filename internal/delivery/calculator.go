package delivery

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/distance"
	"github.com/yorkbites/orderdesk/internal/models"
)

// fixed handover buffer added to every estimate
const bufferMinutes = 10

// DistanceLookup is interface for the external routing collaborator
type DistanceLookup interface {
	// Lookup returns the routed distance and travel time from origin to destination
	Lookup(ctx context.Context, origin, destination string) (distance.Result, error)
}

// Calculator computes delivery fee quotes from the restaurant's
// pricing configuration
type Calculator struct {
	cfg    models.DeliveryConfig
	lookup DistanceLookup
	origin string
}

// NewCalculator creates new Calculator instance. origin is the restaurant
// address used for distance-mode lookups.
func NewCalculator(cfg models.DeliveryConfig, lookup DistanceLookup, origin string) *Calculator {
	return &Calculator{
		cfg:    cfg,
		lookup: lookup,
		origin: origin,
	}
}

// Quote calculates a delivery fee for an address and order subtotal.
// It returns models.ErrOutsideDeliveryArea when delivery is unavailable,
// which is a business outcome, not an infrastructure fault. A subtotal of
// zero is valid and used for fee-preview calls.
func (c *Calculator) Quote(ctx context.Context, postcode, address string, subtotal decimal.Decimal) (*models.FeeQuote, error) {
	var (
		base    decimal.Decimal
		zone    string
		minutes int
	)

	switch c.cfg.Mode {
	case models.PricingModeDistance:
		// single lookup per request: the result feeds both the tier match
		// and the travel-time estimate
		res, err := c.lookup.Lookup(ctx, c.origin, address)
		if err != nil {
			return nil, fmt.Errorf("distance lookup: %w", err)
		}

		km := float64(res.Meters) / 1000
		if c.cfg.MaxDistanceKm > 0 && km > c.cfg.MaxDistanceKm {
			return nil, models.ErrOutsideDeliveryArea
		}

		tier, ok := MatchTier(km, c.cfg.Tiers)
		if !ok {
			return nil, models.ErrOutsideDeliveryArea
		}

		base = tier.Fee
		zone = fmt.Sprintf("up to %g km", tier.MaxDistanceKm)
		minutes = c.cfg.PrepTimeMinutes + int(math.Ceil(float64(res.Seconds)/60)) + bufferMinutes
	case models.PricingModePostcode:
		match, ok := MatchZone(postcode, c.cfg.Zones, c.cfg.DefaultFee)
		if !ok {
			return nil, models.ErrOutsideDeliveryArea
		}

		base = match.Fee
		zone = match.Zone
		minutes = c.cfg.PrepTimeMinutes + bufferMinutes
	default:
		return nil, fmt.Errorf("unknown pricing mode %q", c.cfg.Mode)
	}

	return &models.FeeQuote{
		Fee:              ApplyValueDiscount(base, subtotal, c.cfg.Discounts),
		BaseFee:          base,
		Zone:             zone,
		EstimatedMinutes: minutes,
		MinimumOrder:     CheckMinimumOrder(subtotal, c.cfg.Minimums, postcode),
	}, nil
}
