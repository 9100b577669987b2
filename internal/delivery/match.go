package delivery

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
)

// DefaultZone is the synthetic zone returned when no pattern matches
// but the config carries a default fee.
const DefaultZone = "default"

// ZoneMatch is a matched postcode zone
type ZoneMatch struct {
	Zone string
	Fee  decimal.Decimal
}

// TierMatch is a matched distance tier
type TierMatch struct {
	MaxDistanceKm float64
	Fee           decimal.Decimal
}

// NormalizePostcode uppercases a postcode and strips all whitespace
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// MatchZone matches a postcode against zone rules. An exact pattern match
// wins outright; otherwise the longest matching prefix wins. When nothing
// matches and defaultFee is set, a synthetic default zone is returned.
// The second return value is false when delivery is unavailable.
func MatchZone(postcode string, rules []models.ZoneRule, defaultFee *decimal.Decimal) (ZoneMatch, bool) {
	norm := NormalizePostcode(postcode)

	// exact match first
	for _, rule := range rules {
		if NormalizePostcode(rule.Pattern) == norm {
			return ZoneMatch{Zone: rule.Pattern, Fee: rule.Fee}, true
		}
	}

	// longest prefix wins
	var (
		best    models.ZoneRule
		bestLen = -1
	)
	for _, rule := range rules {
		pattern := NormalizePostcode(rule.Pattern)
		if strings.HasPrefix(norm, pattern) && len(pattern) > bestLen {
			best = rule
			bestLen = len(pattern)
		}
	}
	if bestLen >= 0 {
		return ZoneMatch{Zone: best.Pattern, Fee: best.Fee}, true
	}

	if defaultFee != nil {
		return ZoneMatch{Zone: DefaultZone, Fee: *defaultFee}, true
	}

	return ZoneMatch{}, false
}

// MatchTier matches a distance against tier rules, evaluated in ascending
// MaxDistanceKm order. The first tier whose bound covers the distance wins.
// The second return value is false when the distance exceeds all tiers.
func MatchTier(distanceKm float64, tiers []models.TierRule) (TierMatch, bool) {
	sorted := make([]models.TierRule, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxDistanceKm < sorted[j].MaxDistanceKm
	})

	for _, tier := range sorted {
		if tier.MaxDistanceKm >= distanceKm {
			return TierMatch{MaxDistanceKm: tier.MaxDistanceKm, Fee: tier.Fee}, true
		}
	}

	return TierMatch{}, false
}
