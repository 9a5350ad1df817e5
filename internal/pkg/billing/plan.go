package billing

import (
	"strings"

	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
	"github.com/thejzagency/swfldines/internal/pkg/env"
)

// Paid tiers sold through checkout. Free is the fallback, not a product.
var paidTiers = []entitlements.Tier{
	entitlements.TierFeatured,
	entitlements.TierPremium,
	entitlements.TierSpotlight,
}

func normalizeTier(tier string) string {
	return string(entitlements.ParseTier(tier))
}

func tierRank(tier string) int {
	return entitlements.TierRank(entitlements.Tier(tier))
}

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}

// PriceIDForTier returns the configured Stripe price id for a paid tier,
// or "" when the tier is not purchasable (free, unknown).
func PriceIDForTier(tier entitlements.Tier) string {
	switch entitlements.ParseTier(string(tier)) {
	case entitlements.TierFeatured:
		return env.GetEnv("STRIPE_PRICE_FEATURED", "")
	case entitlements.TierPremium:
		return env.GetEnv("STRIPE_PRICE_PREMIUM", "")
	case entitlements.TierSpotlight:
		return env.GetEnv("STRIPE_PRICE_SPOTLIGHT", "")
	default:
		return ""
	}
}

// TierForPriceID maps a Stripe price id back to the listing tier it sells.
// Unknown price ids map to free so a mis-configured webhook can never grant
// more than the least-privilege tier.
func TierForPriceID(priceID string) entitlements.Tier {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return entitlements.TierFree
	}
	for _, tier := range paidTiers {
		if PriceIDForTier(tier) == priceID {
			return tier
		}
	}
	return entitlements.TierFree
}
