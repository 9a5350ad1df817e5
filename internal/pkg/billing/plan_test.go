package billing

import (
	"testing"

	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
)

func TestIsEntitlingStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"active", true},
		{"trialing", true},
		{"past_due", true},
		{"  Active  ", true},
		{"canceled", false},
		{"unpaid", false},
		{"incomplete", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isEntitlingStatus(tt.status); got != tt.want {
			t.Errorf("isEntitlingStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPriceIDForTier(t *testing.T) {
	t.Setenv("STRIPE_PRICE_FEATURED", "price_feat_123")
	t.Setenv("STRIPE_PRICE_PREMIUM", "price_prem_456")
	t.Setenv("STRIPE_PRICE_SPOTLIGHT", "price_spot_789")

	tests := []struct {
		tier entitlements.Tier
		want string
	}{
		{entitlements.TierFeatured, "price_feat_123"},
		{entitlements.TierPremium, "price_prem_456"},
		{entitlements.TierSpotlight, "price_spot_789"},
		{entitlements.TierFree, ""},
		{entitlements.Tier("nonsense"), ""},
	}

	for _, tt := range tests {
		if got := PriceIDForTier(tt.tier); got != tt.want {
			t.Errorf("PriceIDForTier(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestTierForPriceID(t *testing.T) {
	t.Setenv("STRIPE_PRICE_FEATURED", "price_feat_123")
	t.Setenv("STRIPE_PRICE_PREMIUM", "price_prem_456")
	t.Setenv("STRIPE_PRICE_SPOTLIGHT", "price_spot_789")

	tests := []struct {
		priceID string
		want    entitlements.Tier
	}{
		{"price_feat_123", entitlements.TierFeatured},
		{"price_prem_456", entitlements.TierPremium},
		{"price_spot_789", entitlements.TierSpotlight},
		// Unknown price ids must never grant a paid tier.
		{"price_unknown", entitlements.TierFree},
		{"", entitlements.TierFree},
	}

	for _, tt := range tests {
		if got := TierForPriceID(tt.priceID); got != tt.want {
			t.Errorf("TierForPriceID(%q) = %q, want %q", tt.priceID, got, tt.want)
		}
	}
}

func TestNormalizeTierLegacyAlias(t *testing.T) {
	if got := normalizeTier("premium_plus"); got != string(entitlements.TierSpotlight) {
		t.Errorf("normalizeTier(premium_plus) = %q, want spotlight", got)
	}
	if got := normalizeTier("something_else"); got != string(entitlements.TierFree) {
		t.Errorf("normalizeTier(something_else) = %q, want free", got)
	}
}
