package entitlements

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{in: "free", want: TierFree},
		{in: "featured", want: TierFeatured},
		{in: "premium", want: TierPremium},
		{in: "spotlight", want: TierSpotlight},
		{in: "premium_plus", want: TierSpotlight},
		{in: " SPOTLIGHT ", want: TierSpotlight},
		{in: "", want: TierFree},
		{in: "enterprise", want: TierFree},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.in); got != tt.want {
			t.Fatalf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestForMatchesTierTable(t *testing.T) {
	tests := []struct {
		tier Tier
		want Entitlement
	}{
		{
			tier: TierFree,
			want: Entitlement{MaxImages: 0, SearchPriorityWeight: 1},
		},
		{
			tier: TierFeatured,
			want: Entitlement{
				MaxImages:            5,
				CanEditDescription:   true,
				CanEditWebsite:       true,
				CanEditMenuURL:       true,
				SearchPriorityWeight: 2,
			},
		},
		{
			tier: TierPremium,
			want: Entitlement{
				MaxImages:            15,
				CanEditDescription:   true,
				CanEditWebsite:       true,
				CanEditSocialLinks:   true,
				CanEditMenuURL:       true,
				CanEditFeatureTags:   true,
				SearchPriorityWeight: 3,
				AnalyticsWindowDays:  30,
			},
		},
		{
			tier: TierSpotlight,
			want: Entitlement{
				MaxImages:                MaxImagesUnlimited,
				CanEditDescription:       true,
				CanEditWebsite:           true,
				CanEditSocialLinks:       true,
				CanEditMenuURL:           true,
				CanEditFeatureTags:       true,
				SearchPriorityWeight:     4,
				AnalyticsWindowDays:      90,
				AnalyticsBreakdownDetail: true,
			},
		},
	}

	for _, tt := range tests {
		if got := For(tt.tier); got != tt.want {
			t.Fatalf("For(%q) = %+v, want %+v", tt.tier, got, tt.want)
		}
	}
}

func TestForUnknownTierDegradesToFree(t *testing.T) {
	if got := For(Tier("gold")); got != For(TierFree) {
		t.Fatalf("unknown tier should resolve to free entitlements, got %+v", got)
	}
	if got := ForListingType("premium_plus"); got != For(TierSpotlight) {
		t.Fatalf("premium_plus should resolve to spotlight entitlements, got %+v", got)
	}
}

func TestTierRank(t *testing.T) {
	order := []Tier{TierFree, TierFeatured, TierPremium, TierSpotlight}
	for i := 1; i < len(order); i++ {
		if TierRank(order[i-1]) >= TierRank(order[i]) {
			t.Fatalf("expected %s to outrank %s", order[i], order[i-1])
		}
	}
	if TierRank("bogus") != TierRank(TierFree) {
		t.Fatalf("unknown tier should rank as free")
	}
}
