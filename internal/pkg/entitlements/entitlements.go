package entitlements

import (
	"math"
	"strings"
)

type Tier string

const (
	TierFree      Tier = "free"
	TierFeatured  Tier = "featured"
	TierPremium   Tier = "premium"
	TierSpotlight Tier = "spotlight"
)

// MaxImagesUnlimited is the quota sentinel for tiers without an image cap
const MaxImagesUnlimited = math.MaxInt32

// Entitlement is the resolved permission/limit set for a listing tier.
// It is derived on every access and never persisted.
type Entitlement struct {
	MaxImages                int
	CanEditDescription       bool
	CanEditWebsite           bool
	CanEditSocialLinks       bool
	CanEditMenuURL           bool
	CanEditFeatureTags       bool
	SearchPriorityWeight     int
	AnalyticsWindowDays      int
	AnalyticsBreakdownDetail bool
}

// ParseTier normalizes a stored listing_type string. Unrecognized values
// degrade to the free tier rather than failing; the legacy "premium_plus"
// value maps to spotlight.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierFeatured):
		return TierFeatured
	case string(TierPremium):
		return TierPremium
	case string(TierSpotlight), "premium_plus":
		return TierSpotlight
	default:
		return TierFree
	}
}

// For returns the entitlement set for a tier. Total: any input yields at
// least the free entitlements.
func For(tier Tier) Entitlement {
	switch ParseTier(string(tier)) {
	case TierSpotlight:
		return Entitlement{
			MaxImages:                MaxImagesUnlimited,
			CanEditDescription:       true,
			CanEditWebsite:           true,
			CanEditSocialLinks:       true,
			CanEditMenuURL:           true,
			CanEditFeatureTags:       true,
			SearchPriorityWeight:     4,
			AnalyticsWindowDays:      90,
			AnalyticsBreakdownDetail: true,
		}
	case TierPremium:
		return Entitlement{
			MaxImages:            15,
			CanEditDescription:   true,
			CanEditWebsite:       true,
			CanEditSocialLinks:   true,
			CanEditMenuURL:       true,
			CanEditFeatureTags:   true,
			SearchPriorityWeight: 3,
			AnalyticsWindowDays:  30,
		}
	case TierFeatured:
		return Entitlement{
			MaxImages:            5,
			CanEditDescription:   true,
			CanEditWebsite:       true,
			CanEditMenuURL:       true,
			SearchPriorityWeight: 2,
		}
	default:
		return Entitlement{
			MaxImages:            0,
			SearchPriorityWeight: 1,
		}
	}
}

// ForListingType resolves entitlements straight from a stored listing_type
func ForListingType(listingType string) Entitlement {
	return For(ParseTier(listingType))
}

// TierRank orders tiers for best-plan selection (free lowest)
func TierRank(tier Tier) int {
	switch ParseTier(string(tier)) {
	case TierSpotlight:
		return 3
	case TierPremium:
		return 2
	case TierFeatured:
		return 1
	default:
		return 0
	}
}
