package listing

import (
	"sort"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
)

// spotlightGuaranteeSlots is how many spotlight listings are pinned to the
// front of every directory page.
const spotlightGuaranteeSlots = 3

// Rank orders listings for display. Pure and deterministic:
//
//  1. Non-active listings are never promoted; they trail the output in
//     their original relative order.
//  2. The first three active spotlight listings (by input order) are pinned
//     to the absolute front.
//  3. Everything else active, including spotlight listings past the third,
//     is sorted by tier priority weight descending; ties keep input order.
//
// Because every step is stable, Rank(Rank(xs)) == Rank(xs).
func Rank(restaurants []models.Restaurant) []models.Restaurant {
	if len(restaurants) == 0 {
		return restaurants
	}

	active := make([]models.Restaurant, 0, len(restaurants))
	inactive := make([]models.Restaurant, 0)
	for _, r := range restaurants {
		if r.IsActive() {
			active = append(active, r)
		} else {
			inactive = append(inactive, r)
		}
	}

	pinned := make([]models.Restaurant, 0, spotlightGuaranteeSlots)
	rest := make([]models.Restaurant, 0, len(active))
	for _, r := range active {
		if len(pinned) < spotlightGuaranteeSlots && entitlements.ParseTier(r.ListingType) == entitlements.TierSpotlight {
			pinned = append(pinned, r)
		} else {
			rest = append(rest, r)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		wi := entitlements.ForListingType(rest[i].ListingType).SearchPriorityWeight
		wj := entitlements.ForListingType(rest[j].ListingType).SearchPriorityWeight
		return wi > wj
	})

	out := make([]models.Restaurant, 0, len(restaurants))
	out = append(out, pinned...)
	out = append(out, rest...)
	out = append(out, inactive...)
	return out
}
