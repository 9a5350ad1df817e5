package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thejzagency/swfldines/app/models"
)

func mk(name, tier, status string) models.Restaurant {
	return models.Restaurant{Name: name, ListingType: tier, Status: status}
}

func names(rs []models.Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestRankSpotlightTopThreeGuarantee(t *testing.T) {
	in := []models.Restaurant{
		mk("A", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("B", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("C", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("D", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("E", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("F", models.ListingTypePremium, models.RestaurantStatusActive),
	}

	out := Rank(in)

	// First three spotlight listings by input order hold the front; the
	// fourth spotlight sorts by its weight among the remainder, ahead of
	// premium.
	assert.Equal(t, []string{"B", "C", "D", "E", "F", "A"}, names(out))
}

func TestRankSortsByTierWeightStable(t *testing.T) {
	in := []models.Restaurant{
		mk("free-1", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("feat-1", models.ListingTypeFeatured, models.RestaurantStatusActive),
		mk("free-2", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("prem-1", models.ListingTypePremium, models.RestaurantStatusActive),
		mk("feat-2", models.ListingTypeFeatured, models.RestaurantStatusActive),
	}

	out := Rank(in)
	assert.Equal(t, []string{"prem-1", "feat-1", "feat-2", "free-1", "free-2"}, names(out))
}

func TestRankNeverPromotesInactive(t *testing.T) {
	in := []models.Restaurant{
		mk("pending-spot", models.ListingTypeSpotlight, models.RestaurantStatusPending),
		mk("active-free", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("inactive-prem", models.ListingTypePremium, models.RestaurantStatusInactive),
		mk("active-spot", models.ListingTypeSpotlight, models.RestaurantStatusActive),
	}

	out := Rank(in)

	// Non-active listings trail in original relative order.
	assert.Equal(t, []string{"active-spot", "active-free", "pending-spot", "inactive-prem"}, names(out))
}

func TestRankIdempotent(t *testing.T) {
	in := []models.Restaurant{
		mk("A", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("B", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("C", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("D", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("E", models.ListingTypeSpotlight, models.RestaurantStatusActive),
		mk("F", models.ListingTypePremium, models.RestaurantStatusActive),
		mk("G", models.ListingTypeFeatured, models.RestaurantStatusPending),
	}

	once := Rank(in)
	twice := Rank(once)
	assert.Equal(t, names(once), names(twice))
}

func TestRankLegacyPremiumPlusCountsAsSpotlight(t *testing.T) {
	in := []models.Restaurant{
		mk("free", models.ListingTypeFree, models.RestaurantStatusActive),
		mk("legacy", "premium_plus", models.RestaurantStatusActive),
	}

	out := Rank(in)
	assert.Equal(t, []string{"legacy", "free"}, names(out))
}

func TestRankEmptyAndAllInactive(t *testing.T) {
	assert.Empty(t, Rank(nil))

	in := []models.Restaurant{
		mk("X", models.ListingTypeSpotlight, models.RestaurantStatusInactive),
		mk("Y", models.ListingTypeFree, models.RestaurantStatusPending),
	}
	assert.Equal(t, []string{"X", "Y"}, names(Rank(in)))
}
