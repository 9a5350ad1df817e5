package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
)

func ptr(s string) *string { return &s }

func imageURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = "https://cdn.swfldines.com/img/" + string(rune('a'+i)) + ".jpg"
	}
	return urls
}

func TestApplyUpdateFreeTierOnlyBasics(t *testing.T) {
	current := &models.Restaurant{Name: "Old Name", ListingType: models.ListingTypeFree}
	proposed := UpdateRequest{
		Name:         ptr("New Name"),
		Phone:        ptr("(239) 555-1234"),
		City:         ptr("Naples"),
		Description:  ptr("Great food"),
		Website:      ptr("https://example.com"),
		FacebookURL:  ptr("https://fb.com/x"),
		InstagramURL: ptr("https://instagram.com/x"),
		TwitterURL:   ptr("https://twitter.com/x"),
		MenuURL:      ptr("https://example.com/menu"),
		Features:     []string{"Outdoor Seating"},
		Images:       []string{"https://cdn.swfldines.com/img/a.jpg"},
	}

	accepted, result := ApplyUpdate(current, proposed, entitlements.TierFree)

	assert.Equal(t, "New Name", *accepted.Name)
	assert.Equal(t, "(239) 555-1234", *accepted.Phone)
	assert.Equal(t, "Naples", *accepted.City)
	assert.Nil(t, accepted.Description)
	assert.Nil(t, accepted.Website)
	assert.Nil(t, accepted.FacebookURL)
	assert.Nil(t, accepted.InstagramURL)
	assert.Nil(t, accepted.TwitterURL)
	assert.Nil(t, accepted.MenuURL)
	assert.Nil(t, accepted.Features)
	assert.Empty(t, accepted.Images)

	assert.ElementsMatch(t, []string{
		"description", "website", "facebook_url", "instagram_url",
		"twitter_url", "menu_url", "features", "images",
	}, result.RejectedFields)
	assert.Equal(t, 1, result.DroppedImages)
}

func TestApplyUpdateFeaturedAcceptsDescriptionRejectsSocial(t *testing.T) {
	current := &models.Restaurant{ListingType: models.ListingTypeFeatured}
	proposed := UpdateRequest{
		Description: ptr("Great food"),
		FacebookURL: ptr("https://fb.com/x"),
	}

	accepted, result := ApplyUpdate(current, proposed, entitlements.TierFeatured)

	assert.Equal(t, "Great food", *accepted.Description)
	assert.Nil(t, accepted.FacebookURL)
	assert.Equal(t, []string{"facebook_url"}, result.RejectedFields)
	assert.Zero(t, result.DroppedImages)
}

func TestApplyUpdateImageQuotaBoundaries(t *testing.T) {
	// Premium listing already holding its full 15-image quota.
	current := &models.Restaurant{
		ListingType: models.ListingTypePremium,
		Images:      models.StringList(imageURLs(15)),
	}

	// Proposing 18 total: the 3 over quota are dropped as a batch.
	accepted, result := ApplyUpdate(current, UpdateRequest{Images: imageURLs(18)}, entitlements.TierPremium)
	assert.Len(t, accepted.Images, 15)
	assert.Equal(t, 3, result.DroppedImages)
	assert.Contains(t, result.RejectedFields, "images")

	// Proposing exactly the quota succeeds with no drops.
	accepted, result = ApplyUpdate(current, UpdateRequest{Images: imageURLs(15)}, entitlements.TierPremium)
	assert.Len(t, accepted.Images, 15)
	assert.Zero(t, result.DroppedImages)
	assert.Empty(t, result.RejectedFields)

	// One over: only the excess fails.
	accepted, result = ApplyUpdate(current, UpdateRequest{Images: imageURLs(16)}, entitlements.TierPremium)
	assert.Len(t, accepted.Images, 15)
	assert.Equal(t, 1, result.DroppedImages)
}

func TestApplyUpdateDowngradeFreezesExcessImages(t *testing.T) {
	// Listing downgraded from spotlight to featured still holds 10 images.
	current := &models.Restaurant{
		ListingType: models.ListingTypeFeatured,
		Images:      models.StringList(imageURLs(10)),
	}

	accepted, result := ApplyUpdate(current, UpdateRequest{Images: imageURLs(4)}, entitlements.TierFeatured)

	// The image field is locked: no partial overwrite that would destroy
	// the stored excess.
	assert.Nil(t, accepted.Images)
	assert.Contains(t, result.RejectedFields, "images")
}

func TestApplyUpdateFeatureTagsNeverMerged(t *testing.T) {
	current := &models.Restaurant{
		ListingType: models.ListingTypeFeatured,
		Features:    models.StringList{"Delivery"},
	}

	accepted, result := ApplyUpdate(current, UpdateRequest{Features: []string{"Brunch", "Waterfront"}}, entitlements.TierFeatured)
	assert.Nil(t, accepted.Features)
	assert.Equal(t, []string{"features"}, result.RejectedFields)

	// Applying the accepted update must leave the stored tags untouched.
	accepted.ApplyTo(current)
	assert.Equal(t, models.StringList{"Delivery"}, current.Features)

	accepted, result = ApplyUpdate(current, UpdateRequest{Features: []string{"Brunch"}}, entitlements.TierPremium)
	assert.Equal(t, []string{"Brunch"}, accepted.Features)
	assert.Empty(t, result.RejectedFields)
}

func TestApplyUpdateGatingIgnoresStatus(t *testing.T) {
	current := &models.Restaurant{
		ListingType: models.ListingTypePremium,
		Status:      models.RestaurantStatusPending,
	}

	accepted, result := ApplyUpdate(current, UpdateRequest{Description: ptr("soon to open")}, entitlements.TierPremium)
	assert.Equal(t, "soon to open", *accepted.Description)
	assert.Empty(t, result.RejectedFields)
}

func TestApplyUpdateSpotlightUnlimitedImages(t *testing.T) {
	current := &models.Restaurant{ListingType: models.ListingTypeSpotlight}

	accepted, result := ApplyUpdate(current, UpdateRequest{Images: imageURLs(25)}, entitlements.TierSpotlight)
	assert.Len(t, accepted.Images, 25)
	assert.Zero(t, result.DroppedImages)
	assert.Empty(t, result.RejectedFields)
}
