package jobqueue

import (
	"testing"
	"time"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/places"
)

func TestShouldRefreshReviews(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)
	stale := now.Add(-ReviewRefreshInterval)

	tests := []struct {
		name       string
		restaurant models.Restaurant
		want       bool
	}{
		{"no place id", models.Restaurant{}, false},
		{"no place id but stale marker", models.Restaurant{ReviewsSyncedAt: &stale}, false},
		{"never synced", models.Restaurant{GooglePlaceID: "ChIJabc"}, true},
		{"synced recently", models.Restaurant{GooglePlaceID: "ChIJabc", ReviewsSyncedAt: &fresh}, false},
		{"synced a day ago", models.Restaurant{GooglePlaceID: "ChIJabc", ReviewsSyncedAt: &stale}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRefreshReviews(&tt.restaurant, now); got != tt.want {
				t.Errorf("shouldRefreshReviews() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReviewFieldUpdates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	details := &places.PlaceDetails{
		PlaceID:          "ChIJabc",
		Rating:           4.6,
		UserRatingsTotal: 312,
	}

	updates := reviewFieldUpdates(details, now)

	if updates["rating"] != 4.6 {
		t.Errorf("rating = %v, want 4.6", updates["rating"])
	}
	if updates["review_count"] != 312 {
		t.Errorf("review_count = %v, want 312", updates["review_count"])
	}
	if updates["reviews_synced_at"] != now {
		t.Errorf("reviews_synced_at = %v, want %v", updates["reviews_synced_at"], now)
	}
}

func TestReviewRefreshJobPayloadRoundTrip(t *testing.T) {
	payload := ReviewRefreshJobPayload{RestaurantID: 42}

	decoded, err := ReviewRefreshJobPayloadFromMap(payload.ToMap())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.RestaurantID != 42 {
		t.Errorf("RestaurantID = %d, want 42", decoded.RestaurantID)
	}
}
