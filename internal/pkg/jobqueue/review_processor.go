package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/cache"
	"github.com/thejzagency/swfldines/internal/pkg/database"
	"github.com/thejzagency/swfldines/internal/pkg/places"
)

// ReviewRefreshInterval is how long a synced rating stays fresh. Ratings
// younger than this are not refetched.
const ReviewRefreshInterval = 24 * time.Hour

// shouldRefreshReviews reports whether a listing's Google rating is due for
// a sync. Listings without a place id have nothing to sync.
func shouldRefreshReviews(restaurant *models.Restaurant, now time.Time) bool {
	if restaurant.GooglePlaceID == "" {
		return false
	}
	if restaurant.ReviewsSyncedAt == nil {
		return true
	}
	return now.Sub(*restaurant.ReviewsSyncedAt) >= ReviewRefreshInterval
}

// reviewFieldUpdates builds the column updates for a fetched rating
func reviewFieldUpdates(details *places.PlaceDetails, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"rating":            details.Rating,
		"review_count":      details.UserRatingsTotal,
		"reviews_synced_at": now,
	}
}

// processReviewRefreshJob syncs a listing's aggregate Google rating and
// review count from the Places API
func (q *Queue) processReviewRefreshJob(ctx context.Context, job *Job) error {
	payload, err := ReviewRefreshJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid review refresh payload: %w", err)
	}

	client := places.NewClientFromEnv()
	if !client.IsConfigured() {
		log.Debug("[JobQueue] Places API key not configured, skipping review refresh")
		return nil
	}

	restaurants := repository.NewRestaurantRepository(database.GetDB())
	restaurant, err := restaurants.GetByID(payload.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[JobQueue] Restaurant %d no longer exists, skipping review refresh", payload.RestaurantID)
			return nil
		}
		return err
	}

	now := time.Now()
	if !shouldRefreshReviews(restaurant, now) {
		log.Debugf("[JobQueue] Reviews for restaurant %d are fresh, skipping", restaurant.ID)
		return nil
	}

	details, err := client.FetchDetails(ctx, restaurant.GooglePlaceID)
	if err != nil {
		return fmt.Errorf("failed to fetch rating for restaurant %d: %w", restaurant.ID, err)
	}

	if err := restaurants.UpdateFields(restaurant.ID, reviewFieldUpdates(details, now)); err != nil {
		return err
	}

	// The cached ranked list carries ratings, so it has to be rebuilt.
	if err := cache.DeleteByPattern("restaurants:*"); err != nil {
		log.Errorf("[JobQueue] Failed to invalidate listing cache after review sync: %v", err)
	}

	log.Infof("[JobQueue] Synced rating %.1f (%d reviews) for restaurant %d",
		details.Rating, details.UserRatingsTotal, restaurant.ID)
	return nil
}
