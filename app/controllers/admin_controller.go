package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
	"github.com/thejzagency/swfldines/internal/pkg/env"
	"github.com/thejzagency/swfldines/internal/pkg/jobqueue"
	"github.com/thejzagency/swfldines/internal/pkg/listing"
	"github.com/thejzagency/swfldines/internal/pkg/statistics"
)

type setStatusRequest struct {
	Status string `json:"status"`
}

type setTierRequest struct {
	ListingType string `json:"listing_type"`
}

type refreshReviewsRequest struct {
	GooglePlaceID string `json:"google_place_id"`
}

// HandleAdminPendingRestaurants returns the moderation queue
func HandleAdminPendingRestaurants(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 50, 200)
	repos := repository.GetGlobalFactory().GetRestaurantRepository()

	restaurants, err := repos.ListByStatus(models.RestaurantStatusPending, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load pending restaurants")
	}
	total, err := repos.CountByStatus(models.RestaurantStatusPending)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count pending restaurants")
	}

	return c.JSON(fiber.Map{
		"restaurants": restaurants,
		"total":       total,
		"offset":      offset,
		"limit":       limit,
	})
}

// HandleAdminSetStatus moves a listing between pending, active and inactive
func HandleAdminSetStatus(c *fiber.Ctx) error {
	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	switch req.Status {
	case models.RestaurantStatusPending, models.RestaurantStatusActive, models.RestaurantStatusInactive:
	default:
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown status")
	}

	repos := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repos.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	if restaurant.Status != req.Status {
		if err := repos.SetStatus(restaurant.ID, req.Status); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update status")
		}
		restaurant.Status = req.Status

		payload := jobqueue.StatusNoticeJobPayload{RestaurantID: restaurant.ID, NewStatus: req.Status}
		if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeStatusNotice, payload.ToMap()); err != nil {
			log.Errorf("Failed to enqueue status notice for restaurant %d: %v", restaurant.ID, err)
		}

		invalidateListingCache()
		statistics.ResetCacheUpdateTimer()
	}

	return c.JSON(fiber.Map{"restaurant": restaurant})
}

// HandleAdminSetTier overrides a listing's tier without a payment. The
// optional SPOTLIGHT_MAX_ACTIVE cap bounds how many spotlight slots are
// sold; 0 means uncapped.
func HandleAdminSetTier(c *fiber.Ctx) error {
	var req setTierRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	tier := entitlements.ParseTier(req.ListingType)

	repos := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repos.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	if tier == entitlements.TierSpotlight && restaurant.ListingType != models.ListingTypeSpotlight {
		if capStr := env.GetEnv("SPOTLIGHT_MAX_ACTIVE", "0"); capStr != "0" {
			maxActive, _ := strconv.ParseInt(capStr, 10, 64)
			count, err := repos.CountActiveByListingType(models.ListingTypeSpotlight)
			if err != nil {
				return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count spotlight listings")
			}
			if maxActive > 0 && count >= maxActive {
				return jsonError(c, fiber.StatusConflict, "conflict", "All spotlight slots are taken")
			}
		}
	}

	if err := repos.SetListingType(restaurant.ID, string(tier)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update tier")
	}
	restaurant.ListingType = string(tier)

	// A paid tier ends the upsell emails for this listing.
	if tier != entitlements.TierFree {
		sequences := repository.GetGlobalFactory().GetEmailSequenceRepository()
		if err := sequences.CancelActiveByRestaurant(restaurant.ID); err != nil {
			log.Errorf("Failed to cancel upsell sequence for restaurant %d: %v", restaurant.ID, err)
		}
	}

	invalidateListingCache()
	return c.JSON(fiber.Map{"restaurant": restaurant})
}

// HandleAdminImport bulk-creates pre-parsed listings as active free-tier
// entries. Rows that fail to insert are skipped, not fatal.
func HandleAdminImport(c *fiber.Ctx) error {
	var rows []listing.UpdateRequest
	if err := c.BodyParser(&rows); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if len(rows) == 0 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "No rows to import")
	}

	restaurants := make([]models.Restaurant, 0, len(rows))
	for _, row := range rows {
		restaurant := models.Restaurant{
			ListingType: models.ListingTypeFree,
			Status:      models.RestaurantStatusActive,
		}
		row.ApplyTo(&restaurant)
		if restaurant.State == "" {
			restaurant.State = "FL"
		}
		if restaurant.PriceRange == "" {
			restaurant.PriceRange = "$$"
		}
		restaurants = append(restaurants, restaurant)
	}

	created, err := repository.GetGlobalFactory().GetRestaurantRepository().BulkCreate(restaurants)
	if err != nil {
		log.Errorf("Import finished with errors: %v", err)
	}

	invalidateListingCache()
	statistics.ResetCacheUpdateTimer()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created": created,
		"total":   len(rows),
	})
}

// HandleAdminRefreshReviews stores a listing's Google place id (when given)
// and queues an immediate rating sync. The synced-at marker is cleared so
// the job refetches even inside the freshness window.
func HandleAdminRefreshReviews(c *fiber.Ctx) error {
	var req refreshReviewsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
		}
	}

	repos := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repos.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	if req.GooglePlaceID != "" && req.GooglePlaceID != restaurant.GooglePlaceID {
		updates := map[string]interface{}{
			"google_place_id":   req.GooglePlaceID,
			"reviews_synced_at": nil,
		}
		if err := repos.UpdateFields(restaurant.ID, updates); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update place id")
		}
		restaurant.GooglePlaceID = req.GooglePlaceID
		restaurant.ReviewsSyncedAt = nil
	}
	if restaurant.GooglePlaceID == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Restaurant has no Google place id")
	}

	payload := jobqueue.ReviewRefreshJobPayload{RestaurantID: restaurant.ID}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeReviewRefresh, payload.ToMap()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to queue review refresh")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": true})
}

// HandleAdminDeleteRestaurant soft deletes a listing
func HandleAdminDeleteRestaurant(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repos.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	if err := repos.Delete(restaurant.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete restaurant")
	}

	invalidateListingCache()
	statistics.ResetCacheUpdateTimer()
	return c.JSON(fiber.Map{"ok": true})
}
