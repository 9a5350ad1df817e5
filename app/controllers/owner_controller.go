package controllers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
	"github.com/thejzagency/swfldines/internal/pkg/jobqueue"
	"github.com/thejzagency/swfldines/internal/pkg/listing"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
)

var validate = validator.New()

// HandleMyRestaurants lists the authenticated owner's claimed listings
func HandleMyRestaurants(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	restaurants, err := repository.GetGlobalFactory().GetRestaurantRepository().ListByOwner(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurants")
	}
	return c.JSON(fiber.Map{"restaurants": restaurants})
}

// HandleSubmitRestaurant creates a new listing owned by the caller. New
// submissions start pending on the free tier, so the field gate strips any
// paid-tier content from the initial payload.
func HandleSubmitRestaurant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req listing.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	accepted, result := listing.ApplyUpdate(nil, req, entitlements.TierFree)

	restaurant := &models.Restaurant{
		ListingType:  models.ListingTypeFree,
		Status:       models.RestaurantStatusPending,
		OwnerID:      &userCtx.UserID,
		OwnerClaimed: true,
	}
	accepted.ApplyTo(restaurant)
	if restaurant.State == "" {
		restaurant.State = "FL"
	}
	if restaurant.PriceRange == "" {
		restaurant.PriceRange = "$$"
	}

	if err := validate.Struct(restaurant); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repos := repository.GetGlobalFactory()
	if err := repos.GetRestaurantRepository().Create(restaurant); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create restaurant")
	}

	promoteToOwner(userCtx.UserID)
	startUpsellSequence(restaurant.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"restaurant":      restaurant,
		"rejected_fields": result.RejectedFields,
		"dropped_images":  result.DroppedImages,
	})
}

// HandleClaimRestaurant assigns an unclaimed listing to the caller and
// starts the upsell email sequence.
func HandleClaimRestaurant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	restaurant, err := repos.GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}
	if restaurant.OwnerClaimed {
		return jsonError(c, fiber.StatusConflict, "conflict", "This listing has already been claimed")
	}

	if err := repos.GetRestaurantRepository().Claim(restaurant.ID, userCtx.UserID); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "This listing has already been claimed")
	}

	promoteToOwner(userCtx.UserID)
	startUpsellSequence(restaurant.ID)

	payload := jobqueue.ClaimNoticeJobPayload{RestaurantID: restaurant.ID, OwnerID: userCtx.UserID}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeClaimNotice, payload.ToMap()); err != nil {
		log.Errorf("Failed to enqueue claim notice for restaurant %d: %v", restaurant.ID, err)
	}

	restaurant.OwnerID = &userCtx.UserID
	restaurant.OwnerClaimed = true
	return c.JSON(fiber.Map{"restaurant": restaurant})
}

// HandleUpdateRestaurant applies a tier-gated partial update to a listing.
// Fields the tier may not edit are rejected as data, never as an error.
func HandleUpdateRestaurant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	restaurant, err := repos.GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}
	if !restaurant.IsClaimedBy(userCtx.UserID) && !usercontext.IsAdmin(c) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not manage this listing")
	}

	var req listing.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	tier := entitlements.ParseTier(restaurant.ListingType)
	accepted, result := listing.ApplyUpdate(restaurant, req, tier)
	accepted.ApplyTo(restaurant)

	if err := validate.Struct(restaurant); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := repos.GetRestaurantRepository().Update(restaurant); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save restaurant")
	}

	invalidateListingCache()

	return c.JSON(fiber.Map{
		"restaurant":      restaurant,
		"rejected_fields": result.RejectedFields,
		"dropped_images":  result.DroppedImages,
	})
}

// HandleGetEntitlements returns what the listing's tier may edit, for the
// owner dashboard to grey out locked fields.
func HandleGetEntitlements(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}
	if !restaurant.IsClaimedBy(userCtx.UserID) && !usercontext.IsAdmin(c) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not manage this listing")
	}

	tier := entitlements.ParseTier(restaurant.ListingType)
	return c.JSON(fiber.Map{
		"tier":        tier,
		"entitlement": entitlements.For(tier),
	})
}

// promoteToOwner upgrades a plain user to the restaurant owner role
func promoteToOwner(userID uint) {
	users := repository.GetGlobalFactory().GetUserRepository()
	user, err := users.GetByID(userID)
	if err != nil {
		log.Errorf("Failed to load user %d for role promotion: %v", userID, err)
		return
	}
	if user.Role != models.ROLE_USER {
		return
	}
	user.Role = models.ROLE_OWNER
	if err := users.Update(user); err != nil {
		log.Errorf("Failed to promote user %d to owner: %v", userID, err)
	}
}

// startUpsellSequence creates the upsell email sequence for a free listing.
// The first email goes out a day after the claim.
func startUpsellSequence(restaurantID uint) {
	sequences := repository.GetGlobalFactory().GetEmailSequenceRepository()
	if _, err := sequences.GetActiveByRestaurant(restaurantID); err == nil {
		return
	}

	next := time.Now().Add(24 * time.Hour)
	sequence := &models.EmailSequence{
		RestaurantID:         restaurantID,
		SequenceType:         models.SequenceTypeUpsell,
		CurrentStep:          0,
		TotalSteps:           2,
		Status:               models.SequenceStatusActive,
		NextEmailScheduledAt: &next,
	}
	if err := sequences.Create(sequence); err != nil {
		log.Errorf("Failed to start upsell sequence for restaurant %d: %v", restaurantID, err)
	}
}
