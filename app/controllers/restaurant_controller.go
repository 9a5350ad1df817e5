package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/cache"
	"github.com/thejzagency/swfldines/internal/pkg/listing"
	metrics "github.com/thejzagency/swfldines/internal/pkg/metrics/counter"
	"github.com/thejzagency/swfldines/internal/pkg/statistics"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
)

type clickRequest struct {
	ClickType string `json:"click_type"`
}

// HandleListRestaurants returns the public directory. The full active list
// is ranked once and cached; filters and pagination are applied per request
// so every page sees the same spotlight-first ordering.
func HandleListRestaurants(c *fiber.Ctx) error {
	ranked, err := loadRankedListings()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurants")
	}

	filter := listing.Filter{
		Query:      c.Query("q"),
		City:       c.Query("city"),
		Cuisine:    c.Query("cuisine"),
		PriceRange: c.Query("price_range"),
		Features:   parseCSV(c.Query("features")),
	}
	matched := listing.Apply(ranked, filter)

	offset, limit := parsePagination(c, 24, 100)
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"restaurants": matched[offset:end],
		"total":       total,
		"offset":      offset,
		"limit":       limit,
	})
}

// HandleGetRestaurant returns one listing by UUID and records the view.
// Non-active listings are only visible to their owner and admins.
func HandleGetRestaurant(c *fiber.Ctx) error {
	restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	userCtx := usercontext.GetUserContext(c)
	if !restaurant.IsActive() {
		isOwner := userCtx.IsLoggedIn && restaurant.IsClaimedBy(userCtx.UserID)
		if !isOwner && !usercontext.IsAdmin(c) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
	}

	if restaurant.IsActive() {
		trackView(c, restaurant.ID, userCtx)
	}

	return c.JSON(restaurant)
}

// HandleTrackClick records an engagement click (phone, website, email,
// directions, menu) on an active listing.
func HandleTrackClick(c *fiber.Ctx) error {
	var req clickRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if !models.IsValidClickType(req.ClickType) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown click type")
	}

	restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}
	if !restaurant.IsActive() {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
	}

	userCtx := usercontext.GetUserContext(c)
	click := &models.RestaurantClick{
		RestaurantID: restaurant.ID,
		ClickType:    req.ClickType,
		SessionID:    c.Cookies("session_id"),
		ClickedAt:    time.Now(),
	}
	if userCtx.IsLoggedIn {
		click.UserID = &userCtx.UserID
	}
	if err := repository.GetGlobalFactory().GetAnalyticsRepository().RecordClick(click); err != nil {
		log.Errorf("Failed to record click for restaurant %d: %v", restaurant.ID, err)
	}
	if err := metrics.AddRestaurantClick(restaurant.ID); err != nil {
		log.Errorf("Failed to count click for restaurant %d: %v", restaurant.ID, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true})
}

// HandleListCities returns the cities with at least one active listing
func HandleListCities(c *fiber.Ctx) error {
	cities, err := repository.GetGlobalFactory().GetRestaurantRepository().DistinctActiveCities()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cities")
	}
	return c.JSON(fiber.Map{"cities": cities})
}

// HandleListCuisines returns the cuisine types of active listings
func HandleListCuisines(c *fiber.Ctx) error {
	cuisines, err := repository.GetGlobalFactory().GetRestaurantRepository().DistinctActiveCuisines()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cuisines")
	}
	return c.JSON(fiber.Map{"cuisines": cuisines})
}

// HandleGetStatistics returns cached directory totals
func HandleGetStatistics(c *fiber.Ctx) error {
	stats := statistics.GetStatistics()
	return c.JSON(fiber.Map{
		"total_restaurants":  stats.TotalRestaurants,
		"active_restaurants": stats.ActiveRestaurants,
		"total_cities":       stats.TotalCities,
		"total_users":        stats.TotalUsers,
	})
}

// loadRankedListings returns the ranked active directory, from cache when possible
func loadRankedListings() ([]models.Restaurant, error) {
	if cached, err := cache.Get(RankedListingCacheKey); err == nil && cached != "" {
		var restaurants []models.Restaurant
		if err := json.Unmarshal([]byte(cached), &restaurants); err == nil {
			return restaurants, nil
		}
	}

	active, err := repository.GetGlobalFactory().GetRestaurantRepository().ListActive()
	if err != nil {
		return nil, err
	}
	ranked := listing.Rank(active)

	if data, err := json.Marshal(ranked); err == nil {
		if err := cache.Set(RankedListingCacheKey, string(data), RankedListingCacheExpiration*time.Minute); err != nil {
			log.Errorf("Failed to cache ranked listings: %v", err)
		}
	}
	return ranked, nil
}

func trackView(c *fiber.Ctx, restaurantID uint, userCtx usercontext.UserContext) {
	view := &models.RestaurantView{
		RestaurantID: restaurantID,
		SessionID:    c.Cookies("session_id"),
		ViewedAt:     time.Now(),
	}
	if userCtx.IsLoggedIn {
		view.UserID = &userCtx.UserID
	}
	if err := repository.GetGlobalFactory().GetAnalyticsRepository().RecordView(view); err != nil {
		log.Errorf("Failed to record view for restaurant %d: %v", restaurantID, err)
	}
	if err := metrics.AddRestaurantView(restaurantID); err != nil {
		log.Errorf("Failed to count view for restaurant %d: %v", restaurantID, err)
	}
}
