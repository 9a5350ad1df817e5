package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
)

// HandleOwnerAnalytics returns view/click analytics for a listing. The
// window and the per-type click breakdown are gated by the listing's tier;
// free and featured tiers get an upgrade hint instead of numbers.
func HandleOwnerAnalytics(c *fiber.Ctx) error {
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

	tier := entitlements.ParseTier(restaurant.ListingType)
	ent := entitlements.For(tier)

	if ent.AnalyticsWindowDays == 0 {
		return c.JSON(fiber.Map{
			"tier":         tier,
			"window_days":  0,
			"upgrade_hint": "Upgrade to Premium to see a 30-day analytics dashboard for your listing.",
		})
	}

	now := time.Now()
	since := now.AddDate(0, 0, -ent.AnalyticsWindowDays)
	analytics := repos.GetAnalyticsRepository()

	views, err := analytics.CountViewsSince(restaurant.ID, since)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load view analytics")
	}
	clicks, err := analytics.CountClicksSince(restaurant.ID, since)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load click analytics")
	}
	dailyViews, err := analytics.DailyViews(restaurant.ID, since, now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load daily analytics")
	}

	response := fiber.Map{
		"tier":        tier,
		"window_days": ent.AnalyticsWindowDays,
		"views":       views,
		"clicks":      clicks,
		"daily_views": dailyViews,
	}

	if ent.AnalyticsBreakdownDetail {
		breakdown, err := analytics.ClicksByTypeSince(restaurant.ID, since)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load click breakdown")
		}
		response["clicks_by_type"] = breakdown
	}

	return c.JSON(response)
}
