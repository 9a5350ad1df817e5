package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/thejzagency/swfldines/app/controllers"
	"github.com/thejzagency/swfldines/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "SW Florida Dines API",
		})
	})

	v1 := api.Group("/v1")

	// Public directory
	v1.Get("/restaurants", controllers.HandleListRestaurants)
	v1.Get("/restaurants/:uuid", controllers.HandleGetRestaurant)
	v1.Post("/restaurants/:uuid/clicks", controllers.HandleTrackClick)
	v1.Get("/cities", controllers.HandleListCities)
	v1.Get("/cuisines", controllers.HandleListCuisines)
	v1.Get("/statistics", controllers.HandleGetStatistics)
	v1.Get("/tiers", controllers.HandleListTiers)

	// Blog
	v1.Get("/blog", controllers.HandleListBlogPosts)
	v1.Get("/blog/:slug", controllers.HandleGetBlogPost)

	// Auth
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", middleware.RequireAuth, controllers.HandleLogout)
	v1.Get("/auth/me", middleware.RequireAuth, controllers.HandleMe)

	// Owner
	owner := v1.Group("/owner", middleware.RequireAuth)
	owner.Get("/restaurants", controllers.HandleMyRestaurants)
	owner.Post("/restaurants", controllers.HandleSubmitRestaurant)
	owner.Post("/restaurants/:uuid/claim", controllers.HandleClaimRestaurant)
	owner.Patch("/restaurants/:uuid", controllers.HandleUpdateRestaurant)
	owner.Get("/restaurants/:uuid/entitlements", controllers.HandleGetEntitlements)
	owner.Get("/restaurants/:uuid/analytics", controllers.HandleOwnerAnalytics)
	owner.Post("/restaurants/:uuid/checkout", controllers.HandleCreateCheckout)

	// Admin
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/restaurants/pending", controllers.HandleAdminPendingRestaurants)
	admin.Patch("/restaurants/:uuid/status", controllers.HandleAdminSetStatus)
	admin.Patch("/restaurants/:uuid/tier", controllers.HandleAdminSetTier)
	admin.Post("/restaurants/import", controllers.HandleAdminImport)
	admin.Post("/restaurants/:uuid/reviews/refresh", controllers.HandleAdminRefreshReviews)
	admin.Delete("/restaurants/:uuid", controllers.HandleAdminDeleteRestaurant)
	admin.Post("/blog", controllers.HandleAdminCreateBlogPost)
	admin.Patch("/blog/:slug", controllers.HandleAdminUpdateBlogPost)
	admin.Delete("/blog/:slug", controllers.HandleAdminDeleteBlogPost)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
