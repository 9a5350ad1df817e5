package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thejzagency/swfldines/app/controllers"
	"github.com/thejzagency/swfldines/internal/pkg/middleware"
	"github.com/thejzagency/swfldines/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// SEO
	app.Get("/sitemap.xml", controllers.HandleSitemap)

	// Billing provider webhooks (signature-verified in controller)
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
