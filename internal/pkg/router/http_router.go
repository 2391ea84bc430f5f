package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/paperwall-app/paperwall/app/controllers"
	"github.com/paperwall-app/paperwall/app/repository"
	"github.com/paperwall-app/paperwall/internal/pkg/billing"
	"github.com/paperwall-app/paperwall/internal/pkg/content"
	"github.com/paperwall-app/paperwall/internal/pkg/database"
	"github.com/paperwall-app/paperwall/internal/pkg/middleware"
	"github.com/paperwall-app/paperwall/internal/pkg/oauth"
	"github.com/paperwall-app/paperwall/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// init repositories
	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	// Collaborator clients are constructed once here and injected into the
	// controllers instead of living as package singletons.
	payments, err := billing.NewPaymentsClientFromEnv()
	if err != nil {
		log.Printf("router: payments client unavailable: %v", err)
	}
	billingService := billing.NewService(repos.User, repos.Subscription, repos.WebhookEvent)

	controllers.InitializeOAuthController(repos.User)
	controllers.InitializeSubscribeController(payments, repos.User)
	controllers.InitializeWebhookController(billingService)
	controllers.InitializePostController(content.NewClientFromEnv())

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Pages
	app.Get("/", controllers.HandleHome)
	app.Get("/posts", controllers.HandlePostsIndex)
	app.Get("/posts/preview/:slug", controllers.HandlePostPreview)
	app.Get("/posts/:slug", controllers.HandlePostShow)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Payment provider webhooks (raw body, signature-verified in controller)
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}
