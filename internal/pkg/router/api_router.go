package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/paperwall-app/paperwall/app/controllers"
	apiv1 "github.com/paperwall-app/paperwall/internal/api/v1"
	"github.com/paperwall-app/paperwall/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	// Checkout session creation; Fiber answers other verbs with 405 + Allow.
	api.Post("/subscribe", middleware.RequireAPISessionAuth, controllers.HandleSubscribe)

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
