package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/internal/pkg/env"
)

// HandleHome renders the marketing page with the subscription offer.
func HandleHome(c *fiber.Ctx) error {
	cents, err := strconv.ParseInt(env.GetEnv("STRIPE_PRICE_AMOUNT", "990"), 10, 64)
	if err != nil {
		cents = 990
	}

	return renderPage(c, "home", fiber.Map{
		"Title":                "Home",
		"Price":                formatPrice(cents),
		"StripePublishableKey": env.GetEnv("STRIPE_PUBLISHABLE_KEY", ""),
	})
}
