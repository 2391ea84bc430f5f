package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/app/repository"
	"github.com/paperwall-app/paperwall/internal/pkg/billing"
	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

var (
	subscribePayments billing.PaymentsClient
	subscribeUsers    repository.UserRepository
)

// InitializeSubscribeController injects the payment client and user
// repository used by checkout session creation.
func InitializeSubscribeController(payments billing.PaymentsClient, users repository.UserRepository) {
	subscribePayments = payments
	subscribeUsers = users
}

// HandleSubscribe opens a payment checkout session for the authenticated
// user and returns its id for the client to redirect into.
func HandleSubscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	user, err := subscribeUsers.GetByEmail(userCtx.Email)
	if err != nil {
		log.Printf("subscribe: user lookup for %s failed: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "user not found"})
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = subscribePayments.CreateCustomer(ctx, user.Email)
		if err != nil {
			log.Printf("subscribe: creating payment customer for %s failed: %v", user.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}

		// A failed persist is logged but does not abort the flow; the
		// freshly created id is still usable for this checkout and the
		// completion webhook will link it again.
		if err := subscribeUsers.UpdateStripeCustomerID(user.ID, customerID); err != nil {
			log.Printf("subscribe: persisting customer id %s for user %d failed: %v", customerID, user.ID, err)
		}
	}

	sessionID, err := subscribePayments.CreateCheckoutSession(ctx, customerID)
	if err != nil {
		log.Printf("subscribe: creating checkout session for customer %s failed: %v", customerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessionId": sessionID})
}
