package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/internal/pkg/billing"
	"github.com/paperwall-app/paperwall/internal/pkg/env"
)

var webhookBilling *billing.Service

// InitializeWebhookController injects the billing service used by webhook
// reconciliation.
func InitializeWebhookController(svc *billing.Service) {
	webhookBilling = svc
}

// HandleStripeWebhook reconciles payment-provider webhook deliveries into
// the store. Signature failures are 400s with no store mutation; processing
// failures are 500s so the provider redelivers; everything else acknowledges
// with {received:true}.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	event, err := billing.VerifyEvent(rawBody, signature, secret)
	if err != nil {
		if !errors.Is(err, billing.ErrMissingSignature) {
			log.Printf("webhook: signature verification failed: %v", err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := webhookBilling.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		log.Printf("webhook: persisting event %s failed: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook persist failed"})
	}
	if !created {
		// Redelivery of an already-recorded event is a no-op.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	if !billing.IsWatchedEvent(event.Type) {
		_ = webhookBilling.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	var procErr error
	switch {
	case billing.IsSubscriptionEvent(event.Type):
		update, err := billing.ParseSubscriptionEvent(event.Data.Raw)
		if err != nil {
			_ = webhookBilling.MarkWebhookProcessed(ctx, stored.ID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		_, procErr = webhookBilling.SyncSubscription(ctx, update, rawBody)

	case event.Type == billing.EventCheckoutSessionCompleted:
		completion, err := billing.ParseCheckoutEvent(event.Data.Raw)
		if err != nil {
			_ = webhookBilling.MarkWebhookProcessed(ctx, stored.ID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		procErr = webhookBilling.LinkCustomerByEmail(ctx, completion.CustomerEmail, completion.CustomerID)

	default:
		// Watched but unhandled: respond non-2xx so the provider
		// redelivers once a handler exists.
		procErr = errors.New("unhandled watched event type")
	}

	_ = webhookBilling.MarkWebhookProcessed(ctx, stored.ID, procErr)
	if procErr != nil {
		log.Printf("webhook: processing event %s (%s) failed: %v", event.ID, event.Type, procErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook handler failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
