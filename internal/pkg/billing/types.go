package billing

import "time"

// SubscriptionUpdate is the normalized shape extracted from a provider
// subscription lifecycle event before it is synced into the local table.
type SubscriptionUpdate struct {
	ID                string
	CustomerID        string
	Status            string
	PriceID           string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
}

// CheckoutCompletion is the normalized shape extracted from a completed
// checkout session event.
type CheckoutCompletion struct {
	CustomerID     string
	CustomerEmail  string
	SubscriptionID string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}
