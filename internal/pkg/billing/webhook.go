package billing

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/paperwall-app/paperwall/app/models"
)

// ErrMissingSignature is returned when the signature header or the shared
// webhook secret is absent; callers must reject the delivery without touching
// the store.
var ErrMissingSignature = errors.New("missing webhook signature or secret")

// Watched event types. Everything else is acknowledged with no action so the
// provider does not redeliver it.
const (
	EventCheckoutSessionCompleted    = stripe.EventTypeCheckoutSessionCompleted
	EventCustomerSubscriptionCreated = stripe.EventTypeCustomerSubscriptionCreated
	EventCustomerSubscriptionUpdated = stripe.EventTypeCustomerSubscriptionUpdated
	EventCustomerSubscriptionDeleted = stripe.EventTypeCustomerSubscriptionDeleted
)

// IsWatchedEvent reports whether the event type participates in
// subscription-state reconciliation.
func IsWatchedEvent(t stripe.EventType) bool {
	switch t {
	case EventCheckoutSessionCompleted,
		EventCustomerSubscriptionCreated,
		EventCustomerSubscriptionUpdated,
		EventCustomerSubscriptionDeleted:
		return true
	default:
		return false
	}
}

// IsSubscriptionEvent reports whether the event carries a subscription object.
func IsSubscriptionEvent(t stripe.EventType) bool {
	switch t {
	case EventCustomerSubscriptionCreated,
		EventCustomerSubscriptionUpdated,
		EventCustomerSubscriptionDeleted:
		return true
	default:
		return false
	}
}

// VerifyEvent checks the provider signature over the raw body and decodes the
// event envelope. The raw body must be used unmodified; any body-parsing
// middleware upstream breaks verification.
func VerifyEvent(payload []byte, signatureHeader, webhookSecret string) (stripe.Event, error) {
	if strings.TrimSpace(signatureHeader) == "" || strings.TrimSpace(webhookSecret) == "" {
		return stripe.Event{}, ErrMissingSignature
	}
	return webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
}

// ParseSubscriptionEvent extracts the fields the reconciliation routine
// stores from a customer.subscription.* event payload.
func ParseSubscriptionEvent(raw json.RawMessage) (SubscriptionUpdate, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return SubscriptionUpdate{}, err
	}
	if sub.ID == "" {
		return SubscriptionUpdate{}, errors.New("subscription event without id")
	}

	update := SubscriptionUpdate{
		ID:                sub.ID,
		Status:            models.NormalizeSubscriptionStatus(string(sub.Status)),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		update.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		update.PriceID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		update.CurrentPeriodEnd = &t
	}
	return update, nil
}

// ParseCheckoutEvent extracts customer linkage data from a
// checkout.session.completed event payload.
func ParseCheckoutEvent(raw json.RawMessage) (CheckoutCompletion, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return CheckoutCompletion{}, err
	}

	completion := CheckoutCompletion{CustomerEmail: sess.CustomerEmail}
	if sess.Customer != nil {
		completion.CustomerID = sess.Customer.ID
	}
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		completion.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.Subscription != nil {
		completion.SubscriptionID = sess.Subscription.ID
	}
	return completion, nil
}
