package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/paperwall-app/paperwall/internal/pkg/env"
)

// PaymentsClient is the slice of the payment processor's API the application
// uses. Handlers receive it by injection so tests can fake the processor.
type PaymentsClient interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID string) (string, error)
}

type stripeClient struct {
	api        *client.API
	priceID    string
	successURL string
	cancelURL  string
}

// NewPaymentsClientFromEnv builds a Stripe-backed payments client. The API
// key is scoped to this client instead of the package-global stripe.Key so
// collaborators stay explicit dependencies.
func NewPaymentsClientFromEnv() (PaymentsClient, error) {
	key := strings.TrimSpace(env.GetEnv("STRIPE_API_KEY", ""))
	if key == "" {
		return nil, errors.New("STRIPE_API_KEY is not configured")
	}
	priceID := strings.TrimSpace(env.GetEnv("STRIPE_PRICE_ID", ""))
	if priceID == "" {
		return nil, errors.New("STRIPE_PRICE_ID is not configured")
	}

	return &stripeClient{
		api:        client.New(key, nil),
		priceID:    priceID,
		successURL: env.GetEnv("STRIPE_SUCCESS_URL", ""),
		cancelURL:  env.GetEnv("STRIPE_CANCEL_URL", ""),
	}, nil
}

func (s *stripeClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	cust, err := s.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (s *stripeClient) CreateCheckoutSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
		},
		Customer:                 stripe.String(customerID),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		AllowPromotionCodes:      stripe.Bool(true),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
