package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/paperwall-app/paperwall/app/models"
	"github.com/paperwall-app/paperwall/app/repository"
)

// Service reconciles payment-provider subscription state into the local
// store. All operations are single idempotent upserts; retries are the
// provider's responsibility via webhook redelivery on non-2xx responses.
type Service struct {
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	events repository.WebhookEventRepository
}

// NewService creates a billing service from injected repositories.
func NewService(users repository.UserRepository, subs repository.SubscriptionRepository, events repository.WebhookEventRepository) *Service {
	return &Service{users: users, subs: subs, events: events}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	repos := repository.NewRepositories(db)
	return NewService(repos.User, repos.Subscription, repos.WebhookEvent)
}

// SyncSubscription upserts the subscription row described by a provider
// event. Each event overwrites the whole row matching its id, so replaying
// the identical event is a no-op.
func (s *Service) SyncSubscription(ctx context.Context, in SubscriptionUpdate, rawPayload []byte) (*models.Subscription, error) {
	_ = ctx
	if strings.TrimSpace(in.ID) == "" {
		return nil, errors.New("subscription id is required")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, errors.New("customer id is required")
	}

	status := models.NormalizeSubscriptionStatus(in.Status)
	if status == "" {
		status = models.SubscriptionStatusIncomplete
	}

	sub := &models.Subscription{
		ID:                strings.TrimSpace(in.ID),
		CustomerID:        strings.TrimSpace(in.CustomerID),
		Status:            status,
		PriceID:           strings.TrimSpace(in.PriceID),
		CurrentPeriodEnd:  in.CurrentPeriodEnd,
		CancelAtPeriodEnd: in.CancelAtPeriodEnd,
		RawPayloadJSON:    string(rawPayload),
	}
	if err := s.subs.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// LinkCustomerByEmail attaches a provider customer id to the user matching
// the email from a checkout completion event. Best-effort: a missing user
// row is logged but does not fail the delivery, since the webhook may arrive
// before the sign-in upsert has run.
func (s *Service) LinkCustomerByEmail(ctx context.Context, email, customerID string) error {
	_ = ctx
	email = strings.TrimSpace(email)
	customerID = strings.TrimSpace(customerID)
	if email == "" || customerID == "" {
		return nil
	}

	affected, err := s.users.SetStripeCustomerIDByEmail(email, customerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Printf("billing: no user row for checkout email %s, customer %s left unlinked", email, customerID)
	}
	return nil
}

// ActiveSubscriptionForCustomer returns the customer's active subscription
// or nil when none exists.
func (s *Service) ActiveSubscriptionForCustomer(ctx context.Context, customerID string) (*models.Subscription, error) {
	_ = ctx
	if strings.TrimSpace(customerID) == "" {
		return nil, nil
	}
	sub, err := s.subs.GetActiveByCustomerID(customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. The bool result
// reports whether this delivery was the first one seen.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.events.CreateIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.events.MarkProcessed(webhookEventID, errMsg)
}
