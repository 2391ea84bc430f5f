package models

import (
	"strings"
	"time"
)

// Subscription statuses mirror the payment processor's vocabulary. The
// application never initiates transitions, it only stores externally-driven
// ones.
const (
	SubscriptionStatusActive            = "active"
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusUnpaid            = "unpaid"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusPaused            = "paused"
)

// Subscription mirrors a Stripe subscription. The primary key is the
// provider's subscription id; each webhook event overwrites the whole row.
type Subscription struct {
	ID                string     `gorm:"primaryKey;type:varchar(191)" json:"id"`
	CustomerID        string     `gorm:"type:varchar(191);not null;index:idx_subscriptions_customer_status,priority:1" json:"customer_id"`
	Status            string     `gorm:"type:varchar(32);not null;index:idx_subscriptions_customer_status,priority:2" json:"status"`
	PriceID           string     `gorm:"type:varchar(191);not null" json:"price_id"`
	CurrentPeriodEnd  *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `gorm:"default:false" json:"cancel_at_period_end"`
	RawPayloadJSON    string     `gorm:"type:longtext" json:"-"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether this row grants premium content access.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsTerminalSubscriptionStatus reports whether a status can never transition
// to another state.
func IsTerminalSubscriptionStatus(status string) bool {
	switch NormalizeSubscriptionStatus(status) {
	case SubscriptionStatusCanceled, SubscriptionStatusIncompleteExpired:
		return true
	default:
		return false
	}
}

// NormalizeSubscriptionStatus lowercases and trims a provider status string.
func NormalizeSubscriptionStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
