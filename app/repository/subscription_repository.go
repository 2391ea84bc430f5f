package repository

import (
	"github.com/paperwall-app/paperwall/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert inserts or wholesale-replaces the row matching the subscription id.
// The store's insert-or-replace semantics are the only concurrency guard;
// concurrent deliveries for one id resolve last-writer-wins.
func (r *subscriptionRepository) Upsert(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_id",
			"status",
			"price_id",
			"current_period_end",
			"cancel_at_period_end",
			"raw_payload_json",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	return r.db.Where("id = ?", sub.ID).First(sub).Error
}

// GetByID retrieves a subscription by its provider id
func (r *subscriptionRepository) GetByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActiveByCustomerID returns the active subscription for a customer, or
// gorm.ErrRecordNotFound. If several rows are active the most recently
// updated one wins, which keeps the read deterministic.
func (r *subscriptionRepository) GetActiveByCustomerID(customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where("customer_id = ? AND status = ?", customerID, models.SubscriptionStatusActive).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByCustomerID returns all subscription rows ever recorded for a customer
func (r *subscriptionRepository) ListByCustomerID(customerID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}
