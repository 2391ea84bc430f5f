package repository

import (
	"github.com/paperwall-app/paperwall/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpsertByEmail(user *models.User) error
	Update(user *models.User) error
	UpdateStripeCustomerID(userID uint, customerID string) error
	SetStripeCustomerIDByEmail(email, customerID string) (int64, error)
	Count() (int64, error)
}

// SubscriptionRepository defines the interface for subscription-related
// database operations
type SubscriptionRepository interface {
	Upsert(sub *models.Subscription) error
	GetByID(id string) (*models.Subscription, error)
	GetActiveByCustomerID(customerID string) (*models.Subscription, error)
	ListByCustomerID(customerID string) ([]models.Subscription, error)
}

// WebhookEventRepository defines the interface for webhook event
// deduplication records
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}
