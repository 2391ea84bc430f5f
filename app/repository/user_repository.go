package repository

import (
	"github.com/paperwall-app/paperwall/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByEmail inserts the user unless a row with the same email exists.
// Existing rows keep all of their fields; the passed struct is reloaded
// either way so the caller always sees the stored row.
func (r *userRepository) UpsertByEmail(user *models.User) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(user).Error; err != nil {
		return err
	}

	return r.db.Where("email = ?", user.Email).First(user).Error
}

// Update saves all fields of the user
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateStripeCustomerID persists the external payment customer id for a user.
func (r *userRepository) UpdateStripeCustomerID(userID uint, customerID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

// SetStripeCustomerIDByEmail links a payment customer id to the user matching
// the given email. Returns the number of affected rows; zero rows is not an
// error so webhook processing can treat a missing user as best-effort.
func (r *userRepository) SetStripeCustomerIDByEmail(email, customerID string) (int64, error) {
	tx := r.db.Model(&models.User{}).Where("email = ?", email).
		Update("stripe_customer_id", customerID)
	return tx.RowsAffected, tx.Error
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
