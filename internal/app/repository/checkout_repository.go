package repository

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CheckoutRepository interface {
	Create(checkout *model.Checkout) error
	FindByID(id uint) (*model.Checkout, error)
	FindByUserID(userID uint) ([]model.Checkout, error)
	FindPaidUnfinalized(paidBefore time.Time) ([]model.Checkout, error)
	Save(checkout *model.Checkout) error
}

type checkoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) Create(checkout *model.Checkout) error {
	logger.Debug("Creating checkout in database", map[string]interface{}{
		"user_id": checkout.UserID,
		"items":   len(checkout.CheckoutItems),
	})

	if err := r.db.Create(checkout).Error; err != nil {
		logger.Error("Failed to create checkout in database", err, map[string]interface{}{
			"user_id": checkout.UserID,
		})
		return err
	}

	logger.Debug("Checkout created in database", map[string]interface{}{
		"checkout_id": checkout.ID,
	})
	return nil
}

func (r *checkoutRepository) FindByID(id uint) (*model.Checkout, error) {
	var checkout model.Checkout
	if err := r.db.First(&checkout, id).Error; err != nil {
		logger.Debug("Checkout not loaded by ID", map[string]interface{}{
			"checkout_id": id,
			"error":       err.Error(),
		})
		return nil, err
	}
	return &checkout, nil
}

// FindByUserID lists a user's checkouts, newest first.
func (r *checkoutRepository) FindByUserID(userID uint) ([]model.Checkout, error) {
	var checkouts []model.Checkout
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&checkouts).Error
	if err != nil {
		logger.Error("Failed to find checkouts by user ID", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return checkouts, nil
}

// FindPaidUnfinalized lists checkouts stuck between payment and order
// creation since before paidBefore, oldest first.
func (r *checkoutRepository) FindPaidUnfinalized(paidBefore time.Time) ([]model.Checkout, error) {
	var checkouts []model.Checkout
	err := r.db.Where("is_paid = ? AND is_finalized = ? AND paid_at < ?", true, false, paidBefore).
		Order("paid_at ASC").
		Find(&checkouts).Error
	if err != nil {
		logger.Error("Failed to find paid unfinalized checkouts", err)
		return nil, err
	}
	return checkouts, nil
}

func (r *checkoutRepository) Save(checkout *model.Checkout) error {
	logger.Debug("Saving checkout in database", map[string]interface{}{
		"checkout_id": checkout.ID,
		"state":       checkout.State,
	})

	if err := r.db.Save(checkout).Error; err != nil {
		logger.Error("Failed to save checkout in database", err, map[string]interface{}{
			"checkout_id": checkout.ID,
			"state":       checkout.State,
		})
		return err
	}
	return nil
}
