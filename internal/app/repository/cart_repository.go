package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// CartRepository stores carts as whole documents. Find methods return
// gorm.ErrRecordNotFound when the owner has no cart.
type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	FindByGuestID(guestID string) (*model.Cart, error)
	Save(cart *model.Cart) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"items":   len(cart.Products),
	})
	return &cart, nil
}

func (r *cartRepository) FindByGuestID(guestID string) (*model.Cart, error) {
	logger.Debug("Finding cart by guest ID in database", map[string]interface{}{
		"guest_id": guestID,
	})

	var cart model.Cart
	if err := r.db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
		return nil, err
	}

	logger.Debug("Cart found by guest ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"items":   len(cart.Products),
	})
	return &cart, nil
}

// Save inserts a new cart or overwrites every column of an existing one.
func (r *cartRepository) Save(cart *model.Cart) error {
	logger.Debug("Saving cart in database", map[string]interface{}{
		"cart_id": cart.ID,
		"items":   len(cart.Products),
		"total":   cart.TotalPrice.String(),
	})

	if err := r.db.Save(cart).Error; err != nil {
		logger.Error("Failed to save cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}

	logger.Debug("Cart saved in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": id,
	})

	if err := r.db.Delete(&model.Cart{}, id).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}
	return nil
}

// DeleteByUserID removes the user's cart. A missing cart is not an error.
func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.Cart{}).Error; err != nil {
		logger.Error("Failed to delete cart by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
