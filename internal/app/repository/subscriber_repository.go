package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriberRepository interface {
	Create(subscriber *model.Subscriber) error
	FindByEmail(email string) (*model.Subscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(subscriber *model.Subscriber) error {
	if err := r.db.Create(subscriber).Error; err != nil {
		logger.Error("Failed to create subscriber in database", err, map[string]interface{}{
			"email": subscriber.Email,
		})
		return err
	}

	logger.Debug("Subscriber created in database", map[string]interface{}{
		"subscriber_id": subscriber.ID,
	})
	return nil
}

func (r *subscriberRepository) FindByEmail(email string) (*model.Subscriber, error) {
	var subscriber model.Subscriber
	if err := r.db.Where("email = ?", email).First(&subscriber).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}
