package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriberService interface {
	Subscribe(email string) (*model.Subscriber, error)
}

type subscriberService struct {
	subscriberRepo repository.SubscriberRepository
}

func NewSubscriberService(subscriberRepo repository.SubscriberRepository) SubscriberService {
	return &subscriberService{subscriberRepo: subscriberRepo}
}

// Subscribe adds email to the newsletter list. An address is subscribed at
// most once, compared case-insensitively.
func (s *subscriberService) Subscribe(email string) (*model.Subscriber, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrSubscriberEmailRequired
	}

	_, err := s.subscriberRepo.FindByEmail(email)
	switch {
	case err == nil:
		logger.Warn("Newsletter subscription rejected: already subscribed", map[string]interface{}{
			"email": email,
		})
		return nil, ErrAlreadySubscribed
	case !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error("Failed to check subscriber", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	subscriber := &model.Subscriber{Email: email}
	if err := s.subscriberRepo.Create(subscriber); err != nil {
		return nil, err
	}

	logger.Info("Newsletter subscription created", map[string]interface{}{
		"subscriber_id": subscriber.ID,
	})
	return subscriber, nil
}
