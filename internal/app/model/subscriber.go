package model

import "time"

// Subscriber is a newsletter sign-up. Emails are stored normalized.
type Subscriber struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribedAt"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}
