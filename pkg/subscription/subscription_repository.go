package subscription

import (
	"context"

	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	SubscriptionRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
		// CreateIfAbsent inserts the subscription unless the user already has
		// one; it reports whether the row was actually created.
		CreateIfAbsent(ctx context.Context, sub *entities.Subscription) (bool, error)
		Update(ctx context.Context, sub *entities.Subscription) error
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var sub entities.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) CreateIfAbsent(ctx context.Context, sub *entities.Subscription) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(sub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
