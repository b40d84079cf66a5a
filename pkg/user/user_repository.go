package user

import (
	"context"
	"time"

	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		Create(ctx context.Context, user *entities.User) error
		GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetByEmail(ctx context.Context, email string) (*entities.User, error)
		Update(ctx context.Context, user *entities.User) error
		SetPremium(ctx context.Context, userID uuid.UUID, premium bool, until *time.Time) error

		CreateProfile(ctx context.Context, profile *entities.Profile) error
		GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
		UpdateProfile(ctx context.Context, profile *entities.Profile) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) SetPremium(ctx context.Context, userID uuid.UUID, premium bool, until *time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_premium":    premium,
			"premium_until": until,
		}).Error
}

func (r *userRepository) CreateProfile(ctx context.Context, profile *entities.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *userRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *entities.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
