package menu

import (
	"context"
	"errors"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MenuRepository interface {
		WithTx(tx *gorm.DB) MenuRepository
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		Create(ctx context.Context, menu *entities.Menu) error
		GetByID(ctx context.Context, id uuid.UUID) (*entities.Menu, error)
		GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.Menu, error)
		ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Menu, int64, error)
		DeactivateAll(ctx context.Context, userID uuid.UUID) error
		UpdateDaysAndSnapshot(ctx context.Context, menuID uuid.UUID, days entities.MenuDays, snapshot entities.ShoppingSnapshot) error

		CreateCompletedMeal(ctx context.Context, completed *entities.CompletedMeal) error
		CountCompletedForDay(ctx context.Context, menuID uuid.UUID, dayIndex int) (int64, error)
		CountCompletedForMenu(ctx context.Context, menuID uuid.UUID) (int64, error)
	}

	menuRepository struct {
		db *gorm.DB
	}
)

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) WithTx(tx *gorm.DB) MenuRepository {
	return &menuRepository{db: tx}
}

func (r *menuRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *menuRepository) Create(ctx context.Context, menu *entities.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Menu, int64, error) {
	var menus []*entities.Menu
	var count int64

	if err := r.db.WithContext(ctx).Model(&entities.Menu{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&menus).Error; err != nil {
		return nil, 0, err
	}

	return menus, count, nil
}

func (r *menuRepository) DeactivateAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entities.Menu{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
}

func (r *menuRepository) UpdateDaysAndSnapshot(ctx context.Context, menuID uuid.UUID, days entities.MenuDays, snapshot entities.ShoppingSnapshot) error {
	return r.db.WithContext(ctx).Model(&entities.Menu{}).
		Where("id = ?", menuID).
		Updates(map[string]interface{}{
			"days":          days,
			"shopping_list": snapshot,
		}).Error
}

// CreateCompletedMeal relies on the unique index over
// (menu_id, day_index, meal_type): under two concurrent requests exactly one
// insert succeeds and the loser gets ErrMealAlreadyCompleted.
func (r *menuRepository) CreateCompletedMeal(ctx context.Context, completed *entities.CompletedMeal) error {
	if err := r.db.WithContext(ctx).Create(completed).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrMealAlreadyCompleted
		}
		return err
	}
	return nil
}

func (r *menuRepository) CountCompletedForDay(ctx context.Context, menuID uuid.UUID, dayIndex int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.CompletedMeal{}).
		Where("menu_id = ? AND day_index = ?", menuID, dayIndex).
		Count(&count).Error
	return count, err
}

func (r *menuRepository) CountCompletedForMenu(ctx context.Context, menuID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.CompletedMeal{}).
		Where("menu_id = ?", menuID).
		Count(&count).Error
	return count, err
}
