package shopping

import (
	"context"
	"time"

	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		WithTx(tx *gorm.DB) ShoppingRepository
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		CreateBatch(ctx context.Context, items []*entities.ShoppingItem) error
		Create(ctx context.Context, item *entities.ShoppingItem) error
		ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*entities.ShoppingItem, error)
		GetByIDForUser(ctx context.Context, itemID, userID uuid.UUID) (*entities.ShoppingItem, error)
		SetPurchased(ctx context.Context, itemID uuid.UUID, purchased bool, purchasedAt *time.Time) error
		Delete(ctx context.Context, itemID uuid.UUID) error

		// Reconciliation primitives keyed by the exact (menu, name, category)
		// pair.
		FindByKey(ctx context.Context, menuID uuid.UUID, name, category string) (*entities.ShoppingItem, error)
		DeleteByKey(ctx context.Context, menuID uuid.UUID, name, category string) error
		UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity string) error

		GetActiveMenu(ctx context.Context, userID uuid.UUID) (*entities.Menu, error)
		UpdateMenuSnapshot(ctx context.Context, menuID uuid.UUID, snapshot entities.ShoppingSnapshot) error
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) WithTx(tx *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: tx}
}

func (r *shoppingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *shoppingRepository) CreateBatch(ctx context.Context, items []*entities.ShoppingItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *shoppingRepository) Create(ctx context.Context, item *entities.ShoppingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *shoppingRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*entities.ShoppingItem, error) {
	var items []*entities.ShoppingItem
	if err := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("category asc, item_name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) GetByIDForUser(ctx context.Context, itemID, userID uuid.UUID) (*entities.ShoppingItem, error) {
	var item entities.ShoppingItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) SetPurchased(ctx context.Context, itemID uuid.UUID, purchased bool, purchasedAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.ShoppingItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"is_purchased": purchased,
			"purchased_at": purchasedAt,
		}).Error
}

func (r *shoppingRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&entities.ShoppingItem{}).Error
}

func (r *shoppingRepository) FindByKey(ctx context.Context, menuID uuid.UUID, name, category string) (*entities.ShoppingItem, error) {
	var item entities.ShoppingItem
	if err := r.db.WithContext(ctx).
		Where("menu_id = ? AND item_name = ? AND category = ?", menuID, name, category).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteByKey removes all rows matching the key. Matching nothing is a no-op,
// which keeps removals idempotent.
func (r *shoppingRepository) DeleteByKey(ctx context.Context, menuID uuid.UUID, name, category string) error {
	return r.db.WithContext(ctx).
		Where("menu_id = ? AND item_name = ? AND category = ?", menuID, name, category).
		Delete(&entities.ShoppingItem{}).Error
}

func (r *shoppingRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity string) error {
	return r.db.WithContext(ctx).Model(&entities.ShoppingItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *shoppingRepository) GetActiveMenu(ctx context.Context, userID uuid.UUID) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *shoppingRepository) UpdateMenuSnapshot(ctx context.Context, menuID uuid.UUID, snapshot entities.ShoppingSnapshot) error {
	return r.db.WithContext(ctx).Model(&entities.Menu{}).
		Where("id = ?", menuID).
		Update("shopping_list", snapshot).Error
}
