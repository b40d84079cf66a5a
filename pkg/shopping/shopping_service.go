package shopping

import (
	"context"
	"errors"
	"sort"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingService interface {
		GetCategorizedList(ctx context.Context, userID string) (*domain.CategorizedShoppingList, error)
		ToggleItem(ctx context.Context, itemID string, userID string) (*domain.ShoppingItemResponse, error)
		AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (*domain.ShoppingItemResponse, error)
		DeleteItem(ctx context.Context, itemID string, userID string) error
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		now                func() time.Time
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		now:                time.Now,
	}
}

// GetCategorizedList projects the active menu's items grouped by their
// verbatim category string. Categories are ordered by name so responses are
// deterministic.
func (s *shoppingService) GetCategorizedList(ctx context.Context, userID string) (*domain.CategorizedShoppingList, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	menu, err := s.shoppingRepository.GetActiveMenu(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveMenu
		}
		return nil, err
	}

	items, err := s.shoppingRepository.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.ShoppingItemResponse)
	purchased := 0
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = domain.DefaultCategory
		}
		grouped[category] = append(grouped[category], itemResponse(item))
		if item.IsPurchased {
			purchased++
		}
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]domain.ShoppingCategory, 0, len(names))
	for _, name := range names {
		categories = append(categories, domain.ShoppingCategory{
			Category: name,
			Items:    grouped[name],
		})
	}

	return &domain.CategorizedShoppingList{
		MenuID:         menu.ID.String(),
		Categories:     categories,
		TotalItems:     len(items),
		PurchasedItems: purchased,
	}, nil
}

// ToggleItem flips the purchased flag, setting or clearing purchased_at in
// the same update, then refreshes the owning menu's snapshot.
func (s *shoppingService) ToggleItem(ctx context.Context, itemID string, userID string) (*domain.ShoppingItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, domain.ErrShoppingItemNotFound
	}

	item, err := s.shoppingRepository.GetByIDForUser(ctx, itemUUID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingItemNotFound
		}
		return nil, err
	}

	item.IsPurchased = !item.IsPurchased
	if item.IsPurchased {
		at := s.now()
		item.PurchasedAt = &at
	} else {
		item.PurchasedAt = nil
	}

	err = s.shoppingRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.shoppingRepository.WithTx(tx)
		if err := txRepo.SetPurchased(ctx, item.ID, item.IsPurchased, item.PurchasedAt); err != nil {
			return err
		}
		return refreshSnapshot(ctx, txRepo, item.MenuID)
	})
	if err != nil {
		return nil, err
	}

	res := itemResponse(item)
	return &res, nil
}

// AddItem attaches a manual item to the user's active menu. Without an active
// menu there is nothing to attach to, which is a domain error rather than a
// silent drop.
func (s *shoppingService) AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (*domain.ShoppingItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	menu, err := s.shoppingRepository.GetActiveMenu(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveMenu
		}
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	item := &entities.ShoppingItem{
		ID:       uuid.New(),
		UserID:   userUUID,
		MenuID:   menu.ID,
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Category: category,
	}

	err = s.shoppingRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.shoppingRepository.WithTx(tx)
		if err := txRepo.Create(ctx, item); err != nil {
			return err
		}
		return refreshSnapshot(ctx, txRepo, menu.ID)
	})
	if err != nil {
		return nil, err
	}

	res := itemResponse(item)
	return &res, nil
}

func (s *shoppingService) DeleteItem(ctx context.Context, itemID string, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return domain.ErrShoppingItemNotFound
	}

	item, err := s.shoppingRepository.GetByIDForUser(ctx, itemUUID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrShoppingItemNotFound
		}
		return err
	}

	return s.shoppingRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.shoppingRepository.WithTx(tx)
		if err := txRepo.Delete(ctx, item.ID); err != nil {
			return err
		}
		return refreshSnapshot(ctx, txRepo, item.MenuID)
	})
}

// refreshSnapshot regenerates the menu's denormalized shopping list wholesale
// from the current rows, inside the caller's transaction.
func refreshSnapshot(ctx context.Context, repo ShoppingRepository, menuID uuid.UUID) error {
	items, err := repo.ListByMenu(ctx, menuID)
	if err != nil {
		return err
	}
	return repo.UpdateMenuSnapshot(ctx, menuID, entities.BuildSnapshot(items))
}

func itemResponse(item *entities.ShoppingItem) domain.ShoppingItemResponse {
	return domain.ShoppingItemResponse{
		ID:          item.ID.String(),
		ItemName:    item.ItemName,
		Quantity:    item.Quantity,
		Category:    item.Category,
		IsPurchased: item.IsPurchased,
		PurchasedAt: item.PurchasedAt,
	}
}
