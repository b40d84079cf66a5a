package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetShoppingList = "shopping list retrieved successfully"
	MessageSuccessToggleItem      = "shopping item toggled successfully"
	MessageSuccessAddItem         = "shopping item added successfully"
	MessageSuccessDeleteItem      = "shopping item deleted successfully"

	MessageFailedGetShoppingList = "failed to retrieve shopping list"
	MessageFailedToggleItem      = "failed to toggle shopping item"
	MessageFailedAddItem         = "failed to add shopping item"
	MessageFailedDeleteItem      = "failed to delete shopping item"

	ErrShoppingItemNotFound = errors.New("shopping item not found")
)

// DefaultCategory is the bucket for items without an explicit category.
const DefaultCategory = "Otros"

type (
	AddShoppingItemRequest struct {
		ItemName string `json:"item_name" validate:"required,max=200"`
		Quantity string `json:"quantity" validate:"omitempty,max=50"`
		Category string `json:"category" validate:"omitempty,max=50"`
	}

	ShoppingItemResponse struct {
		ID          string     `json:"id"`
		ItemName    string     `json:"item_name"`
		Quantity    string     `json:"quantity,omitempty"`
		Category    string     `json:"category"`
		IsPurchased bool       `json:"is_purchased"`
		PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	}

	ShoppingCategory struct {
		Category string                 `json:"category"`
		Items    []ShoppingItemResponse `json:"items"`
	}

	CategorizedShoppingList struct {
		MenuID         string             `json:"menu_id"`
		Categories     []ShoppingCategory `json:"categories"`
		TotalItems     int                `json:"total_items"`
		PurchasedItems int                `json:"purchased_items"`
	}
)
