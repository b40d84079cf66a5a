package entities

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingItem is one purchasable line of a menu's shopping list. The pair
// (menu_id, item_name, category) is the identity used for reconciliation
// merges, matched by exact string comparison.
type ShoppingItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	MenuID      uuid.UUID  `gorm:"type:uuid;index" json:"menu_id"`
	ItemName    string     `gorm:"type:varchar(200)" json:"item_name"`
	Quantity    string     `gorm:"type:varchar(50)" json:"quantity,omitempty"`
	Category    string     `gorm:"type:varchar(50)" json:"category"`
	IsPurchased bool       `json:"is_purchased"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Menu *Menu `gorm:"foreignKey:MenuID"`
	Timestamp
}
