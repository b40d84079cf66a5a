package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Menu is the weekly plan. Days holds the nested day/meal-slot structure and
// ShoppingList is the denormalized snapshot of the menu's ShoppingItem rows,
// regenerated wholesale whenever those rows change.
type Menu struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;index" json:"user_id"`
	WeekStart     time.Time        `gorm:"type:timestamp" json:"week_start"`
	Days          MenuDays         `gorm:"type:text" json:"days"`
	ShoppingList  ShoppingSnapshot `gorm:"type:text" json:"shopping_list"`
	EstimatedCost float64          `json:"estimated_cost"`
	IsActive      bool             `gorm:"index" json:"is_active"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

type Meal struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions,omitempty"`
	PrepTime     int      `json:"prep_time,omitempty"`
	Calories     int      `json:"calories,omitempty"`
}

// MenuDay maps meal-slot names (breakfast/lunch/dinner) to meals. A slot
// absent from the map is not scheduled for that day.
type MenuDay struct {
	Date  string           `json:"date"`
	Meals map[string]*Meal `json:"meals"`
}

type MenuDays []MenuDay

func (d MenuDays) Value() (driver.Value, error) {
	if d == nil {
		d = MenuDays{}
	}
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *MenuDays) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// TotalSlots counts every scheduled meal slot across the week.
func (d MenuDays) TotalSlots() int {
	total := 0
	for _, day := range d {
		total += len(day.Meals)
	}
	return total
}

type SnapshotItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

type ShoppingSnapshot []SnapshotItem

func (s ShoppingSnapshot) Value() (driver.Value, error) {
	if s == nil {
		s = ShoppingSnapshot{}
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *ShoppingSnapshot) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// BuildSnapshot derives the denormalized menu snapshot from the current
// ShoppingItem rows.
func BuildSnapshot(items []*ShoppingItem) ShoppingSnapshot {
	snapshot := make(ShoppingSnapshot, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, SnapshotItem{
			Name:     item.ItemName,
			Quantity: item.Quantity,
			Category: item.Category,
			Checked:  item.IsPurchased,
		})
	}
	return snapshot
}
