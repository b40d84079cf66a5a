package entities

import (
	"time"

	"github.com/google/uuid"
)

// CompletedMeal records that one meal slot was eaten. The composite unique
// index makes a second completion of the same slot fail at the storage layer,
// which is how concurrent duplicate requests resolve to one success.
type CompletedMeal struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	MenuID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_completed_meal_slot" json:"menu_id"`
	DayIndex    int       `gorm:"uniqueIndex:idx_completed_meal_slot" json:"day_index"`
	MealType    string    `gorm:"type:varchar(20);uniqueIndex:idx_completed_meal_slot" json:"meal_type"`
	CompletedAt time.Time `gorm:"type:timestamp" json:"completed_at"`
	Rating      *int      `json:"rating,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Menu *Menu `gorm:"foreignKey:MenuID"`
}
