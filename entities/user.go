package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;autoUpdateTime" json:"updated_at"`
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Password     string     `json:"-"`
	Name         string     `gorm:"type:varchar(100)" json:"name"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`

	Timestamp
}

// Profile holds the dietary preferences fed into menu generation and swaps.
type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	BudgetWeekly float64    `gorm:"default:50" json:"budget_weekly"`
	Diners       int        `gorm:"default:2" json:"diners"`
	MealsPerDay  int        `gorm:"default:3" json:"meals_per_day"`
	DaysPerWeek  int        `gorm:"default:7" json:"days_per_week"`
	DietType     string     `gorm:"type:varchar(50);default:omnivora" json:"diet_type"`
	Allergies    StringList `gorm:"type:text" json:"allergies"`
	Dislikes     StringList `gorm:"type:text" json:"dislikes"`
	PantryItems  StringList `gorm:"type:text" json:"pantry_items"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSON column")
	}
}
