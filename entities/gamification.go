package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GamificationState is the derived per-user summary. Points must always equal
// the sum of the user's PointsLogEntry rows; level is a cache recomputed from
// points after every award.
type GamificationState struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Points         int        `json:"points"`
	Level          int        `gorm:"default:1" json:"level"`
	Streak         int        `json:"streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `gorm:"type:timestamp" json:"last_active_date,omitempty"`
	Badges         BadgeList  `gorm:"type:text" json:"badges"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// PointsLogEntry is the append-only audit trail of point awards.
type PointsLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Points    int       `json:"points"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"`
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}

type BadgeEntry struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type BadgeList []BadgeEntry

func (l BadgeList) Value() (driver.Value, error) {
	if l == nil {
		l = BadgeList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *BadgeList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func (l BadgeList) Has(id string) bool {
	for _, badge := range l {
		if badge.ID == id {
			return true
		}
	}
	return false
}

func (l BadgeList) IDs() []string {
	ids := make([]string, 0, len(l))
	for _, badge := range l {
		ids = append(ids, badge.ID)
	}
	return ids
}
