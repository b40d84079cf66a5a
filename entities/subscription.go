package entities

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Status           string     `gorm:"type:varchar(20)" json:"status"` // free, trial, active
	TrialStart       *time.Time `json:"trial_start,omitempty"`
	TrialEnd         *time.Time `json:"trial_end,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
