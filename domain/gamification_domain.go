package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetStats       = "gamification stats retrieved successfully"
	MessageSuccessGetHistory     = "points history retrieved successfully"
	MessageSuccessGetLeaderboard = "leaderboard retrieved successfully"
	MessageSuccessGetBadges      = "badges retrieved successfully"

	MessageFailedGetStats       = "failed to retrieve gamification stats"
	MessageFailedGetPoints      = "failed to retrieve points history"
	MessageFailedGetLeaderboard = "failed to retrieve leaderboard"
	MessageFailedGetBadges      = "failed to retrieve badges"

	ErrNegativePointAward = errors.New("point award must not be negative")
)

// Point awards. Values are configuration, logged to the ledger under the
// matching reason code.
const (
	PointsWelcomeBonus  = 100
	PointsMenuGenerated = 10
	PointsMealCompleted = 10
	PointsDayCompleted  = 25
	PointsWeekCompleted = 100

	ReasonWelcomeBonus  = "welcome_bonus"
	ReasonMenuGenerated = "menu_generated"
	ReasonMealCompleted = "meal_completed"
	ReasonDayCompleted  = "day_completed"
	ReasonWeekCompleted = "week_completed"
)

// LevelTier is one row of the fixed ascending level table.
type LevelTier struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	MinPoints int    `json:"min_points"`
}

// LevelTable is ordered by ascending MinPoints; the first entry must start at 0.
var LevelTable = []LevelTier{
	{Level: 1, Name: "Principiante", Icon: "🥄", MinPoints: 0},
	{Level: 2, Name: "Aprendiz", Icon: "🍳", MinPoints: 100},
	{Level: 3, Name: "Cocinillas", Icon: "🥘", MinPoints: 300},
	{Level: 4, Name: "Chef Casero", Icon: "👨‍🍳", MinPoints: 700},
	{Level: 5, Name: "Sous Chef", Icon: "🔪", MinPoints: 1500},
	{Level: 6, Name: "Chef", Icon: "🍽️", MinPoints: 3000},
	{Level: 7, Name: "Chef Estrella", Icon: "⭐", MinPoints: 5000},
	{Level: 8, Name: "Maestro Culinario", Icon: "🏆", MinPoints: 7000},
}

// LevelForPoints returns the highest tier whose threshold is <= points.
func LevelForPoints(points int) LevelTier {
	tier := LevelTable[0]
	for _, candidate := range LevelTable {
		if points >= candidate.MinPoints {
			tier = candidate
		}
	}
	return tier
}

// BadgeStats is the snapshot badge predicates are evaluated against.
type BadgeStats struct {
	Points         int
	Streak         int
	MealsCompleted int64
	MenusGenerated int64
	WeeksCompleted int64
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	Rule func(BadgeStats) bool `json:"-"`
}

// BadgeTable is evaluated in declaration order. Each unlock is independent,
// so the order only fixes the order of newly-unlocked IDs in responses.
var BadgeTable = []Badge{
	{ID: "first_menu", Name: "Primer Menú", Description: "Genera tu primer menú", Icon: "🎯",
		Rule: func(s BadgeStats) bool { return s.MenusGenerated >= 1 }},
	{ID: "primera_comida", Name: "Primera Comida", Description: "Completa tu primera comida", Icon: "🍴",
		Rule: func(s BadgeStats) bool { return s.MealsCompleted >= 1 }},
	{ID: "week_streak", Name: "Racha Semanal", Description: "7 días seguidos", Icon: "🔥",
		Rule: func(s BadgeStats) bool { return s.Streak >= 7 }},
	{ID: "month_streak", Name: "Racha Mensual", Description: "30 días seguidos", Icon: "💫",
		Rule: func(s BadgeStats) bool { return s.Streak >= 30 }},
	{ID: "chef_novato", Name: "Chef Novato", Description: "Completa 10 comidas", Icon: "👨‍🍳",
		Rule: func(s BadgeStats) bool { return s.MealsCompleted >= 10 }},
	{ID: "chef_experto", Name: "Chef Experto", Description: "Completa 100 comidas", Icon: "⭐",
		Rule: func(s BadgeStats) bool { return s.MealsCompleted >= 100 }},
	{ID: "semana_completa", Name: "Semana Completa", Description: "Completa una semana entera", Icon: "🗓️",
		Rule: func(s BadgeStats) bool { return s.WeeksCompleted >= 1 }},
	{ID: "gran_maestro", Name: "Gran Maestro", Description: "Alcanza 7000 puntos", Icon: "🏆",
		Rule: func(s BadgeStats) bool { return s.Points >= 7000 }},
}

// StreakUpdate is the outcome of applying one activity day to a streak.
type StreakUpdate struct {
	Streak         int
	LongestStreak  int
	LastActiveDate time.Time
	Changed        bool
}

// NextStreak applies the day-truncated streak rules: same day is a no-op,
// exactly one day later extends the streak, anything else resets it to 1.
// LongestStreak never decreases.
func NextStreak(lastActive *time.Time, streak, longestStreak int, now time.Time) StreakUpdate {
	today := TruncateToDay(now)

	if lastActive != nil {
		last := TruncateToDay(*lastActive)
		diffDays := int(today.Sub(last).Hours() / 24)

		switch {
		case diffDays == 0:
			return StreakUpdate{Streak: streak, LongestStreak: longestStreak, LastActiveDate: last, Changed: false}
		case diffDays == 1:
			next := streak + 1
			longest := longestStreak
			if next > longest {
				longest = next
			}
			return StreakUpdate{Streak: next, LongestStreak: longest, LastActiveDate: today, Changed: true}
		}
	}

	longest := longestStreak
	if longest < 1 {
		longest = 1
	}
	return StreakUpdate{Streak: 1, LongestStreak: longest, LastActiveDate: today, Changed: true}
}

func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewlyUnlocked returns the IDs of badges whose rule holds but are not yet in
// owned, in table order.
func NewlyUnlocked(stats BadgeStats, owned func(id string) bool) []string {
	var unlocked []string
	for _, badge := range BadgeTable {
		if owned(badge.ID) {
			continue
		}
		if badge.Rule(stats) {
			unlocked = append(unlocked, badge.ID)
		}
	}
	return unlocked
}

type (
	GamificationStats struct {
		Points         int        `json:"points"`
		Level          int        `json:"level"`
		LevelName      string     `json:"level_name"`
		LevelIcon      string     `json:"level_icon"`
		Streak         int        `json:"streak"`
		LongestStreak  int        `json:"longest_streak"`
		LastActiveDate *time.Time `json:"last_active_date,omitempty"`
		Badges         []string   `json:"badges"`
	}

	PointsLogResponse struct {
		Points    int       `json:"points"`
		Reason    string    `json:"reason"`
		CreatedAt time.Time `json:"created_at"`
	}

	LeaderboardEntry struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
		Level  int    `json:"level"`
		Streak int    `json:"streak"`
	}

	BadgeStatus struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Icon        string     `json:"icon"`
		Earned      bool       `json:"earned"`
		UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	}
)
