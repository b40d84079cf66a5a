package gamification

import (
	"context"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	GamificationRepository interface {
		// WithTx returns a copy of the repository bound to an open
		// transaction so awards can join a caller's transaction.
		WithTx(tx *gorm.DB) GamificationRepository
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		GetState(ctx context.Context, userID uuid.UUID) (*entities.GamificationState, error)
		AddPoints(ctx context.Context, userID uuid.UUID, amount int, reason string) (*entities.GamificationState, error)
		UpdateStreak(ctx context.Context, userID uuid.UUID, update domain.StreakUpdate) error
		UnlockBadges(ctx context.Context, userID uuid.UUID, ids []string, at time.Time) (entities.BadgeList, error)
		GetBadgeStats(ctx context.Context, userID uuid.UUID) (domain.BadgeStats, error)
		ListLog(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.PointsLogEntry, error)
		SumLog(ctx context.Context, userID uuid.UUID) (int64, error)
		TopStates(ctx context.Context, limit int) ([]*entities.GamificationState, error)
	}

	gamificationRepository struct {
		db *gorm.DB
	}
)

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) WithTx(tx *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: tx}
}

func (r *gamificationRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *gamificationRepository) GetState(ctx context.Context, userID uuid.UUID) (*entities.GamificationState, error) {
	var state entities.GamificationState
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// AddPoints appends one ledger row and increments the state total with a
// single additive SET clause. Two concurrent awards for the same user both
// land; there is no read-modify-write on points. The cached level is
// recomputed from the post-increment total inside the same transaction.
func (r *gamificationRepository) AddPoints(ctx context.Context, userID uuid.UUID, amount int, reason string) (*entities.GamificationState, error) {
	if amount < 0 {
		return nil, domain.ErrNegativePointAward
	}

	var state entities.GamificationState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := &entities.PointsLogEntry{
			ID:     uuid.New(),
			UserID: userID,
			Points: amount,
			Reason: reason,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		seed := &entities.GamificationState{
			ID:     uuid.New(),
			UserID: userID,
			Points: amount,
			Level:  domain.LevelForPoints(amount).Level,
			Badges: entities.BadgeList{},
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"points":     gorm.Expr("gamification_states.points + ?", amount),
				"updated_at": time.Now(),
			}),
		}).Create(seed).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).First(&state).Error; err != nil {
			return err
		}

		level := domain.LevelForPoints(state.Points).Level
		if level != state.Level {
			if err := tx.Model(&entities.GamificationState{}).
				Where("user_id = ?", userID).
				Update("level", level).Error; err != nil {
				return err
			}
			state.Level = level
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *gamificationRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, update domain.StreakUpdate) error {
	return r.db.WithContext(ctx).Model(&entities.GamificationState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"streak":           update.Streak,
			"longest_streak":   update.LongestStreak,
			"last_active_date": update.LastActiveDate,
		}).Error
}

// UnlockBadges appends the given badge IDs that are not yet unlocked.
// Existing entries keep their original unlock timestamp.
func (r *gamificationRepository) UnlockBadges(ctx context.Context, userID uuid.UUID, ids []string, at time.Time) (entities.BadgeList, error) {
	var state entities.GamificationState
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, err
	}

	badges := state.Badges
	changed := false
	for _, id := range ids {
		if badges.Has(id) {
			continue
		}
		badges = append(badges, entities.BadgeEntry{ID: id, UnlockedAt: at})
		changed = true
	}

	if changed {
		if err := r.db.WithContext(ctx).Model(&entities.GamificationState{}).
			Where("user_id = ?", userID).
			Update("badges", badges).Error; err != nil {
			return nil, err
		}
	}
	return badges, nil
}

func (r *gamificationRepository) GetBadgeStats(ctx context.Context, userID uuid.UUID) (domain.BadgeStats, error) {
	stats := domain.BadgeStats{}

	if err := r.db.WithContext(ctx).Model(&entities.CompletedMeal{}).
		Where("user_id = ?", userID).
		Count(&stats.MealsCompleted).Error; err != nil {
		return stats, err
	}

	if err := r.db.WithContext(ctx).Model(&entities.Menu{}).
		Where("user_id = ?", userID).
		Count(&stats.MenusGenerated).Error; err != nil {
		return stats, err
	}

	if err := r.db.WithContext(ctx).Model(&entities.PointsLogEntry{}).
		Where("user_id = ? AND reason = ?", userID, domain.ReasonWeekCompleted).
		Count(&stats.WeeksCompleted).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

func (r *gamificationRepository) ListLog(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.PointsLogEntry, error) {
	var entries []*entities.PointsLogEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gamificationRepository) SumLog(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.PointsLogEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0) as total").
		Row().Scan(&total)
	return total, err
}

func (r *gamificationRepository) TopStates(ctx context.Context, limit int) ([]*entities.GamificationState, error) {
	var states []*entities.GamificationState
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("points DESC").
		Limit(limit).
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}
