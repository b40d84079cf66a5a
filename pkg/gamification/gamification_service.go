package gamification

import (
	"context"
	"errors"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	GamificationService interface {
		GetStats(ctx context.Context, userID string) (*domain.GamificationStats, error)
		GetPointsHistory(ctx context.Context, userID string, limit int) ([]*domain.PointsLogResponse, error)
		GetLeaderboard(ctx context.Context) ([]*domain.LeaderboardEntry, error)
		GetBadges(ctx context.Context, userID string) ([]*domain.BadgeStatus, error)
		AwardPoints(ctx context.Context, userID string, amount int, reason string) (*entities.GamificationState, error)
	}

	gamificationService struct {
		gamificationRepository GamificationRepository
	}
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	leaderboardSize     = 10
)

func NewGamificationService(gamificationRepository GamificationRepository) GamificationService {
	return &gamificationService{gamificationRepository: gamificationRepository}
}

// GetStats returns zero-value defaults when the user has no state row yet;
// the row itself is created by the first point award.
func (s *gamificationService) GetStats(ctx context.Context, userID string) (*domain.GamificationStats, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	state, err := s.gamificationRepository.GetState(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tier := domain.LevelForPoints(0)
			return &domain.GamificationStats{
				Level:     tier.Level,
				LevelName: tier.Name,
				LevelIcon: tier.Icon,
				Badges:    []string{},
			}, nil
		}
		return nil, err
	}

	return statsFromState(state), nil
}

func (s *gamificationService) GetPointsHistory(ctx context.Context, userID string, limit int) ([]*domain.PointsLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.gamificationRepository.ListLog(ctx, userUUID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.PointsLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, &domain.PointsLogResponse{
			Points:    entry.Points,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result, nil
}

func (s *gamificationService) GetLeaderboard(ctx context.Context) ([]*domain.LeaderboardEntry, error) {
	states, err := s.gamificationRepository.TopStates(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.LeaderboardEntry, 0, len(states))
	for _, state := range states {
		name := ""
		if state.User != nil {
			name = state.User.Name
		}
		result = append(result, &domain.LeaderboardEntry{
			Name:   name,
			Points: state.Points,
			Level:  domain.LevelForPoints(state.Points).Level,
			Streak: state.Streak,
		})
	}
	return result, nil
}

// GetBadges returns the full badge catalog with an earned flag per badge.
func (s *gamificationService) GetBadges(ctx context.Context, userID string) ([]*domain.BadgeStatus, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	var unlocked entities.BadgeList
	state, err := s.gamificationRepository.GetState(ctx, userUUID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if state != nil {
		unlocked = state.Badges
	}

	result := make([]*domain.BadgeStatus, 0, len(domain.BadgeTable))
	for _, badge := range domain.BadgeTable {
		status := &domain.BadgeStatus{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
		}
		for _, entry := range unlocked {
			if entry.ID == badge.ID {
				status.Earned = true
				unlockedAt := entry.UnlockedAt
				status.UnlockedAt = &unlockedAt
				break
			}
		}
		result = append(result, status)
	}
	return result, nil
}

func (s *gamificationService) AwardPoints(ctx context.Context, userID string, amount int, reason string) (*entities.GamificationState, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.gamificationRepository.AddPoints(ctx, userUUID, amount, reason)
}

func statsFromState(state *entities.GamificationState) *domain.GamificationStats {
	tier := domain.LevelForPoints(state.Points)
	return &domain.GamificationStats{
		Points:         state.Points,
		Level:          tier.Level,
		LevelName:      tier.Name,
		LevelIcon:      tier.Icon,
		Streak:         state.Streak,
		LongestStreak:  state.LongestStreak,
		LastActiveDate: state.LastActiveDate,
		Badges:         state.Badges.IDs(),
	}
}
