package menu

import (
	"context"
	"errors"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"
	"Planeat-Backend/pkg/gamification"
	"Planeat-Backend/pkg/generator"
	"Planeat-Backend/pkg/shopping"
	"Planeat-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MenuService interface {
		GenerateMenu(ctx context.Context, req domain.GenerateMenuRequest, userID string) (*domain.MenuResponse, error)
		GetActiveMenu(ctx context.Context, userID string) (*domain.MenuResponse, error)
		GetHistory(ctx context.Context, userID string, page, limit int) ([]*domain.MenuSummary, int64, error)
		SwapMeal(ctx context.Context, req domain.SwapMealRequest, userID string) (*domain.SwapMealResponse, error)
		CompleteMeal(ctx context.Context, req domain.CompleteMealRequest, userID string) (*domain.CompleteMealResponse, error)
		GetRecipe(ctx context.Context, mealName string) (*domain.RecipeDetail, error)
	}

	menuService struct {
		menuRepository         MenuRepository
		shoppingRepository     shopping.ShoppingRepository
		gamificationRepository gamification.GamificationRepository
		userRepository         user.UserRepository
		generatorService       generator.GeneratorService
		now                    func() time.Time
	}
)

func NewMenuService(
	menuRepository MenuRepository,
	shoppingRepository shopping.ShoppingRepository,
	gamificationRepository gamification.GamificationRepository,
	userRepository user.UserRepository,
	generatorService generator.GeneratorService,
) MenuService {
	return &menuService{
		menuRepository:         menuRepository,
		shoppingRepository:     shoppingRepository,
		gamificationRepository: gamificationRepository,
		userRepository:         userRepository,
		generatorService:       generatorService,
		now:                    time.Now,
	}
}

// GenerateMenu asks the external service for a full week and persists it as
// the user's single active menu: deactivating prior menus and inserting the
// new one happen in one transaction so readers never observe two active
// menus. The generator failing leaves everything untouched.
func (s *menuService) GenerateMenu(ctx context.Context, req domain.GenerateMenuRequest, userID string) (*domain.MenuResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.userRepository.GetProfileByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	constraints := domain.GeneratorConstraints{
		Budget:      profile.BudgetWeekly,
		Diners:      profile.Diners,
		MealsPerDay: profile.MealsPerDay,
		DaysPerWeek: profile.DaysPerWeek,
		DietType:    profile.DietType,
		Allergies:   profile.Allergies,
		Dislikes:    profile.Dislikes,
		PantryItems: profile.PantryItems,
	}
	if req.Budget > 0 {
		constraints.Budget = req.Budget
	}
	if req.Diners > 0 {
		constraints.Diners = req.Diners
	}
	if req.DietType != "" {
		constraints.DietType = req.DietType
	}

	generated, err := s.generatorService.Generate(ctx, constraints)
	if err != nil {
		return nil, err
	}

	weekStart := domain.TruncateToDay(s.now())
	if req.WeekStart != "" {
		parsed, err := time.Parse("2006-01-02", req.WeekStart)
		if err == nil {
			weekStart = parsed
		}
	}

	newMenu := &entities.Menu{
		ID:            uuid.New(),
		UserID:        userUUID,
		WeekStart:     weekStart,
		Days:          generated.Days,
		EstimatedCost: generated.EstimatedCost,
		IsActive:      true,
	}

	items := make([]*entities.ShoppingItem, 0, len(generated.ShoppingList))
	for _, generatedItem := range generated.ShoppingList {
		items = append(items, &entities.ShoppingItem{
			ID:       uuid.New(),
			UserID:   userUUID,
			MenuID:   newMenu.ID,
			ItemName: generatedItem.Name,
			Quantity: generatedItem.Quantity,
			Category: itemCategory(generatedItem.Category),
		})
	}
	newMenu.ShoppingList = entities.BuildSnapshot(items)

	err = s.menuRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txMenus := s.menuRepository.WithTx(tx)
		if err := txMenus.DeactivateAll(ctx, userUUID); err != nil {
			return err
		}
		if err := txMenus.Create(ctx, newMenu); err != nil {
			return err
		}
		if err := s.shoppingRepository.WithTx(tx).CreateBatch(ctx, items); err != nil {
			return err
		}

		txGamification := s.gamificationRepository.WithTx(tx)
		state, err := txGamification.AddPoints(ctx, userUUID, domain.PointsMenuGenerated, domain.ReasonMenuGenerated)
		if err != nil {
			return err
		}
		return s.evaluateBadges(ctx, txGamification, userUUID, state, state.Streak, nil)
	})
	if err != nil {
		return nil, err
	}

	return menuResponse(newMenu), nil
}

func (s *menuService) GetActiveMenu(ctx context.Context, userID string) (*domain.MenuResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	active, err := s.menuRepository.GetActiveByUser(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveMenu
		}
		return nil, err
	}
	return menuResponse(active), nil
}

func (s *menuService) GetHistory(ctx context.Context, userID string, page, limit int) ([]*domain.MenuSummary, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	offset := (page - 1) * limit
	menus, count, err := s.menuRepository.ListByUser(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.MenuSummary, 0, len(menus))
	for _, m := range menus {
		result = append(result, &domain.MenuSummary{
			ID:        m.ID.String(),
			WeekStart: m.WeekStart,
			IsActive:  m.IsActive,
			CreatedAt: m.CreatedAt,
		})
	}
	return result, count, nil
}

// SwapMeal replaces one meal slot with a generator-provided alternative and
// reconciles the shopping list with the delta the generator reports. The
// removals, additions, snapshot rewrite and day structure update are applied
// in a single transaction: a failure anywhere leaves menu and items exactly
// as before. No points are awarded for swapping.
func (s *menuService) SwapMeal(ctx context.Context, req domain.SwapMealRequest, userID string) (*domain.SwapMealResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	menuUUID, err := uuid.Parse(req.MenuID)
	if err != nil {
		return nil, domain.ErrMenuNotFound
	}

	currentMenu, currentMeal, err := s.resolveMealSlot(ctx, menuUUID, userUUID, req.DayIndex, req.MealType)
	if err != nil {
		return nil, err
	}

	preferences := domain.SwapPreferences{}
	if profile, err := s.userRepository.GetProfileByUserID(ctx, userUUID); err == nil {
		preferences = domain.SwapPreferences{
			DietType:  profile.DietType,
			Allergies: profile.Allergies,
			Dislikes:  profile.Dislikes,
		}
	}

	swapped, err := s.generatorService.Swap(ctx, currentMeal, preferences)
	if err != nil {
		return nil, err
	}

	var snapshot entities.ShoppingSnapshot
	err = s.menuRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txItems := s.shoppingRepository.WithTx(tx)

		for _, removed := range swapped.ShoppingListChanges.Removed {
			if err := txItems.DeleteByKey(ctx, menuUUID, removed.Name, itemCategory(removed.Category)); err != nil {
				return err
			}
		}

		for _, added := range swapped.ShoppingListChanges.Added {
			category := itemCategory(added.Category)
			existing, err := txItems.FindByKey(ctx, menuUUID, added.Name, category)
			switch {
			case err == nil:
				if err := txItems.UpdateQuantity(ctx, existing.ID, added.Quantity); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				item := &entities.ShoppingItem{
					ID:       uuid.New(),
					UserID:   userUUID,
					MenuID:   menuUUID,
					ItemName: added.Name,
					Quantity: added.Quantity,
					Category: category,
				}
				if err := txItems.Create(ctx, item); err != nil {
					return err
				}
			default:
				return err
			}
		}

		items, err := txItems.ListByMenu(ctx, menuUUID)
		if err != nil {
			return err
		}
		snapshot = entities.BuildSnapshot(items)

		days := currentMenu.Days
		days[req.DayIndex].Meals[req.MealType] = swapped.Meal
		return s.menuRepository.WithTx(tx).UpdateDaysAndSnapshot(ctx, menuUUID, days, snapshot)
	})
	if err != nil {
		return nil, err
	}

	return &domain.SwapMealResponse{
		Meal:         swapped.Meal,
		ShoppingList: snapshot,
		Added:        swapped.ShoppingListChanges.Added,
		Removed:      swapped.ShoppingListChanges.Removed,
	}, nil
}

// CompleteMeal records the completion and applies every scoring consequence
// in one transaction: base award, day and week bonuses when this completion
// fills the last scheduled slot, streak update and badge evaluation. A
// duplicate completion fails before any of that runs.
func (s *menuService) CompleteMeal(ctx context.Context, req domain.CompleteMealRequest, userID string) (*domain.CompleteMealResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	menuUUID, err := uuid.Parse(req.MenuID)
	if err != nil {
		return nil, domain.ErrMenuNotFound
	}

	currentMenu, _, err := s.resolveMealSlot(ctx, menuUUID, userUUID, req.DayIndex, req.MealType)
	if err != nil {
		return nil, err
	}

	completed := &entities.CompletedMeal{
		ID:          uuid.New(),
		UserID:      userUUID,
		MenuID:      menuUUID,
		DayIndex:    req.DayIndex,
		MealType:    req.MealType,
		CompletedAt: s.now(),
		Rating:      req.Rating,
		Notes:       req.Notes,
	}

	var response domain.CompleteMealResponse
	err = s.menuRepository.Transaction(ctx, func(tx *gorm.DB) error {
		txMenus := s.menuRepository.WithTx(tx)
		txGamification := s.gamificationRepository.WithTx(tx)

		if err := txMenus.CreateCompletedMeal(ctx, completed); err != nil {
			return err
		}

		awarded := domain.PointsMealCompleted
		state, err := txGamification.AddPoints(ctx, userUUID, domain.PointsMealCompleted, domain.ReasonMealCompleted)
		if err != nil {
			return err
		}

		scheduledForDay := len(currentMenu.Days[req.DayIndex].Meals)
		completedForDay, err := txMenus.CountCompletedForDay(ctx, menuUUID, req.DayIndex)
		if err != nil {
			return err
		}
		if completedForDay == int64(scheduledForDay) {
			response.DayCompleted = true
			awarded += domain.PointsDayCompleted
			if state, err = txGamification.AddPoints(ctx, userUUID, domain.PointsDayCompleted, domain.ReasonDayCompleted); err != nil {
				return err
			}
		}

		completedForMenu, err := txMenus.CountCompletedForMenu(ctx, menuUUID)
		if err != nil {
			return err
		}
		if completedForMenu == int64(currentMenu.Days.TotalSlots()) {
			response.WeekCompleted = true
			awarded += domain.PointsWeekCompleted
			if state, err = txGamification.AddPoints(ctx, userUUID, domain.PointsWeekCompleted, domain.ReasonWeekCompleted); err != nil {
				return err
			}
		}

		streak := domain.NextStreak(state.LastActiveDate, state.Streak, state.LongestStreak, s.now())
		if streak.Changed {
			if err := txGamification.UpdateStreak(ctx, userUUID, streak); err != nil {
				return err
			}
		}

		if err := s.evaluateBadges(ctx, txGamification, userUUID, state, streak.Streak, &response.NewBadges); err != nil {
			return err
		}

		tier := domain.LevelForPoints(state.Points)
		response.PointsAwarded = awarded
		response.TotalPoints = state.Points
		response.Level = tier
		response.Streak = streak.Streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	if response.NewBadges == nil {
		response.NewBadges = []string{}
	}
	return &response, nil
}

func (s *menuService) GetRecipe(ctx context.Context, mealName string) (*domain.RecipeDetail, error) {
	return s.generatorService.GetRecipe(ctx, mealName)
}

// resolveMealSlot loads the menu, enforces ownership and validates that the
// requested slot is scheduled.
func (s *menuService) resolveMealSlot(ctx context.Context, menuID, userID uuid.UUID, dayIndex int, mealType string) (*entities.Menu, *entities.Meal, error) {
	m, err := s.menuRepository.GetByID(ctx, menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrMenuNotFound
		}
		return nil, nil, err
	}
	if m.UserID != userID {
		return nil, nil, domain.ErrMenuNotFound
	}

	if dayIndex < 0 || dayIndex >= len(m.Days) {
		return nil, nil, domain.ErrInvalidDayIndex
	}

	meal, ok := m.Days[dayIndex].Meals[mealType]
	if !ok || meal == nil {
		return nil, nil, domain.ErrMealSlotNotScheduled
	}
	return m, meal, nil
}

func (s *menuService) evaluateBadges(
	ctx context.Context,
	repo gamification.GamificationRepository,
	userID uuid.UUID,
	state *entities.GamificationState,
	streak int,
	newlyUnlocked *[]string,
) error {
	stats, err := repo.GetBadgeStats(ctx, userID)
	if err != nil {
		return err
	}
	stats.Points = state.Points
	stats.Streak = streak

	unlocked := domain.NewlyUnlocked(stats, state.Badges.Has)
	if len(unlocked) == 0 {
		return nil
	}

	if _, err := repo.UnlockBadges(ctx, userID, unlocked, s.now()); err != nil {
		return err
	}
	if newlyUnlocked != nil {
		*newlyUnlocked = append(*newlyUnlocked, unlocked...)
	}
	return nil
}

func itemCategory(category string) string {
	if category == "" {
		return domain.DefaultCategory
	}
	return category
}

func menuResponse(m *entities.Menu) *domain.MenuResponse {
	return &domain.MenuResponse{
		ID:            m.ID.String(),
		WeekStart:     m.WeekStart,
		Days:          m.Days,
		ShoppingList:  m.ShoppingList,
		EstimatedCost: m.EstimatedCost,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}
