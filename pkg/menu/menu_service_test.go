package menu

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"
	"Planeat-Backend/pkg/gamification"
	"Planeat-Backend/pkg/shopping"
	"Planeat-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubGenerator struct {
	menu    *domain.GeneratedMenu
	swapped *domain.SwappedMeal
	recipe  *domain.RecipeDetail
	err     error
}

func (g *stubGenerator) Generate(ctx context.Context, constraints domain.GeneratorConstraints) (*domain.GeneratedMenu, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.menu, nil
}

func (g *stubGenerator) Swap(ctx context.Context, currentMeal interface{}, preferences domain.SwapPreferences) (*domain.SwappedMeal, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.swapped, nil
}

func (g *stubGenerator) GetRecipe(ctx context.Context, mealName string) (*domain.RecipeDetail, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.recipe, nil
}

type fixture struct {
	db               *gorm.DB
	service          *menuService
	generator        *stubGenerator
	gamificationRepo gamification.GamificationRepository
	userID           uuid.UUID
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	models := []interface{}{
		&entities.User{},
		&entities.Profile{},
		&entities.Menu{},
		&entities.ShoppingItem{},
		&entities.CompletedMeal{},
		&entities.GamificationState{},
		&entities.PointsLogEntry{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func weekMenu() *domain.GeneratedMenu {
	return &domain.GeneratedMenu{
		Days: entities.MenuDays{
			{Date: "2025-03-10", Meals: map[string]*entities.Meal{
				domain.MealSlotBreakfast: {Name: "Tostadas con tomate"},
				domain.MealSlotLunch:     {Name: "Arroz con pollo"},
				domain.MealSlotDinner:    {Name: "Crema de calabacín"},
			}},
			{Date: "2025-03-11", Meals: map[string]*entities.Meal{
				domain.MealSlotLunch: {Name: "Lentejas estofadas"},
			}},
		},
		ShoppingList: []domain.GeneratorShoppingItem{
			{Name: "Arroz", Quantity: "1kg", Category: "Despensa"},
			{Name: "Tomate", Quantity: "500g", Category: "Verduras"},
			{Name: "Pollo", Quantity: "600g"},
		},
		EstimatedCost: 42.5,
	}
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)

	u := &entities.User{ID: uuid.New(), Email: fmt.Sprintf("%s@test.local", uuid.NewString()), Name: "Test User"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	profile := &entities.Profile{
		ID:           uuid.New(),
		UserID:       u.ID,
		BudgetWeekly: 50,
		Diners:       2,
		MealsPerDay:  3,
		DaysPerWeek:  7,
		DietType:     "omnivora",
		Allergies:    entities.StringList{},
		Dislikes:     entities.StringList{},
		PantryItems:  entities.StringList{},
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	gen := &stubGenerator{menu: weekMenu()}
	gamificationRepo := gamification.NewGamificationRepository(db)
	svc := NewMenuService(
		NewMenuRepository(db),
		shopping.NewShoppingRepository(db),
		gamificationRepo,
		user.NewUserRepository(db),
		gen,
	).(*menuService)

	return &fixture{
		db:               db,
		service:          svc,
		generator:        gen,
		gamificationRepo: gamificationRepo,
		userID:           u.ID,
	}
}

func TestGenerateMenuPersistsMenuItemsAndPoints(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	res, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	if !res.IsActive {
		t.Fatal("expected generated menu to be active")
	}
	if len(res.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(res.Days))
	}
	if len(res.ShoppingList) != 3 {
		t.Fatalf("expected 3 snapshot items, got %d", len(res.ShoppingList))
	}
	for _, item := range res.ShoppingList {
		if item.Name == "Pollo" && item.Category != domain.DefaultCategory {
			t.Fatalf("uncategorized item should land in %q, got %q", domain.DefaultCategory, item.Category)
		}
	}

	var itemCount int64
	if err := f.db.Model(&entities.ShoppingItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 3 {
		t.Fatalf("expected 3 item rows, got %d", itemCount)
	}

	state, err := f.gamificationRepo.GetState(ctx, f.userID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.Points != domain.PointsMenuGenerated {
		t.Fatalf("expected %d points after generation, got %d", domain.PointsMenuGenerated, state.Points)
	}
	if !state.Badges.Has("first_menu") {
		t.Fatalf("expected first_menu badge, got %v", state.Badges.IDs())
	}
}

func TestGenerateMenuDeactivatesPreviousMenus(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate first menu: %v", err)
	}
	f.generator.menu = weekMenu()
	second, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate second menu: %v", err)
	}

	var activeCount int64
	if err := f.db.Model(&entities.Menu{}).Where("is_active = ?", true).Count(&activeCount).Error; err != nil {
		t.Fatalf("count active menus: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active menu, got %d", activeCount)
	}

	active, err := f.service.GetActiveMenu(ctx, f.userID.String())
	if err != nil {
		t.Fatalf("get active menu: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected newest menu %s active, got %s", second.ID, active.ID)
	}
	if active.ID == first.ID {
		t.Fatal("first menu should have been deactivated")
	}
}

func TestGenerateMenuWithoutProfile(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	if err := f.db.Where("user_id = ?", f.userID).Delete(&entities.Profile{}).Error; err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	if _, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String()); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGenerateMenuGeneratorFailureLeavesNothingBehind(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.generator.err = domain.ErrGenerationFailed
	if _, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String()); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	var menuCount int64
	if err := f.db.Model(&entities.Menu{}).Count(&menuCount).Error; err != nil {
		t.Fatalf("count menus: %v", err)
	}
	if menuCount != 0 {
		t.Fatalf("expected no menus after generator failure, got %d", menuCount)
	}

	var logCount int64
	if err := f.db.Model(&entities.PointsLogEntry{}).Count(&logCount).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if logCount != 0 {
		t.Fatalf("expected no point awards after generator failure, got %d", logCount)
	}
}

func TestCompleteMealAwardsDayBonusOnLastSlot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	slots := []string{domain.MealSlotBreakfast, domain.MealSlotLunch, domain.MealSlotDinner}
	var last *domain.CompleteMealResponse
	for i, slot := range slots {
		res, err := f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
			MenuID:   generated.ID,
			DayIndex: 0,
			MealType: slot,
		}, f.userID.String())
		if err != nil {
			t.Fatalf("complete %s: %v", slot, err)
		}
		if i < len(slots)-1 && res.DayCompleted {
			t.Fatalf("day reported complete after %d of %d meals", i+1, len(slots))
		}
		last = res
	}

	if !last.DayCompleted {
		t.Fatal("expected day completed on the last scheduled slot")
	}
	if last.WeekCompleted {
		t.Fatal("week must not be complete with day 1 pending")
	}
	if last.PointsAwarded != domain.PointsMealCompleted+domain.PointsDayCompleted {
		t.Fatalf("expected %d points on day completion, got %d",
			domain.PointsMealCompleted+domain.PointsDayCompleted, last.PointsAwarded)
	}

	// 10 generation + 3*10 meals + 25 day bonus
	if last.TotalPoints != 65 {
		t.Fatalf("expected 65 total points, got %d", last.TotalPoints)
	}
	if last.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", last.Streak)
	}

	sum, err := f.gamificationRepo.SumLog(ctx, f.userID)
	if err != nil {
		t.Fatalf("sum log: %v", err)
	}
	if sum != int64(last.TotalPoints) {
		t.Fatalf("ledger sum %d does not match total points %d", sum, last.TotalPoints)
	}
}

func TestCompleteMealAwardsWeekBonusOnLastSlot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	for _, slot := range []string{domain.MealSlotBreakfast, domain.MealSlotLunch, domain.MealSlotDinner} {
		if _, err := f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
			MenuID:   generated.ID,
			DayIndex: 0,
			MealType: slot,
		}, f.userID.String()); err != nil {
			t.Fatalf("complete day 0 %s: %v", slot, err)
		}
	}

	res, err := f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID:   generated.ID,
		DayIndex: 1,
		MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if err != nil {
		t.Fatalf("complete final slot: %v", err)
	}

	if !res.DayCompleted {
		t.Fatal("the only meal of day 1 should complete the day")
	}
	if !res.WeekCompleted {
		t.Fatal("expected week completed on the last scheduled slot")
	}
	if res.PointsAwarded != domain.PointsMealCompleted+domain.PointsDayCompleted+domain.PointsWeekCompleted {
		t.Fatalf("expected meal+day+week award, got %d", res.PointsAwarded)
	}

	found := false
	for _, id := range res.NewBadges {
		if id == "semana_completa" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected semana_completa badge, got %v", res.NewBadges)
	}
}

func TestCompleteMealDuplicateIsRejectedWithoutSideEffects(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	req := domain.CompleteMealRequest{
		MenuID:   generated.ID,
		DayIndex: 0,
		MealType: domain.MealSlotLunch,
	}
	if _, err := f.service.CompleteMeal(ctx, req, f.userID.String()); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	before, err := f.gamificationRepo.SumLog(ctx, f.userID)
	if err != nil {
		t.Fatalf("sum log: %v", err)
	}

	if _, err := f.service.CompleteMeal(ctx, req, f.userID.String()); !errors.Is(err, domain.ErrMealAlreadyCompleted) {
		t.Fatalf("expected ErrMealAlreadyCompleted, got %v", err)
	}

	after, err := f.gamificationRepo.SumLog(ctx, f.userID)
	if err != nil {
		t.Fatalf("sum log: %v", err)
	}
	if before != after {
		t.Fatalf("duplicate completion changed the ledger: %d -> %d", before, after)
	}

	var count int64
	if err := f.db.Model(&entities.CompletedMeal{}).Count(&count).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 completion row, got %d", count)
	}
}

func TestCompleteMealStreakAcrossDays(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	day1 := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return day1 }

	res, err := f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 0, MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", res.Streak)
	}

	res, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 0, MealType: domain.MealSlotDinner,
	}, f.userID.String())
	if err != nil {
		t.Fatalf("same-day completion: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("same-day completion must not extend the streak, got %d", res.Streak)
	}

	f.service.now = func() time.Time { return day1.Add(24 * time.Hour) }
	res, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 1, MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if err != nil {
		t.Fatalf("next-day completion: %v", err)
	}
	if res.Streak != 2 {
		t.Fatalf("expected streak 2 the next day, got %d", res.Streak)
	}
}

func TestCompleteMealSlotValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	_, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 7, MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if !errors.Is(err, domain.ErrInvalidDayIndex) {
		t.Fatalf("expected ErrInvalidDayIndex, got %v", err)
	}

	_, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 1, MealType: domain.MealSlotBreakfast,
	}, f.userID.String())
	if !errors.Is(err, domain.ErrMealSlotNotScheduled) {
		t.Fatalf("expected ErrMealSlotNotScheduled, got %v", err)
	}

	_, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: generated.ID, DayIndex: 0, MealType: domain.MealSlotLunch,
	}, uuid.NewString())
	if !errors.Is(err, domain.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound for foreign user, got %v", err)
	}

	_, err = f.service.CompleteMeal(ctx, domain.CompleteMealRequest{
		MenuID: uuid.NewString(), DayIndex: 0, MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if !errors.Is(err, domain.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound for unknown menu, got %v", err)
	}
}

func TestSwapMealReconcilesShoppingList(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	f.generator.swapped = &domain.SwappedMeal{
		Meal: &entities.Meal{Name: "Bol de quinoa"},
		ShoppingListChanges: domain.ShoppingListChanges{
			Removed: []domain.GeneratorShoppingItem{
				{Name: "Arroz", Category: "Despensa"},
			},
			Added: []domain.GeneratorShoppingItem{
				{Name: "Quinoa", Quantity: "500g", Category: "Despensa"},
			},
		},
	}

	res, err := f.service.SwapMeal(ctx, domain.SwapMealRequest{
		MenuID:   generated.ID,
		DayIndex: 0,
		MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if err != nil {
		t.Fatalf("swap meal: %v", err)
	}

	if res.Meal.Name != "Bol de quinoa" {
		t.Fatalf("expected swapped meal name, got %q", res.Meal.Name)
	}

	names := make(map[string]string)
	for _, item := range res.ShoppingList {
		names[item.Name] = item.Quantity
	}
	if _, ok := names["Arroz"]; ok {
		t.Fatal("removed item still present in snapshot")
	}
	if quantity, ok := names["Quinoa"]; !ok || quantity != "500g" {
		t.Fatalf("expected Quinoa 500g in snapshot, got %v", names)
	}
	if _, ok := names["Tomate"]; !ok {
		t.Fatal("untouched item missing from snapshot")
	}

	menuUUID := uuid.MustParse(generated.ID)
	var stored entities.Menu
	if err := f.db.Where("id = ?", menuUUID).First(&stored).Error; err != nil {
		t.Fatalf("reload menu: %v", err)
	}
	if stored.Days[0].Meals[domain.MealSlotLunch].Name != "Bol de quinoa" {
		t.Fatalf("day structure not updated, got %q", stored.Days[0].Meals[domain.MealSlotLunch].Name)
	}
	if len(stored.ShoppingList) != len(res.ShoppingList) {
		t.Fatalf("persisted snapshot has %d items, response has %d", len(stored.ShoppingList), len(res.ShoppingList))
	}

	var rows int64
	if err := f.db.Model(&entities.ShoppingItem{}).Where("menu_id = ?", menuUUID).Count(&rows).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if rows != 3 {
		t.Fatalf("expected 3 item rows after swap, got %d", rows)
	}
}

func TestSwapMealUpdatesQuantityForExistingItem(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	f.generator.swapped = &domain.SwappedMeal{
		Meal: &entities.Meal{Name: "Ensalada de tomate"},
		ShoppingListChanges: domain.ShoppingListChanges{
			Added: []domain.GeneratorShoppingItem{
				{Name: "Tomate", Quantity: "1kg", Category: "Verduras"},
			},
		},
	}

	if _, err := f.service.SwapMeal(ctx, domain.SwapMealRequest{
		MenuID:   generated.ID,
		DayIndex: 0,
		MealType: domain.MealSlotDinner,
	}, f.userID.String()); err != nil {
		t.Fatalf("swap meal: %v", err)
	}

	var item entities.ShoppingItem
	if err := f.db.Where("menu_id = ? AND item_name = ?", uuid.MustParse(generated.ID), "Tomate").
		First(&item).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if item.Quantity != "1kg" {
		t.Fatalf("expected merged quantity 1kg, got %q", item.Quantity)
	}

	var count int64
	if err := f.db.Model(&entities.ShoppingItem{}).
		Where("menu_id = ? AND item_name = ?", uuid.MustParse(generated.ID), "Tomate").
		Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single Tomate row, got %d", count)
	}
}

func TestSwapMealGeneratorFailureLeavesMenuUntouched(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	generated, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String())
	if err != nil {
		t.Fatalf("generate menu: %v", err)
	}

	f.generator.err = domain.ErrGenerationFailed
	_, err = f.service.SwapMeal(ctx, domain.SwapMealRequest{
		MenuID:   generated.ID,
		DayIndex: 0,
		MealType: domain.MealSlotLunch,
	}, f.userID.String())
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	var stored entities.Menu
	if err := f.db.Where("id = ?", uuid.MustParse(generated.ID)).First(&stored).Error; err != nil {
		t.Fatalf("reload menu: %v", err)
	}
	if stored.Days[0].Meals[domain.MealSlotLunch].Name != "Arroz con pollo" {
		t.Fatalf("meal changed despite failure: %q", stored.Days[0].Meals[domain.MealSlotLunch].Name)
	}
}

func TestGetActiveMenuWithoutOne(t *testing.T) {
	f := setupFixture(t)

	if _, err := f.service.GetActiveMenu(context.Background(), f.userID.String()); !errors.Is(err, domain.ErrNoActiveMenu) {
		t.Fatalf("expected ErrNoActiveMenu, got %v", err)
	}
}

func TestGetHistoryPaginates(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.generator.menu = weekMenu()
		if _, err := f.service.GenerateMenu(ctx, domain.GenerateMenuRequest{}, f.userID.String()); err != nil {
			t.Fatalf("generate menu %d: %v", i, err)
		}
	}

	page, total, err := f.service.GetHistory(ctx, f.userID.String(), 1, 2)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 menus on page 1, got %d", len(page))
	}

	active := 0
	for _, summary := range page {
		if summary.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active menu in history, got %d", active)
	}
}
