package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"
	"Planeat-Backend/pkg/gamification"
	"Planeat-Backend/pkg/jwt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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
		&entities.CompletedMeal{},
		&entities.GamificationState{},
		&entities.PointsLogEntry{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestService(db *gorm.DB) (UserService, gamification.GamificationRepository) {
	gamificationRepo := gamification.NewGamificationRepository(db)
	service := NewUserService(
		NewUserRepository(db),
		gamificationRepo,
		gamification.NewGamificationService(gamificationRepo),
		jwt.NewJWTService(),
		nil,
	)
	return service, gamificationRepo
}

func TestRegisterSeedsProfileAndWelcomeBonus(t *testing.T) {
	db := setupTestDB(t)
	service, gamificationRepo := newTestService(db)
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "ana@test.local",
		Password: "supersecret",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Email != "ana@test.local" || res.Name != "Ana" {
		t.Fatalf("unexpected response %+v", res)
	}

	profile, err := service.GetProfile(ctx, res.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Diners != 2 || profile.MealsPerDay != 3 || profile.DaysPerWeek != 7 {
		t.Fatalf("expected default profile, got %+v", profile)
	}
	if profile.DietType != "omnivora" {
		t.Fatalf("expected default diet, got %q", profile.DietType)
	}

	var stored entities.User
	if err := db.Where("email = ?", "ana@test.local").First(&stored).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Password == "supersecret" {
		t.Fatal("password stored in plain text")
	}

	state, err := gamificationRepo.GetState(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.Points != domain.PointsWelcomeBonus {
		t.Fatalf("expected welcome bonus %d, got %d", domain.PointsWelcomeBonus, state.Points)
	}

	sum, err := gamificationRepo.SumLog(ctx, stored.ID)
	if err != nil {
		t.Fatalf("sum log: %v", err)
	}
	if sum != int64(state.Points) {
		t.Fatalf("ledger sum %d does not match points %d", sum, state.Points)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestService(db)
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "ana@test.local", Password: "supersecret", Name: "Ana"}
	if _, err := service.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := service.Register(ctx, req); !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestService(db)
	ctx := context.Background()

	if _, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "ana@test.local",
		Password: "supersecret",
		Name:     "Ana",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := service.Login(ctx, domain.LoginRequest{Email: "ana@test.local", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a token")
	}

	if _, err := service.Login(ctx, domain.LoginRequest{Email: "ana@test.local", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := service.Login(ctx, domain.LoginRequest{Email: "nobody@test.local", Password: "supersecret"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUpdateProfileMergesFields(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestService(db)
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "ana@test.local",
		Password: "supersecret",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := service.UpdateProfile(ctx, domain.UpdateProfileRequest{
		BudgetWeekly: 80,
		DietType:     "vegetariana",
		Allergies:    []string{"gluten"},
	}, res.ID)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.BudgetWeekly != 80 {
		t.Fatalf("expected budget 80, got %v", updated.BudgetWeekly)
	}
	if updated.DietType != "vegetariana" {
		t.Fatalf("expected vegetariana, got %q", updated.DietType)
	}
	if len(updated.Allergies) != 1 || updated.Allergies[0] != "gluten" {
		t.Fatalf("expected allergies [gluten], got %v", updated.Allergies)
	}
	if updated.Diners != 2 {
		t.Fatalf("untouched field changed: diners %d", updated.Diners)
	}
}

func TestMeIncludesProfileAndGamification(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestService(db)
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "ana@test.local",
		Password: "supersecret",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	me, err := service.Me(ctx, res.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Profile == nil {
		t.Fatal("expected embedded profile")
	}
	if me.Gamification == nil {
		t.Fatal("expected embedded gamification stats")
	}
	if me.Gamification.Points != domain.PointsWelcomeBonus {
		t.Fatalf("expected %d points, got %d", domain.PointsWelcomeBonus, me.Gamification.Points)
	}
}
