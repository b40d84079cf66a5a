package subscription

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"

	"github.com/google/uuid"
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
	if err := db.AutoMigrate(&entities.User{}, &entities.Subscription{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestService(db *gorm.DB, now time.Time) *subscriptionService {
	return &subscriptionService{
		subscriptionRepository: NewSubscriptionRepository(db),
		now:                    func() time.Time { return now },
	}
}

func TestGetStatusDefaultsToFree(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db, time.Now())

	status, err := service.GetStatus(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status.Status != domain.SubscriptionStatusFree {
		t.Fatalf("expected free status, got %q", status.Status)
	}
	if status.IsActive {
		t.Fatal("free tier must not be active")
	}
	if status.Features.ExportShopping {
		t.Fatal("free tier must not allow shopping export")
	}
}

func TestStartTrialOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	service := newTestService(db, now)
	userID := uuid.NewString()
	ctx := context.Background()

	res, err := service.StartTrial(ctx, userID)
	if err != nil {
		t.Fatalf("start trial: %v", err)
	}
	wantEnd := now.AddDate(0, 0, domain.TrialDays)
	if !res.TrialEnd.Equal(wantEnd) {
		t.Fatalf("expected trial end %v, got %v", wantEnd, res.TrialEnd)
	}

	if _, err := service.StartTrial(ctx, userID); !errors.Is(err, domain.ErrTrialAlreadyUsed) {
		t.Fatalf("expected ErrTrialAlreadyUsed, got %v", err)
	}

	var count int64
	if err := db.Model(&entities.Subscription{}).Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single subscription row, got %d", count)
	}
}

func TestGetStatusDuringAndAfterTrial(t *testing.T) {
	db := setupTestDB(t)
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	service := newTestService(db, start)
	userID := uuid.NewString()
	ctx := context.Background()

	if _, err := service.StartTrial(ctx, userID); err != nil {
		t.Fatalf("start trial: %v", err)
	}

	status, err := service.GetStatus(ctx, userID)
	if err != nil {
		t.Fatalf("get status during trial: %v", err)
	}
	if status.Status != domain.SubscriptionStatusTrial || !status.IsActive {
		t.Fatalf("expected active trial, got %q active=%v", status.Status, status.IsActive)
	}
	if !status.Features.ExportShopping {
		t.Fatal("trial should unlock premium features")
	}

	service.now = func() time.Time { return start.AddDate(0, 0, domain.TrialDays+1) }
	status, err = service.GetStatus(ctx, userID)
	if err != nil {
		t.Fatalf("get status after trial: %v", err)
	}
	if status.IsActive {
		t.Fatal("expired trial must not be active")
	}
	if status.Features.ExportShopping {
		t.Fatal("expired trial must fall back to free features")
	}
}

func TestCreateIfAbsentResolvesRaceToOneRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	first := &entities.Subscription{ID: uuid.New(), UserID: userID, Status: domain.SubscriptionStatusTrial}
	created, err := repo.CreateIfAbsent(ctx, first)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !created {
		t.Fatal("expected first insert to create the row")
	}

	second := &entities.Subscription{ID: uuid.New(), UserID: userID, Status: domain.SubscriptionStatusTrial}
	created, err = repo.CreateIfAbsent(ctx, second)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Fatal("expected second insert to be a no-op")
	}
}
