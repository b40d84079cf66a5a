package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"
	"Planeat-Backend/internal/utils"
	"Planeat-Backend/pkg/user"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		GetStatus(ctx context.Context, userID string) (*domain.SubscriptionStatusResponse, error)
		StartTrial(ctx context.Context, userID string) (*domain.StartTrialResponse, error)
		CreateCheckout(ctx context.Context, req domain.CheckoutRequest, userID string) (*domain.CheckoutResponse, error)
		HandlePaymentNotification(ctx context.Context, orderID string, transactionStatus string) error
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		snapClient             snap.Client
		now                    func() time.Time
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
) SubscriptionService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	client := snap.Client{}
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		snapClient:             client,
		now:                    time.Now,
	}
}

var freeFeatures = domain.SubscriptionFeatures{
	MenusPerWeek:   "1",
	SwapsPerMenu:   "0",
	ExportShopping: false,
}

var premiumFeatures = domain.SubscriptionFeatures{
	MenusPerWeek:   "unlimited",
	SwapsPerMenu:   "unlimited",
	ExportShopping: true,
}

func (s *subscriptionService) GetStatus(ctx context.Context, userID string) (*domain.SubscriptionStatusResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	sub, err := s.subscriptionRepository.GetByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.SubscriptionStatusResponse{
				Status:   domain.SubscriptionStatusFree,
				Features: freeFeatures,
			}, nil
		}
		return nil, err
	}

	now := s.now()
	trialActive := sub.TrialEnd != nil && sub.TrialEnd.After(now)
	periodActive := sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.After(now)
	isActive := (sub.Status == domain.SubscriptionStatusActive && periodActive) || trialActive

	features := freeFeatures
	if isActive {
		features = premiumFeatures
	}

	return &domain.SubscriptionStatusResponse{
		Status:           sub.Status,
		IsActive:         isActive,
		TrialEnd:         sub.TrialEnd,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Features:         features,
	}, nil
}

// StartTrial starts the one-off free trial. A user who already has a
// subscription row has used their trial; the conditional insert resolves a
// race between two concurrent starts to one success.
func (s *subscriptionService) StartTrial(ctx context.Context, userID string) (*domain.StartTrialResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	now := s.now()
	trialEnd := now.AddDate(0, 0, domain.TrialDays)

	sub := &entities.Subscription{
		ID:         uuid.New(),
		UserID:     userUUID,
		Status:     domain.SubscriptionStatusTrial,
		TrialStart: &now,
		TrialEnd:   &trialEnd,
	}

	created, err := s.subscriptionRepository.CreateIfAbsent(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, domain.ErrTrialAlreadyUsed
	}

	return &domain.StartTrialResponse{TrialEnd: trialEnd}, nil
}

func (s *subscriptionService) CreateCheckout(ctx context.Context, req domain.CheckoutRequest, userID string) (*domain.CheckoutResponse, error) {
	orderID := fmt.Sprintf("planeat-premium-%s-%d", userID, s.now().Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: domain.PremiumPriceIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
	}

	resp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return nil, domain.ErrPaymentFailed
	}

	return &domain.CheckoutResponse{InvoiceURL: resp.RedirectURL}, nil
}

// HandlePaymentNotification applies a midtrans webhook callback. The order ID
// embeds the user ID between the fixed prefix and the timestamp suffix.
func (s *subscriptionService) HandlePaymentNotification(ctx context.Context, orderID string, transactionStatus string) error {
	if transactionStatus != "settlement" && transactionStatus != "capture" {
		return nil
	}

	rest := strings.TrimPrefix(orderID, "planeat-premium-")
	if rest == orderID || len(rest) < 36 {
		return domain.ErrPaymentFailed
	}
	userUUID, err := uuid.Parse(rest[:36])
	if err != nil {
		return domain.ErrParseUUID
	}

	now := s.now()
	periodEnd := now.AddDate(0, 0, domain.PremiumPeriodDays)

	sub, err := s.subscriptionRepository.GetByUserID(ctx, userUUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		sub = &entities.Subscription{ID: uuid.New(), UserID: userUUID}
		if _, err := s.subscriptionRepository.CreateIfAbsent(ctx, sub); err != nil {
			return err
		}
		sub, err = s.subscriptionRepository.GetByUserID(ctx, userUUID)
		if err != nil {
			return err
		}
	}

	sub.Status = domain.SubscriptionStatusActive
	sub.CurrentPeriodEnd = &periodEnd
	if err := s.subscriptionRepository.Update(ctx, sub); err != nil {
		return err
	}

	return s.userRepository.SetPremium(ctx, userUUID, true, &periodEnd)
}
