package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetSubscription = "subscription status retrieved successfully"
	MessageSuccessStartTrial      = "trial started successfully"
	MessageSuccessCheckout        = "checkout created successfully"

	MessageFailedGetSubscription = "failed to retrieve subscription status"
	MessageFailedStartTrial      = "failed to start trial"
	MessageFailedCheckout        = "failed to create checkout"

	ErrTrialAlreadyUsed = errors.New("trial already started previously")
	ErrPaymentFailed    = errors.New("payment processing failed")
)

const (
	SubscriptionStatusFree   = "free"
	SubscriptionStatusTrial  = "trial"
	SubscriptionStatusActive = "active"

	TrialDays         = 7
	PremiumPriceIDR   = 49000
	PremiumPeriodDays = 30
)

type (
	SubscriptionFeatures struct {
		MenusPerWeek   string `json:"menus_per_week"`
		SwapsPerMenu   string `json:"swaps_per_menu"`
		ExportShopping bool   `json:"export_shopping"`
	}

	SubscriptionStatusResponse struct {
		Status           string               `json:"status"`
		IsActive         bool                 `json:"is_active"`
		TrialEnd         *time.Time           `json:"trial_end,omitempty"`
		CurrentPeriodEnd *time.Time           `json:"current_period_end,omitempty"`
		Features         SubscriptionFeatures `json:"features"`
	}

	StartTrialResponse struct {
		TrialEnd time.Time `json:"trial_end"`
	}

	CheckoutRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	CheckoutResponse struct {
		InvoiceURL string `json:"invoice_url"`
	}
)
