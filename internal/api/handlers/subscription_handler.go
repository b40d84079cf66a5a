package handlers

import (
	"errors"

	"Planeat-Backend/domain"
	"Planeat-Backend/internal/api/presenters"
	"Planeat-Backend/pkg/subscription"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SubscriptionHandler interface {
		GetStatus(c *fiber.Ctx) error
		StartTrial(c *fiber.Ctx) error
		CreateCheckout(c *fiber.Ctx) error
		MidtransWebhook(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
		validator           *validator.Validate
	}
)

func NewSubscriptionHandler(subscriptionService subscription.SubscriptionService, validator *validator.Validate) SubscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: subscriptionService,
		validator:           validator,
	}
}

func (h *subscriptionHandler) GetStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.subscriptionService.GetStatus(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSubscription, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscription)
}

func (h *subscriptionHandler) StartTrial(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.subscriptionService.StartTrial(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTrialAlreadyUsed) {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedStartTrial, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartTrial, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessStartTrial)
}

func (h *subscriptionHandler) CreateCheckout(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CheckoutRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckout, err)
	}

	res, err := h.subscriptionService.CreateCheckout(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedCheckout, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCheckout)
}

func (h *subscriptionHandler) MidtransWebhook(c *fiber.Ctx) error {
	var payload struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.subscriptionService.HandlePaymentNotification(c.Context(), payload.OrderID, payload.TransactionStatus); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, "notification processed")
}
