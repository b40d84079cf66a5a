package handlers

import (
	"errors"

	"Planeat-Backend/domain"
	"Planeat-Backend/internal/api/presenters"
	"Planeat-Backend/pkg/shopping"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingHandler interface {
		GetShoppingList(c *fiber.Ctx) error
		ToggleItem(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
	}

	shoppingHandler struct {
		shoppingService shopping.ShoppingService
		validator       *validator.Validate
	}
)

func NewShoppingHandler(shoppingService shopping.ShoppingService, validator *validator.Validate) ShoppingHandler {
	return &shoppingHandler{
		shoppingService: shoppingService,
		validator:       validator,
	}
}

func (h *shoppingHandler) GetShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingService.GetCategorizedList(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveMenu) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetShoppingList, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}

func (h *shoppingHandler) ToggleItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	res, err := h.shoppingService.ToggleItem(c.Context(), itemID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrShoppingItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedToggleItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedToggleItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessToggleItem)
}

func (h *shoppingHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddShoppingItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	res, err := h.shoppingService.AddItem(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveMenu) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedAddItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *shoppingHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.shoppingService.DeleteItem(c.Context(), itemID, userID); err != nil {
		if errors.Is(err, domain.ErrShoppingItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}
