package handlers

import (
	"errors"
	"strconv"

	"Planeat-Backend/domain"
	"Planeat-Backend/internal/api/presenters"
	"Planeat-Backend/pkg/menu"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MenuHandler interface {
		GenerateMenu(c *fiber.Ctx) error
		GetActiveMenu(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
		SwapMeal(c *fiber.Ctx) error
		CompleteMeal(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
	}

	menuHandler struct {
		menuService menu.MenuService
		validator   *validator.Validate
	}
)

func NewMenuHandler(menuService menu.MenuService, validator *validator.Validate) MenuHandler {
	return &menuHandler{
		menuService: menuService,
		validator:   validator,
	}
}

func (h *menuHandler) GenerateMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.GenerateMenuRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateMenu, err)
	}

	res, err := h.menuService.GenerateMenu(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGenerateMenu, err)
		case errors.Is(err, domain.ErrGenerationFailed):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGenerateMenu, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessGenerateMenu)
}

func (h *menuHandler) GetActiveMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.menuService.GetActiveMenu(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveMenu) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetActiveMenu, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetActiveMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetActiveMenu)
}

func (h *menuHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	menus, count, err := h.menuService.GetHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"menus": menus,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetMenuHistory)
}

func (h *menuHandler) SwapMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SwapMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.MenuID = c.Params("id")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSwapMeal, err)
	}

	res, err := h.menuService.SwapMeal(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMenuNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedSwapMeal, err)
		case errors.Is(err, domain.ErrInvalidDayIndex), errors.Is(err, domain.ErrMealSlotNotScheduled):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSwapMeal, err)
		case errors.Is(err, domain.ErrGenerationFailed):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedSwapMeal, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSwapMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSwapMeal)
}

func (h *menuHandler) CompleteMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CompleteMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.MenuID = c.Params("id")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteMeal, err)
	}

	res, err := h.menuService.CompleteMeal(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMenuNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCompleteMeal, err)
		case errors.Is(err, domain.ErrMealAlreadyCompleted):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCompleteMeal, err)
		case errors.Is(err, domain.ErrInvalidDayIndex), errors.Is(err, domain.ErrMealSlotNotScheduled):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteMeal, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteMeal)
}

func (h *menuHandler) GetRecipe(c *fiber.Ctx) error {
	mealName := c.Query("name")
	if mealName == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipe, nil)
	}

	res, err := h.menuService.GetRecipe(c.Context(), mealName)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipe)
}
