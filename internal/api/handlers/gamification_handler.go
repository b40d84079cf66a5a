package handlers

import (
	"strconv"

	"Planeat-Backend/domain"
	"Planeat-Backend/internal/api/presenters"
	"Planeat-Backend/pkg/gamification"

	"github.com/gofiber/fiber/v2"
)

type (
	GamificationHandler interface {
		GetStats(c *fiber.Ctx) error
		GetPointsHistory(c *fiber.Ctx) error
		GetLeaderboard(c *fiber.Ctx) error
		GetBadges(c *fiber.Ctx) error
	}

	gamificationHandler struct {
		gamificationService gamification.GamificationService
	}
)

func NewGamificationHandler(gamificationService gamification.GamificationService) GamificationHandler {
	return &gamificationHandler{
		gamificationService: gamificationService,
	}
}

func (h *gamificationHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.gamificationService.GetStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}

func (h *gamificationHandler) GetPointsHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	res, err := h.gamificationService.GetPointsHistory(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPoints, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *gamificationHandler) GetLeaderboard(c *fiber.Ctx) error {
	res, err := h.gamificationService.GetLeaderboard(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetLeaderboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLeaderboard)
}

func (h *gamificationHandler) GetBadges(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.gamificationService.GetBadges(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBadges, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetBadges)
}
