package domain

import (
	"errors"
	"time"

	"Planeat-Backend/entities"
)

var (
	MessageSuccessGenerateMenu  = "menu generated successfully"
	MessageSuccessGetActiveMenu = "active menu retrieved successfully"
	MessageSuccessGetMenuHistory = "menu history retrieved successfully"
	MessageSuccessSwapMeal      = "meal swapped successfully"
	MessageSuccessCompleteMeal  = "meal completed successfully"
	MessageSuccessGetRecipe     = "recipe retrieved successfully"

	MessageFailedGenerateMenu  = "failed to generate menu"
	MessageFailedGetActiveMenu = "failed to retrieve active menu"
	MessageFailedGetHistory    = "failed to retrieve menu history"
	MessageFailedSwapMeal      = "failed to swap meal"
	MessageFailedCompleteMeal  = "failed to complete meal"
	MessageFailedGetRecipe     = "failed to retrieve recipe"

	ErrMenuNotFound         = errors.New("menu not found")
	ErrNoActiveMenu         = errors.New("no active menu")
	ErrInvalidDayIndex      = errors.New("day index out of range")
	ErrMealSlotNotScheduled = errors.New("meal slot not scheduled for this day")
	ErrMealAlreadyCompleted = errors.New("meal already completed")
	ErrGenerationFailed     = errors.New("menu generation service failed")
)

// Meal slots accepted by completion and swap requests.
const (
	MealSlotBreakfast = "breakfast"
	MealSlotLunch     = "lunch"
	MealSlotDinner    = "dinner"
)

type (
	GenerateMenuRequest struct {
		WeekStart string  `json:"week_start" validate:"omitempty,datetime=2006-01-02"`
		Budget    float64 `json:"budget" validate:"omitempty,gt=0"`
		Diners    int     `json:"diners" validate:"omitempty,min=1,max=12"`
		DietType  string  `json:"diet_type" validate:"omitempty"`
	}

	MenuResponse struct {
		ID            string                    `json:"id"`
		WeekStart     time.Time                 `json:"week_start"`
		Days          entities.MenuDays         `json:"days"`
		ShoppingList  entities.ShoppingSnapshot `json:"shopping_list"`
		EstimatedCost float64                   `json:"estimated_cost"`
		IsActive      bool                      `json:"is_active"`
		CreatedAt     time.Time                 `json:"created_at"`
	}

	MenuSummary struct {
		ID        string    `json:"id"`
		WeekStart time.Time `json:"week_start"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}

	SwapMealRequest struct {
		MenuID   string `json:"menu_id" validate:"required,uuid"`
		DayIndex int    `json:"day_index" validate:"min=0"`
		MealType string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	}

	SwapMealResponse struct {
		Meal         *entities.Meal            `json:"meal"`
		ShoppingList entities.ShoppingSnapshot `json:"shopping_list"`
		Added        []GeneratorShoppingItem   `json:"added"`
		Removed      []GeneratorShoppingItem   `json:"removed"`
	}

	CompleteMealRequest struct {
		MenuID   string `json:"menu_id" validate:"required,uuid"`
		DayIndex int    `json:"day_index" validate:"min=0"`
		MealType string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
		Rating   *int   `json:"rating" validate:"omitempty,min=1,max=5"`
		Notes    string `json:"notes" validate:"omitempty,max=500"`
	}

	CompleteMealResponse struct {
		PointsAwarded int       `json:"points_awarded"`
		TotalPoints   int       `json:"total_points"`
		Level         LevelTier `json:"level"`
		Streak        int       `json:"streak"`
		DayCompleted  bool      `json:"day_completed"`
		WeekCompleted bool      `json:"week_completed"`
		NewBadges     []string  `json:"new_badges"`
	}
)
