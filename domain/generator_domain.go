package domain

import "Planeat-Backend/entities"

// Payloads exchanged with the external menu-generation service. The service
// is the sole source of what changes during a swap; this backend only applies
// the reported shopping-list delta.
type (
	GeneratorConstraints struct {
		Budget      float64  `json:"budget"`
		Diners      int      `json:"diners"`
		MealsPerDay int      `json:"mealsPerDay"`
		DaysPerWeek int      `json:"daysPerWeek"`
		DietType    string   `json:"dietType"`
		Allergies   []string `json:"allergies"`
		Dislikes    []string `json:"dislikes"`
		PantryItems []string `json:"pantryItems"`
	}

	GeneratorShoppingItem struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
		Category string `json:"category"`
	}

	GeneratedMenu struct {
		Days          entities.MenuDays       `json:"days"`
		ShoppingList  []GeneratorShoppingItem `json:"shoppingList"`
		EstimatedCost float64                 `json:"estimatedCost"`
	}

	SwapPreferences struct {
		DietType  string   `json:"dietType"`
		Allergies []string `json:"allergies"`
		Dislikes  []string `json:"dislikes"`
	}

	ShoppingListChanges struct {
		Added   []GeneratorShoppingItem `json:"added"`
		Removed []GeneratorShoppingItem `json:"removed"`
	}

	SwappedMeal struct {
		Meal                *entities.Meal      `json:"meal"`
		ShoppingListChanges ShoppingListChanges `json:"shoppingListChanges"`
	}

	RecipeIngredient struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}

	RecipeDetail struct {
		Name        string             `json:"name"`
		Ingredients []RecipeIngredient `json:"ingredients"`
		Steps       []string           `json:"steps"`
		TimeMinutes int                `json:"time_min"`
	}
)
