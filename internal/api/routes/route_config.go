package routes

import (
	"Planeat-Backend/internal/api/handlers"
	"Planeat-Backend/internal/middleware"
	"Planeat-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	MenuHandler         handlers.MenuHandler
	ShoppingHandler     handlers.ShoppingHandler
	GamificationHandler handlers.GamificationHandler
	SubscriptionHandler handlers.SubscriptionHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Menus()
	c.Shopping()
	c.Gamification()
	c.Subscriptions()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Get("/profile", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetProfile)
		user.Put("/profile", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
	}
}

func (c *Config) Menus() {
	menus := c.App.Group("/api/v1/menus", c.Middleware.AuthMiddleware(c.JWTService))

	menus.Post("/generate", c.MenuHandler.GenerateMenu)
	menus.Get("/active", c.MenuHandler.GetActiveMenu)
	menus.Get("/history", c.MenuHandler.GetHistory)
	menus.Get("/recipe", c.MenuHandler.GetRecipe)
	menus.Post("/:id/swap", c.MenuHandler.SwapMeal)
	menus.Post("/:id/complete", c.MenuHandler.CompleteMeal)
}

func (c *Config) Shopping() {
	shopping := c.App.Group("/api/v1/shopping", c.Middleware.AuthMiddleware(c.JWTService))

	shopping.Get("", c.ShoppingHandler.GetShoppingList)
	shopping.Post("/items", c.ShoppingHandler.AddItem)
	shopping.Patch("/items/:id/toggle", c.ShoppingHandler.ToggleItem)
	shopping.Delete("/items/:id", c.ShoppingHandler.DeleteItem)
}

func (c *Config) Gamification() {
	gamification := c.App.Group("/api/v1/gamification", c.Middleware.AuthMiddleware(c.JWTService))

	gamification.Get("/stats", c.GamificationHandler.GetStats)
	gamification.Get("/points", c.GamificationHandler.GetPointsHistory)
	gamification.Get("/leaderboard", c.GamificationHandler.GetLeaderboard)
	gamification.Get("/badges", c.GamificationHandler.GetBadges)
}

func (c *Config) Subscriptions() {
	subscriptions := c.App.Group("/api/v1/subscriptions", c.Middleware.AuthMiddleware(c.JWTService))

	subscriptions.Get("/status", c.SubscriptionHandler.GetStatus)
	subscriptions.Post("/trial", c.SubscriptionHandler.StartTrial)
	subscriptions.Post("/checkout", c.SubscriptionHandler.CreateCheckout)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.SubscriptionHandler.MidtransWebhook)
}
