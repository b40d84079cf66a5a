package config

import (
	"os"
	"time"

	"Planeat-Backend/internal/api/handlers"
	"Planeat-Backend/internal/api/routes"
	"Planeat-Backend/internal/middleware"
	"Planeat-Backend/internal/utils"
	"Planeat-Backend/internal/utils/storage"
	"Planeat-Backend/pkg/gamification"
	"Planeat-Backend/pkg/generator"
	"Planeat-Backend/pkg/jwt"
	"Planeat-Backend/pkg/menu"
	"Planeat-Backend/pkg/shopping"
	"Planeat-Backend/pkg/subscription"
	"Planeat-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/Madrid",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	menuRepository := menu.NewMenuRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)
	gamificationRepository := gamification.NewGamificationRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	generatorService := generator.NewGeneratorService()
	gamificationService := gamification.NewGamificationService(gamificationRepository)
	userService := user.NewUserService(
		userRepository,
		gamificationRepository,
		gamificationService,
		jwtService,
		s3,
	)
	menuService := menu.NewMenuService(
		menuRepository,
		shoppingRepository,
		gamificationRepository,
		userRepository,
		generatorService,
	)
	shoppingService := shopping.NewShoppingService(shoppingRepository)
	subscriptionService := subscription.NewSubscriptionService(
		subscriptionRepository,
		userRepository,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	menuHandler := handlers.NewMenuHandler(menuService, validator)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, validator)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		MenuHandler:         menuHandler,
		ShoppingHandler:     shoppingHandler,
		GamificationHandler: gamificationHandler,
		SubscriptionHandler: subscriptionHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
