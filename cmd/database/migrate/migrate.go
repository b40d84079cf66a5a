package migration

import (
	"fmt"
	"log"

	"Planeat-Backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Profile{}); err != nil {
		log.Fatalf("Error migrating profile database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Menu{}); err != nil {
		log.Fatalf("Error migrating menu database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShoppingItem{}); err != nil {
		log.Fatalf("Error migrating shopping item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CompletedMeal{}); err != nil {
		log.Fatalf("Error migrating completed meal database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.GamificationState{}); err != nil {
		log.Fatalf("Error migrating gamification state database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PointsLogEntry{}); err != nil {
		log.Fatalf("Error migrating points log database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Subscription{}); err != nil {
		log.Fatalf("Error migrating subscription database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
