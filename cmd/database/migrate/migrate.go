package migration

import (
	"fmt"
	"log"

	"tastebook/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []interface{}{
		&entities.User{},
		&entities.Recipe{},
		&entities.Rating{},
		&entities.Comment{},
		&entities.Follow{},
		&entities.FollowRequest{},
		&entities.PlannedDay{},
		&entities.PlannedMeal{},
		&entities.Report{},
		&entities.Notification{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating database: %v", err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
