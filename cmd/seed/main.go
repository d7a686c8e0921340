package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

func main() {
	dbPath := os.Getenv("SCM_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/moderation.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.ModerationRecord{},
		&models.UserStrike{},
		&models.ReviewQueueEntry{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.APIClient{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Seed default thresholds
	thresholds, _ := json.Marshal(moderation.DefaultThresholds())
	setting := models.Setting{
		Key:      models.SettingModerationThresholds,
		Value:    string(thresholds),
		Category: "moderation",
	}
	result := db.Where("key = ?", setting.Key).FirstOrCreate(&setting)
	if result.Error != nil {
		log.Printf("Failed to seed thresholds: %v", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("✓ Created setting: %s = %s\n", setting.Key, setting.Value)
	} else {
		fmt.Printf("  Setting already exists: %s\n", setting.Key)
	}

	// Seed a development API client. The plaintext key is printed once;
	// only the hash is stored.
	seedKey := os.Getenv("SCM_SEED_API_KEY")
	if seedKey == "" {
		seedKey = "dev-local-key"
	}
	var existing models.APIClient
	if err := db.Where("name = ?", "local-dev").First(&existing).Error; err != nil {
		client := models.APIClient{Name: "local-dev", Enabled: true}
		if err := client.SetKey(seedKey); err != nil {
			log.Fatal("Failed to hash API key:", err)
		}
		if err := db.Create(&client).Error; err != nil {
			log.Printf("Failed to seed API client: %v", err)
		} else {
			fmt.Printf("✓ Created API client local-dev with key: %s\n", seedKey)
		}
	} else {
		fmt.Println("  API client already exists: local-dev")
	}

	// Seed an example external notification provider (disabled by default).
	provider := models.NotificationProvider{
		Name:                "ops-discord",
		Type:                "discord",
		URL:                 "https://discord.com/api/webhooks/000000000000000000/replace-me",
		Enabled:             false,
		NotifyRemovals:      true,
		NotifyShadowBans:    true,
		NotifyReviewBacklog: true,
	}
	result = db.Where("name = ?", provider.Name).FirstOrCreate(&provider)
	if result.Error != nil {
		log.Printf("Failed to seed notification provider: %v", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("✓ Created notification provider: %s\n", provider.Name)
	} else {
		fmt.Printf("  Notification provider already exists: %s\n", provider.Name)
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
