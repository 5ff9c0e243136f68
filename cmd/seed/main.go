package main

import (
	"log"
	"os"

	"trade-alerts-be/internal/model"
	"trade-alerts-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	seedPlans(db)
	seedChannels(db)
	seedAdminUser(db)
	SeedNotificationTypes(db)

	log.Println("Success: seeding completed")
}

func seedPlans(db *gorm.DB) {
	plans := []model.SubscriptionPlan{
		{
			Name:            "Trading Alerts",
			Slug:            "trading-alerts",
			Description:     "Real-time trade alerts with entries, stops and targets, plus the full chat community.",
			Tagline:         "Every alert, every day",
			PriceCents:      4900,
			AlertsEnabled:   true,
			ChatEnabled:     true,
			AlertDailyLimit: 0,
			IsMostPopular:   true,
			IsActive:        true,
			SortOrder:       1,
		},
	}

	for _, p := range plans {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			UpdateAll: true,
		}).Create(&p).Error; err != nil {
			log.Printf("Warn: failed to seed plan %s: %v", p.Slug, err)
		}
	}
	log.Printf("Seeded %d plans", len(plans))
}

func seedChannels(db *gorm.DB) {
	channels := []model.ChatChannel{
		{Name: "General", Slug: "general", Description: "Open discussion for all members", IsPremium: false, SortOrder: 1},
		{Name: "Trade Alerts", Slug: "trade-alerts", Description: "Alert breakdowns and follow-ups", IsPremium: true, SortOrder: 2},
		{Name: "Market Talk", Slug: "market-talk", Description: "Daily market chatter", IsPremium: true, SortOrder: 3},
	}

	for _, c := range channels {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			UpdateAll: true,
		}).Create(&c).Error; err != nil {
			log.Printf("Warn: failed to seed channel %s: %v", c.Slug, err)
		}
	}
	log.Printf("Seeded %d channels", len(channels))
}

func seedAdminUser(db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Info: SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warn: failed to hash admin password: %v", err)
		return
	}
	hashStr := string(hash)

	admin := model.User{
		Email:         email,
		PasswordHash:  &hashStr,
		FullName:      "Desk Admin",
		Role:          "admin",
		Status:        "active",
		EmailVerified: true,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&admin).Error; err != nil {
		log.Printf("Warn: failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", email)
}
