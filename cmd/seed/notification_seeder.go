package main

import (
	"log"

	"trade-alerts-be/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedNotificationTypes populates the notification type registry. Codes match
// the event codes published on the bus.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:             "USER_REGISTERED",
			Description:      "New account created",
			TitleTemplate:    "Welcome to the trading desk",
			MessageTemplate:  "Your account {email} is ready. Verify your email to get started.",
			DefaultRecipient: "SELF",
		},
		{
			Code:             "SUBSCRIPTION_CREATED",
			Description:      "Subscription activated after checkout",
			TitleTemplate:    "Subscription active",
			MessageTemplate:  "Your membership is live. Alerts and chat are unlocked.",
			DefaultRecipient: "SELF",
		},
		{
			Code:             "DISCOUNT_APPLIED",
			Description:      "Retention discount applied to a subscription",
			TitleTemplate:    "Your new price is locked in",
			MessageTemplate:  "Your membership now renews at {new_monthly_cents} cents/month ({percent_off}% off).",
			DefaultRecipient: "SELF",
		},
		{
			Code:             "SUBSCRIPTION_CANCELED",
			Description:      "Subscription cancelled at period end",
			TitleTemplate:    "Cancellation confirmed",
			MessageTemplate:  "Your membership stays active until {effective_date}.",
			DefaultRecipient: "SELF",
		},
		{
			Code:             "OFFER_ACCEPTED",
			Description:      "Stored retention offer accepted",
			TitleTemplate:    "Offer accepted",
			MessageTemplate:  "A retention offer was accepted by user {user_id}.",
			DefaultRecipient: "ADMIN",
		},
		{
			Code:             "ALERT_POSTED",
			Description:      "New trade alert published",
			TitleTemplate:    "New trade alert: {symbol}",
			MessageTemplate:  "A new {side} alert for {symbol} was just posted.",
			DefaultRecipient: "BROADCAST",
		},
		{
			Code:             "SYSTEM_BROADCAST",
			Description:      "Admin announcement to everyone",
			TitleTemplate:    "{title}",
			MessageTemplate:  "{message}",
			DefaultRecipient: "BROADCAST",
		},
	}

	for _, t := range types {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			UpdateAll: true,
		}).Create(&t).Error; err != nil {
			log.Printf("Warn: failed to seed notification type %s: %v", t.Code, err)
		}
	}
	log.Printf("Seeded %d notification types", len(types))
}
