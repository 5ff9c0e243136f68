package bootstrap

import (
	"context"
	"log"
	"time"

	"trade-alerts-be/internal/config"
	"trade-alerts-be/internal/controller"
	"trade-alerts-be/internal/handler"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/pkg/mailer"
	"trade-alerts-be/internal/repository/implementation"
	"trade-alerts-be/internal/repository/memory"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/internal/service"
	"trade-alerts-be/internal/websocket"
	adminEvents "trade-alerts-be/pkg/admin/events"
	"trade-alerts-be/pkg/billing"
	pktNats "trade-alerts-be/pkg/nats"
	"trade-alerts-be/pkg/pricing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	SubscriptionController controller.ISubscriptionController
	CancellationController controller.ICancellationController
	ChatController         controller.IChatController
	AlertController        controller.IAlertController
	AdminController        controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	OfferService    service.IOfferService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// A nil *Publisher inside the interface would dodge the services' nil
	// checks, so only assign when the connection succeeded.
	var bus service.EventPublisher
	if natsPub != nil {
		bus = natsPub
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Billing
	billingProvider := billing.NewStripeProvider(billing.Config{
		SecretKey:      cfg.Stripe.SecretKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		MonthlyPriceID: cfg.Stripe.MonthlyPriceID,
		SuccessURL:     cfg.Stripe.SuccessURL,
		CancelURL:      cfg.Stripe.CancelURL,
	})

	// In-memory wizard sessions
	sessionRepo := memory.NewFlowSessionRepository()

	// 3. Services
	offerTTL := time.Duration(cfg.Retention.OfferTTLHours) * time.Hour
	offerService := service.NewOfferService(uowFactory, offerTTL, sysLogger)

	policy := pricing.Policy{
		FloorCents:     cfg.Retention.FloorCents,
		MinDiscountPct: cfg.Retention.MinDiscountPct,
		MaxDiscountPct: cfg.Retention.MaxDiscountPct,
	}

	retentionService := service.NewRetentionService(
		uowFactory,
		sessionRepo,
		offerService,
		billingProvider,
		policy,
		cfg.Retention,
		bus,
		pubSub,
		emailService,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		service.DeclinedOffersTopic,
		offerService,
	)

	authService := service.NewAuthService(uowFactory, emailService, bus, sysLogger)
	oauthService := service.NewOAuthService(uowFactory)
	subscriptionService := service.NewSubscriptionService(uowFactory, billingProvider, offerService, bus, sysLogger)
	chatService := service.NewChatService(uowFactory, wsHub, sysLogger)
	alertService := service.NewAlertService(uowFactory, bus, sysLogger)

	// Admin Domain Components
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	adminService := service.NewAdminService(uowFactory, adminEventPublisher, sysLogger)

	// 3.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		CancellationController: controller.NewCancellationController(retentionService, cfg.Retention),
		ChatController:         controller.NewChatController(chatService),
		AlertController:        controller.NewAlertController(alertService),
		AdminController:        controller.NewAdminController(adminService, sysLogger),

		ConsumerService: consumerService,
		OfferService:    offerService,
	}
}
