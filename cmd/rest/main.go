package main

import (
	"context"
	"log"
	"time"

	"trade-alerts-be/internal/bootstrap"
	"trade-alerts-be/internal/config"
	"trade-alerts-be/internal/server"
	"trade-alerts-be/internal/tracer"
	"trade-alerts-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting declined-offer consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go func() {
		sweep := func() {
			if n, err := container.OfferService.ExpireStale(context.Background()); err != nil {
				log.Printf("Background: offer expiry sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Background: expired %d stale offers", n)
			}
		}
		sweep()
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			sweep()
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
