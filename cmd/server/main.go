package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/notify"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	products := repository.NewProductRepo(db)
	reservations := repository.NewReservationRepo(db)
	externals := repository.NewExternalReservationRepo(db)

	// Push delivery; disabled when no server key is configured.
	var dispatcher *notify.Dispatcher
	if cfg.FCMServerKey != "" {
		dispatcher = notify.NewDispatcher(notify.NewFCMSender(cfg.FCMEndpoint, cfg.FCMServerKey))
	} else {
		log.Println("push notifications disabled: FCM_SERVER_KEY not set")
	}

	// Background audit consumer for lifecycle events.
	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartStatusConsumer(cfg.AMQPURL); err != nil {
				log.Printf("status consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis backs the rate limiter and the public response cache. When
	// the connection fails both degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(restaurants, products)
	customerH := handler.NewCustomerReservationHandler(reservations, restaurants, products, users, dispatcher, cfg.AMQPURL)
	agentH := handler.NewAgentReservationHandler(reservations, externals, users, dispatcher, cfg.AMQPURL)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterCustomer(e, customerH, cfg.JWTSecret)
	router.RegisterAgent(e, agentH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
