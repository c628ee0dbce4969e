package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dmarochkin/keebshop/internal/config"
	"github.com/dmarochkin/keebshop/internal/db"
	"github.com/dmarochkin/keebshop/internal/events"
	"github.com/dmarochkin/keebshop/internal/httpserver"
	"github.com/dmarochkin/keebshop/internal/logging"
	mw "github.com/dmarochkin/keebshop/internal/middleware"
	"github.com/dmarochkin/keebshop/internal/payments"
	"github.com/dmarochkin/keebshop/internal/repo"
	"github.com/dmarochkin/keebshop/internal/search"
	"github.com/dmarochkin/keebshop/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	config.MustNonEmpty(cfg.StripeSecretKey, "STRIPE_SECRET_KEY")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
	}

	var index service.ProductIndexer
	if cfg.ESURL != "" {
		idx, err := search.NewProductIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = idx
	}

	gormRepo := &repo.GormRepo{DB: database}
	provider := payments.NewStripeProvider(cfg.StripeSecretKey)

	deps := &httpserver.Deps{
		Products: &httpserver.ProductHTTP{
			Svc: &service.CatalogService{Repo: gormRepo, Events: publisher, Index: index},
		},
		Cart: &httpserver.CartHTTP{
			Svc: &service.CartService{Repo: gormRepo},
		},
		Checkout: &httpserver.CheckoutHTTP{
			Svc: &service.CheckoutService{
				Repo:     gormRepo,
				Provider: provider,
				Events:   publisher,
				Currency: cfg.Currency,
			},
		},
		Orders: &httpserver.OrderHTTP{
			Svc: &service.OrderService{Repo: gormRepo},
		},
		Analytics: &httpserver.AnalyticsHTTP{
			Svc: &service.AnalyticsService{Repo: gormRepo},
		},
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:          gormRepo,
				Events:        publisher,
				JWTSecret:     cfg.JWTAccessSecret,
				RefreshSecret: cfg.JWTRefreshSecret,
			},
		},
		Profile: &httpserver.ProfileHTTP{
			Svc: &service.ProfileService{Repo: gormRepo},
		},
		JWTSecret: cfg.JWTAccessSecret,
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting server", "addr", addr, "service", cfg.ServiceName)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
