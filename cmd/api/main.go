package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzeria-delivery/internal/api"
	"pizzeria-delivery/internal/config"
	"pizzeria-delivery/internal/mapping"
	"pizzeria-delivery/internal/modules/couriers"
	"pizzeria-delivery/internal/modules/deliveries"
	"pizzeria-delivery/internal/modules/neighborhoods"
	"pizzeria-delivery/internal/modules/reports"
	"pizzeria-delivery/internal/realtime"
	"pizzeria-delivery/internal/shift"
	"pizzeria-delivery/pkg/email"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	policy, err := shift.ParsePolicy(cfg.ShiftPolicy)
	if err != nil {
		log.Fatalf("Invalid SHIFT_POLICY: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	realtime.AllowOrigins(cfg.ClientOrigin)

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- Mapping Provider ---
	// Distance lookups and route planning degrade gracefully when no API
	// key is configured: deliveries are saved without distances.
	var distances mapping.DistanceProvider
	var optimizer mapping.RouteOptimizer
	if cfg.ORSAPIKey != "" {
		provider, err := mapping.NewORSProvider(mapping.Config{
			APIKey:        cfg.ORSAPIKey,
			OriginAddress: cfg.RestaurantAddress,
		})
		if err != nil {
			log.Fatalf("Failed to initialize mapping provider: %v", err)
		}
		distances = provider
		optimizer = provider
	} else {
		e.Logger.Warn("ORS_API_KEY not set; distances will not be resolved")
	}

	// 5. --- Email (optional) ---
	var sender email.ServiceInterface
	var templates *email.TemplateManager
	if cfg.ReportEmail != "" && cfg.EmailFrom != "" {
		sesSender, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Failed to initialize SES sender: %v", err)
		}
		templates, err = email.NewTemplateManager()
		if err != nil {
			log.Fatalf("Failed to parse email templates: %v", err)
		}
		sender = sesSender
	}

	// 6. --- Dependency Injection (Wiring everything up) ---
	courierRepo := couriers.NewRepository(dbPool)
	courierService := couriers.NewService(courierRepo, cfg.JWTSecret, couriers.RestaurantCredentials{
		User:         cfg.RestaurantUser,
		PasswordHash: cfg.RestaurantPasswordHash,
	})
	courierHandler := couriers.NewHandler(courierService)

	neighborhoodRepo := neighborhoods.NewRepository(dbPool)
	neighborhoodService := neighborhoods.NewService(neighborhoodRepo)
	neighborhoodHandler := neighborhoods.NewHandler(neighborhoodService)

	deliveryRepo := deliveries.NewRepository(dbPool)
	deliveryService := deliveries.NewService(deliveryRepo, courierRepo, neighborhoodRepo, distances, optimizer, policy, loc)
	deliveryHandler := deliveries.NewHandler(deliveryService)

	reportService := reports.NewService(deliveryService, sender, templates)
	reportHandler := reports.NewHandler(reportService, cfg.ReportEmail)

	// 7. --- Realtime change feed ---
	hub := realtime.NewHub()
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	listener := realtime.NewListener(dbPool, hub, func(ctx context.Context) (any, error) {
		records, window, err := deliveryService.ListForDate(ctx, "", shift.CourierAll, time.Now())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"reference_date": window.ReferenceDate.String(),
			"window_start":   window.Start,
			"window_end":     window.End,
			"deliveries":     records,
		}, nil
	})
	go listener.Run(listenerCtx)

	// 8. --- Initialize Router ---
	api.SetupRoutes(e, courierHandler, neighborhoodHandler, deliveryHandler, reportHandler, hub, cfg.JWTSecret)

	// 9. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopListener()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
