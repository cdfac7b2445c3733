package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"suremdm-property-sync/internal/common/logging"
	"suremdm-property-sync/internal/config"
	"suremdm-property-sync/internal/handlers"
	"suremdm-property-sync/internal/middleware"
	"suremdm-property-sync/internal/properties"
	"suremdm-property-sync/internal/server"
	"suremdm-property-sync/internal/suremdm"
)

func main() {
	// A missing .env file is fine, the environment may be set directly.
	_ = godotenv.Load()

	logging.InitGlobalLogger()
	defer logging.MustSync()
	logger := logging.GetGlobalLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", err)
		os.Exit(1)
	}

	store := properties.NewStore(cfg.PropertiesFile, logger)

	client := suremdm.NewClient(suremdm.Config{
		APIURL:   cfg.SureMDMAPIURL,
		Username: cfg.SureMDMUsername,
		Password: cfg.SureMDMPassword,
		APIKey:   cfg.SureMDMAPIKey,
		Timeout:  cfg.HTTPTimeout,
	}, logger)

	h := handlers.New(store, client, logger)

	router := newRouter(h)

	srv := server.New(router, cfg.Port, cfg.TLSCert, cfg.TLSKey)
	errCh := srv.Start()
	logger.Info("Server started",
		logging.Field{Key: "port", Value: cfg.Port},
		logging.Field{Key: "properties_file", Value: cfg.PropertiesFile},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down", logging.Field{Key: "signal", Value: sig.String()})
	case err := <-errCh:
		logger.Error("Server failed", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
}

// newRouter wires the HTTP routes. The MDM platform delivers events with
// whatever method it is configured for, so the webhook route matches any
// method.
func newRouter(h *handlers.Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/webhook", h.HandleWebhook)
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	return router
}
