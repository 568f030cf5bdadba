package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"herdscope/internal/analytics"
	"herdscope/internal/api"
	"herdscope/internal/api/handler"
	"herdscope/internal/config"
	"herdscope/internal/dispatch"
	"herdscope/internal/observability"
	"herdscope/internal/report"
	"herdscope/internal/store"
	"herdscope/pkg/router"
)

// @title HerdScope API
// @version 1.0
// @description Product metrics analytics, exports and email alerts over a CSV dataset.
// @BasePath /
func main() {
	// Prices and means are served and exported as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)
	log.Info().Object("smtp", cfg.SMTP).Msg("Configuration loaded")

	// Init dataset
	dataset := analytics.NewDataset()
	if err := dataset.Load(cfg.Dataset.Path); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("Failed to load dataset")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	db, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open dispatch store")
	}
	defer db.Close()

	var sender dispatch.Sender
	if smtp, err := dispatch.NewSMTPSender(cfg.SMTP); err != nil {
		log.Warn().Err(err).Msg("Email delivery disabled")
	} else {
		sender = smtp
	}

	renderer, err := report.NewRenderer(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse email templates")
	}

	dispatcher := dispatch.NewDispatcher(sender, db, cfg.SMTP.Timeout)
	alerts := dispatch.NewAlertService(dataset, renderer, dispatcher, cfg.Alerts.DefaultRecipients)

	// Create router
	r := router.New()
	r.Use(router.CORS(cfg.Server.AllowedOrigins))

	// Register API routes
	api.RegisterRoutes(r, handler.New(dataset, renderer, alerts, db))

	if err := r.Start(ctx, cfg.Server.Addr()); err != nil {
		log.Error().Err(err).Msg("Server stopped")
	}
}
