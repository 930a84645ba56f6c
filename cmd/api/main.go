package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/viptransport/booking-api/internal/api"
	"github.com/viptransport/booking-api/internal/core/ports"
	"github.com/viptransport/booking-api/internal/infrastructure/config"
	"github.com/viptransport/booking-api/internal/infrastructure/db/postgres"
	"github.com/viptransport/booking-api/internal/infrastructure/email"
	"github.com/viptransport/booking-api/internal/infrastructure/queue"
	"github.com/viptransport/booking-api/pkg/logger"
)

// @title        VIP Transport Booking API
// @version      1.0
// @description  Authentication and account management for the VIP Transport booking platform.
// @BasePath     /api
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// Without Postmark credentials the dev sender logs mail instead of
	// delivering it, so the reset flow stays exercisable locally.
	var sender ports.EmailSender
	if cfg.Mail.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkSender(email.Config{
			ServerToken:  cfg.Mail.PostmarkServerToken,
			AccountToken: cfg.Mail.PostmarkAccountToken,
			SenderEmail:  cfg.Mail.SenderEmail,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("postmark configuration invalid")
		}
	} else {
		log.Warn().Msg("no postmark credentials configured, using dev mail sender")
		sender = email.NewDevSender(log)
	}

	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, sender, log)
	dispatcher.Start(ctx)

	notifier := email.NewResetNotifier(dispatcher, cfg.FrontendURL)

	e := api.NewRouter(pool, notifier, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
