// Command portal serves the CityFeedback web portal.
//
// @title        CityFeedback Portal API
// @version      1.0
// @description  Citizen feedback portal: public board, citizen dashboard, staff triage and user administration.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/cityfeedback/portal/internal/api"
	"github.com/cityfeedback/portal/internal/infrastructure/backend"
	"github.com/cityfeedback/portal/internal/infrastructure/config"
	"github.com/cityfeedback/portal/internal/infrastructure/db/redis"
	"github.com/cityfeedback/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Pretty: true, Output: os.Stderr})
		l := logger.Get()
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		App:    "portal",
	})

	schema, _ := cfg.Schema()

	secret := cfg.Portal.SessionSecret
	if secret == "" {
		if !cfg.IsDevelopment() {
			log.Fatal().Msg("SESSION_SECRET is required outside development")
		}
		secret = uuid.NewString()
		log.Warn().Msg("SESSION_SECRET not set; profiles will not survive a restart")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
	}
	defer rdb.Close()

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, logger.Component("backend"))

	e := api.NewRouter(api.Options{
		Backend:       client,
		Profiles:      redis.NewProfileStore(rdb, cfg.Portal.SessionTTL),
		Redis:         rdb,
		Schema:        schema,
		SessionSecret: secret,
		SessionTTL:    cfg.Portal.SessionTTL,
		Log:           logger.Component("portal"),
	})

	go func() {
		log.Info().
			Str("port", cfg.Portal.Port).
			Str("backend", cfg.Backend.URL).
			Str("status_schema", cfg.StatusSchema).
			Msg("portal listening")
		if err := e.Start(":" + cfg.Portal.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
