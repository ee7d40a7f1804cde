package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/element-hunt/internal/app"
	"github.com/jaminalder/element-hunt/internal/config"
	"github.com/jaminalder/element-hunt/internal/oracle"
	"github.com/jaminalder/element-hunt/internal/web"
)

func main() {
	envFile := config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	logger := log.Logger
	if envFile != "" {
		logger.Debug().Str("file", envFile).Msg("loaded env file")
	}

	guard := oracle.NewGuard(cfg.NewOracle(), cfg.OracleTimeout, logger)
	svc := app.NewService(
		app.WithOracle(guard),
		app.WithTick(cfg.TickInterval),
		app.WithLogger(logger.With().Str("component", "matches").Logger()),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           web.NewServer(svc,
			web.WithLogger(logger),
			web.WithSessionSecret(cfg.SessionSecret),
			web.WithSecureCookies(cfg.CookieSecure),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		// Ends the event and websocket streams; Shutdown does not cancel them.
		svc.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("oracle", cfg.Oracle).Msg("starting element-hunt")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-done
}
