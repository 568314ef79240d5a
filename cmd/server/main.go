package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/partyline/partyline/internal/adapters/http"
	"github.com/partyline/partyline/internal/app"
	"github.com/partyline/partyline/internal/config"
	"github.com/partyline/partyline/internal/directory"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var dir directory.Directory
	if cfg.DatabaseURL != "" {
		gd, err := directory.NewGormDirectory(cfg.DatabaseURL, cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open room directory")
		}
		dir = gd
		log.Info().Str("module", "main").Msg("using postgres room directory")
	} else {
		dir = directory.NewMemoryDirectory(cfg.BcryptCost)
		log.Info().Str("module", "main").Msg("using in-memory room directory")
	}

	var presence directory.PresenceMirror = directory.NoopPresence{}
	if cfg.RedisURL != "" {
		rp, err := directory.NewRedisPresence(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect presence mirror")
		}
		presence = rp
		log.Info().Str("module", "main").Msg("presence mirror enabled")
	}

	gate := app.NewAuthGate(cfg.AuthDelay)
	members := app.NewMembershipManager()
	relay := app.NewRelay()
	coord := app.NewCoordinator(dir, gate, members, relay, presence)

	r := router.SetupRouter(ctx, cfg, coord, dir)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Partyline server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	coord.Shutdown()
	log.Info().Msg("Server exited gracefully")
}
