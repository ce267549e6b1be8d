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

	router "duetsync/backend/internal/adapters/http"
	"duetsync/backend/internal/catalog"
	"duetsync/backend/internal/config"
	"duetsync/backend/internal/hub"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	cat, err := catalog.Load(cfg.SongsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SongsPath).Msg("failed to load song catalog")
	}

	h := hub.New(cat, hub.Options{
		CreationGrace:     cfg.CreationGrace,
		EmptyRoomGrace:    cfg.EmptyRoomGrace,
		IdleSweepInterval: cfg.IdleSweepInterval,
		IdleRoomMaxAge:    cfg.IdleRoomMaxAge,
	})
	go h.Run(ctx)

	r := router.SetupRouter(ctx, cfg, h, cat)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Int("songs", cat.Len()).Msg("duet server started")
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
	log.Info().Msg("Server exited gracefully")
}
