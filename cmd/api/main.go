package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PratikDhanave/sms-wecom-relay/internal/config"
	"github.com/PratikDhanave/sms-wecom-relay/internal/httpserver"
	"github.com/PratikDhanave/sms-wecom-relay/internal/logger"
	"github.com/PratikDhanave/sms-wecom-relay/internal/relay"
	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
	"github.com/PratikDhanave/sms-wecom-relay/internal/wecom"
)

// main boots the service: config → logger → cache → relay → HTTP server.
func main() {
	// Load runtime config from environment (API_TOKEN, WECOM_*, CACHE_DRIVER, ...).
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Validated by config.Load.
	loc, _ := time.LoadLocation(cfg.TimeZone)

	// Optional cache: dedup and archive are skipped entirely without one.
	cache, closeCache, err := store.Open(ctx, cfg, logger.WithComponent(log, "store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.CacheDriver).Msg("cache unavailable")
	}
	defer closeCache()

	if cfg.WeCom.CorpID == "" || cfg.WeCom.Secret == "" || cfg.WeCom.AgentID == "" {
		log.Warn().Msg("wecom credentials incomplete; forwards will fail until WECOM_CORPID, WECOM_SECRET and WECOM_AGENTID are set")
	}

	notifier := wecom.NewClient(cfg.WeCom, loc)
	svc := relay.New(cache, notifier, loc, logger.WithComponent(log, "relay"))

	router := httpserver.NewRouter(cfg, svc, cache, logger.WithComponent(log, "http"))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("cache", cfg.CacheDriver).
		Str("time_zone", cfg.TimeZone).
		Msg("server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		closeCache()
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
