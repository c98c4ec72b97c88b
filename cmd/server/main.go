package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/api"
	"github.com/avelinsk/quizflow/internal/audit"
	"github.com/avelinsk/quizflow/internal/config"
	"github.com/avelinsk/quizflow/internal/events"
	"github.com/avelinsk/quizflow/internal/score"
	"github.com/avelinsk/quizflow/internal/seed"
	"github.com/avelinsk/quizflow/internal/session"
	"github.com/avelinsk/quizflow/internal/store"
	"github.com/avelinsk/quizflow/internal/telemetry"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.AppEnv == "dev" {
		log = log.Level(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry.Init()

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("store_type", cfg.StoreType).Msg("create store")
	}
	defer st.Close()

	sessions, err := session.NewRepository(ctx, cfg.SessionStore, cfg.RedisAddr, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Str("session_store", cfg.SessionStore).Msg("create session repository")
	}
	defer sessions.Close()

	var sink events.Sink
	if cfg.EventsURL != "" {
		dispatcher := events.NewDispatcher(cfg.EventsURL, log)
		dispatcher.Start()
		defer dispatcher.Close()
		sink = dispatcher
	} else {
		sink = events.NewLogSink(log)
	}

	if cfg.SeedFile != "" {
		if err := seed.Apply(ctx, st, cfg.SeedFile, log); err != nil {
			log.Fatal().Err(err).Str("path", cfg.SeedFile).Msg("apply seed")
		}
		if cfg.SeedWatch {
			if err := seed.Watch(ctx, st, cfg.SeedFile, log); err != nil {
				log.Fatal().Err(err).Str("path", cfg.SeedFile).Msg("watch seed")
			}
		}
	}

	auditSvc := audit.NewService(audit.NewLogSink(log), log)
	defer auditSvc.Close()

	resolver := score.NewResolver(st, log)
	mgr := session.NewManager(st, sessions, sink, resolver, log)
	mgr.SetVisitorSalt(cfg.VisitorSalt)

	apiSrv := api.NewServer(st, mgr, cfg.AdminAPIKey, log,
		api.WithRateLimits(cfg.RateLimitPerIP, cfg.RateLimitAdmin),
		api.WithAudit(auditSvc))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      apiSrv.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()

	ctxShut, cancelShut := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShut()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	log.Info().Msg("stopped")
}
