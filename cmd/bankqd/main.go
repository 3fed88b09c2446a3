package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/samanbandara/bank/internal/config"
	"github.com/samanbandara/bank/internal/dispatch"
	"github.com/samanbandara/bank/internal/httpapi"
	"github.com/samanbandara/bank/internal/schedule"
	"github.com/samanbandara/bank/internal/store/postgres"
	"github.com/samanbandara/bank/internal/telemetry"
)

const serviceName = "bankqd"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config load failed")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	shutdownTracing := telemetry.Setup(serviceName, log)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	st := postgres.NewStore(pool)
	if err := st.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	resolver := schedule.NewResolver(st, log)
	dispatcher := dispatch.New(st, st, st, st, st, resolver, log, dispatch.Options{
		FollowUp: dispatch.FollowUpRule{
			First:       cfg.FollowUpPrimary,
			Second:      cfg.FollowUpSecondary,
			CounterHint: cfg.FollowUpCounterHint,
		},
	})
	handler := httpapi.New(dispatcher, st, st, st, st, st, st, st, log, httpapi.Options{
		OnlineWindow: cfg.DeviceOnlineWindow,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})

	router := chi.NewRouter()
	router.Use(limiter.Middleware)
	router.Use(httpapi.RequestLogger(log))
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown error")
	}
}
