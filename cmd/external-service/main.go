// Package main is the entry point for the external-service: the
// subscriber-facing half of the gateway. It fans broker alerts out to
// subscriber WebSockets and accepts their reports over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/consumer"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/handler"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/ws"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/config"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/telemetry"
)

func main() {
	// ── Structured Logger ──────────────────────────────────────────────────
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// ── OpenTelemetry Tracer ───────────────────────────────────────────────
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), "external-service", otelEndpoint)
		if err != nil {
			logger.Error("OTel tracer init failed", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
			logger.Info("OTel tracer initialized", zap.String("endpoint", otelEndpoint))
		}
	}

	// ── Configuration ──────────────────────────────────────────────────────
	cfg, err := config.LoadExternal()
	if err != nil {
		logger.Fatal("configuration load failed", zap.Error(err))
	}

	// ── Postgres ───────────────────────────────────────────────────────────
	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("bad PG_URL", zap.Error(err))
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("Postgres connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Postgres connected")

	store := repository.NewStore(pool)

	// ── AMQP Broker ────────────────────────────────────────────────────────
	broker, err := amqpclient.Dial(cfg.Broker.URL, logger)
	if err != nil {
		logger.Fatal("AMQP connection failed", zap.Error(err))
	}
	defer broker.Close()

	disasterTopology := amqpclient.DisasterTopology(cfg.Broker.RetryTTL)
	reportTopology := amqpclient.ReportTopology(cfg.Broker.RetryTTL)
	for _, t := range []amqpclient.Topology{disasterTopology, reportTopology} {
		if err := broker.Provision(t); err != nil {
			logger.Fatal("AMQP topology provisioning failed", zap.Error(err))
		}
	}

	// ── WebSocket Delivery ─────────────────────────────────────────────────
	manager := ws.NewSessionManager(store, logger)
	emitter := ws.NewEmitter(store, manager, cfg.TransmitTimeout, cfg.MaxRetries, logger)

	// ── Broker Consumer ────────────────────────────────────────────────────
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	disasterConsumer := consumer.NewDisasterConsumer(broker, disasterTopology, store,
		cfg.Broker.MaxRetries, logger)
	go disasterConsumer.Run(consumerCtx)

	// ── Outbox Pollers ─────────────────────────────────────────────────────
	reportPublisher := worker.NewReportPublisher(store, broker,
		reportTopology.Exchange, reportTopology.BindKey, cfg.MaxRetries, logger)
	disasterTransmitter := worker.NewDisasterTransmitter(store, emitter,
		cfg.TransmitTimeout, logger)

	sched := worker.NewScheduler(logger)
	if err := sched.AddEvery(cfg.PollPeriod, func() { reportPublisher.Run(context.Background()) }); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	if err := sched.AddEvery(cfg.PollPeriod, func() { disasterTransmitter.Run(context.Background()) }); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()

	// ── HTTP Server ────────────────────────────────────────────────────────
	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware("external-service"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("HTTP request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	auth := handler.APIKeyAuth(store, logger)
	handler.NewReportHandler(store, logger).Register(e, auth)
	handler.NewWSHandler(manager, logger).Register(e, auth)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		logger.Info("external-service listening", zap.String("addr", cfg.ListenAddr))
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failure", zap.Error(err))
		}
	}()

	// ── Graceful Shutdown ──────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("initiating graceful shutdown")

	sched.Stop()
	emitter.Shutdown()
	manager.Shutdown()
	consumerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Echo shutdown error", zap.Error(err))
	}
	logger.Info("external-service shut down cleanly")
}
