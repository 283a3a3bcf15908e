// Package main is the entry point for the central-service: the CAS-facing
// half of the gateway. It owns the authenticated TCP session, accepts and
// acknowledges disaster alerts, publishes them to the broker, and transmits
// subscriber reports back to the CAS.
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

	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/consumer"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/handler"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/session"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/central/worker"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/amqpclient"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/config"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/telemetry"
)

// casInbound fans CAS frames out to the alert handler and the report
// transmitter. Fields are wired after construction because both sides also
// hold the session.
type casInbound struct {
	disasters *handler.DisasterHandler
	reports   *worker.ReportTransmitter
}

func (i *casInbound) OnDisasterNotify(ctx context.Context, body []byte) {
	i.disasters.OnDisasterNotify(ctx, body)
}

func (i *casInbound) OnReportAck(ctx context.Context, messageID uint32, body []byte) {
	i.reports.OnReportAck(ctx, messageID, body)
}

func main() {
	// ── Structured Logger ──────────────────────────────────────────────────
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// ── OpenTelemetry Tracer ───────────────────────────────────────────────
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), "central-service", otelEndpoint)
		if err != nil {
			logger.Error("OTel tracer init failed", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
			logger.Info("OTel tracer initialized", zap.String("endpoint", otelEndpoint))
		}
	}

	// ── Configuration ──────────────────────────────────────────────────────
	cfg, err := config.LoadCentral()
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

	// ── CAS Session ────────────────────────────────────────────────────────
	inbound := &casInbound{}
	sess := session.New(session.Config{
		Host:            cfg.CASHost,
		Port:            cfg.CASPort,
		DestID:          cfg.DestID,
		Password:        cfg.CASPassword,
		Magic:           cfg.MagicNumber,
		ResponseTimeout: cfg.ResponseTimeout,
		PongTimeout:     cfg.PongTimeout,
		SessionPeriod:   cfg.SessionPeriod,
		ReconnectDelay:  cfg.ReconnectDelay,
	}, inbound, logger)

	inbound.disasters = handler.NewDisasterHandler(store, sess, cfg.CentralServiceID, logger)
	transmitter := worker.NewReportTransmitter(store, sess,
		cfg.CentralServiceID, cfg.CentralSystemID,
		cfg.TransmitTimeout, cfg.MaxRetries, logger)
	inbound.reports = transmitter

	sessionCtx, sessionCancel := context.WithCancel(context.Background())
	defer sessionCancel()
	go sess.Run(sessionCtx)

	// ── Broker Consumer ────────────────────────────────────────────────────
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	reportConsumer := consumer.NewReportConsumer(broker, reportTopology, store,
		cfg.DestID, cfg.Broker.MaxRetries, logger)
	go reportConsumer.Run(consumerCtx)

	// ── Outbox Pollers ─────────────────────────────────────────────────────
	publisher := worker.NewDisasterPublisher(store, broker,
		disasterTopology.Exchange, cfg.MaxRetries, logger)

	sched := worker.NewScheduler(logger)
	if err := sched.AddEvery(cfg.PollPeriod, func() { publisher.Run(context.Background()) }); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	if err := sched.AddEvery(cfg.PollPeriod, func() { transmitter.Run(context.Background()) }); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()

	// ── Health Server ──────────────────────────────────────────────────────
	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware("central-service"))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":      "ok",
			"cas_session": sess.State().String(),
		})
	})

	go func() {
		logger.Info("central-service health endpoint listening",
			zap.String("addr", cfg.HealthListenAddr))
		if err := e.Start(cfg.HealthListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failure", zap.Error(err))
		}
	}()

	// ── Graceful Shutdown ──────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("initiating graceful shutdown")

	sched.Stop()
	transmitter.Shutdown()
	sessionCancel()
	sess.Shutdown()
	consumerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Echo shutdown error", zap.Error(err))
	}
	logger.Info("central-service shut down cleanly")
}
