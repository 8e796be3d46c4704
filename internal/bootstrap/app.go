// Package bootstrap assembles the shared infrastructure for each service
// binary: config, logging, telemetry, database, cache, event bus and the
// outbox processor. Service mains compose their handlers on top of an
// App and hand the engine to Serve.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/auth"
	"github.com/orderhub/backend/internal/infrastructure/cache"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/orderhub/backend/internal/infrastructure/event"
	"github.com/orderhub/backend/internal/infrastructure/logger"
	"github.com/orderhub/backend/internal/infrastructure/messaging"
	"github.com/orderhub/backend/internal/infrastructure/persistence"
	"github.com/orderhub/backend/internal/infrastructure/storage"
	"github.com/orderhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Options selects which infrastructure an App needs. The gateway runs
// with everything off; most services need the database and redis.
type Options struct {
	ServiceName   string
	NeedDatabase  bool
	NeedRedis     bool
	NeedStorage   bool
	NeedMessaging bool
}

// App holds the assembled infrastructure for one service binary
type App struct {
	ServiceName string
	Config      *config.Config
	Logger      *zap.Logger
	DB          *persistence.Database
	Cache       *cache.Factory
	Serializer  *event.EventSerializer
	Bus         shared.EventBus
	Publisher   shared.EventPublisher
	Outbox      *event.OutboxProcessor
	JWT         *auth.JWTService
	Blacklist   auth.TokenBlacklist
	Storage     storage.ObjectStorage
	Notifier    messaging.NotificationPublisher
	Metrics     *telemetry.BusinessMetrics

	tracer *telemetry.TracerProvider
	meter  *telemetry.MeterProvider
	logs   *telemetry.LoggerProvider
}

// New loads configuration and builds the infrastructure stack
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, opts.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		ServiceName: opts.ServiceName,
		Config:      cfg,
		Logger:      log,
	}

	if err := app.initTelemetry(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}

	app.JWT = auth.NewJWTService(cfg.JWT)

	if opts.NeedRedis {
		app.Cache = cache.NewFactory(cfg.Redis, cache.WithLogger(log))
		if client, err := app.Cache.Client(); err == nil {
			app.Blacklist = auth.NewRedisTokenBlacklist(client)
		} else {
			log.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
			app.Blacklist = auth.NewInMemoryTokenBlacklist()
		}
	} else {
		app.Blacklist = auth.NewInMemoryTokenBlacklist()
	}

	if opts.NeedDatabase {
		gormLog := logger.NewGormLogger(log, gormlogger.Warn,
			logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
		db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
			if err := db.EnableTracing(); err != nil {
				log.Warn("failed to enable database tracing", zap.Error(err))
			}
		}
		app.DB = db

		app.Serializer = event.NewEventSerializer()
		event.RegisterAllEvents(app.Serializer)

		bus := event.NewInMemoryEventBus(log)
		app.Bus = bus

		if cfg.Event.ProcessorEnabled {
			outboxRepo := event.NewGormOutboxRepository(db.DB)
			app.Publisher = event.NewPersistentPublisher(outboxRepo, app.Serializer)

			procCfg := event.DefaultOutboxProcessorConfig()
			// Each binary drains only the entries addressed to it, so a
			// fanned-out event reaches every subscribed service.
			procCfg.Consumer = opts.ServiceName
			if cfg.Event.BatchSize > 0 {
				procCfg.BatchSize = cfg.Event.BatchSize
			}
			if cfg.Event.PollInterval > 0 {
				procCfg.PollInterval = cfg.Event.PollInterval
			}
			procCfg.CleanupEnabled = cfg.Event.CleanupEnabled
			if cfg.Event.CleanupRetention > 0 {
				procCfg.CleanupRetention = cfg.Event.CleanupRetention
			}
			app.Outbox = event.NewOutboxProcessor(outboxRepo, bus, app.Serializer, procCfg, log)
		} else {
			// No outbox: events go straight to the in-process bus
			app.Publisher = bus
		}
	}

	if opts.NeedStorage {
		if cfg.Storage.Provider == "s3" {
			s3, err := storage.NewS3ObjectStorage(&cfg.Storage)
			if err != nil {
				app.close(ctx)
				return nil, fmt.Errorf("init object storage: %w", err)
			}
			app.Storage = s3
		} else {
			log.Warn("object storage stubbed, presigned URLs are not real",
				zap.String("provider", cfg.Storage.Provider))
			app.Storage = storage.NewStubObjectStorage()
		}
	}

	if opts.NeedMessaging {
		if cfg.Messaging.Enabled {
			pub, err := messaging.NewAMQPPublisher(cfg.Messaging, log)
			if err != nil {
				app.close(ctx)
				return nil, fmt.Errorf("connect message broker: %w", err)
			}
			app.Notifier = pub
		} else {
			app.Notifier = messaging.NewNopPublisher()
		}
	}

	return app, nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	cfg := a.Config.Telemetry
	if cfg.ServiceName == "" || cfg.ServiceName == a.Config.App.Name {
		cfg.ServiceName = a.ServiceName
	}

	tracer, err := telemetry.NewTracerProvider(ctx, cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.tracer = tracer

	meter, err := telemetry.NewMeterProvider(ctx, cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	a.meter = meter

	logs, err := telemetry.NewLoggerProvider(ctx, cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("init log exporter: %w", err)
	}
	a.logs = logs

	if meter.IsEnabled() {
		metrics, err := telemetry.NewBusinessMetrics(otel.Meter(a.ServiceName), a.Logger)
		if err != nil {
			return fmt.Errorf("init business metrics: %w", err)
		}
		a.Metrics = metrics
	}

	return nil
}

// Start starts the event bus and, when configured, the outbox processor
func (a *App) Start(ctx context.Context) error {
	if a.Bus != nil {
		if err := a.Bus.Start(ctx); err != nil {
			return fmt.Errorf("start event bus: %w", err)
		}
	}
	if a.Outbox != nil {
		if err := a.Outbox.Start(ctx); err != nil {
			return fmt.Errorf("start outbox processor: %w", err)
		}
	}
	return nil
}

// Shutdown stops background workers and closes connections in reverse
// dependency order
func (a *App) Shutdown(ctx context.Context) {
	if a.Outbox != nil {
		if err := a.Outbox.Stop(ctx); err != nil {
			a.Logger.Warn("outbox processor stop failed", zap.Error(err))
		}
	}
	if a.Bus != nil {
		if err := a.Bus.Stop(ctx); err != nil {
			a.Logger.Warn("event bus stop failed", zap.Error(err))
		}
	}
	a.close(ctx)
}

func (a *App) close(ctx context.Context) {
	if a.Notifier != nil {
		if err := a.Notifier.Close(); err != nil {
			a.Logger.Warn("message publisher close failed", zap.Error(err))
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	for _, shutdown := range []func(context.Context) error{
		a.shutdownTracer, a.shutdownMeter, a.shutdownLogs,
	} {
		if err := shutdown(ctx); err != nil {
			a.Logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}

func (a *App) shutdownTracer(ctx context.Context) error {
	if a.tracer == nil {
		return nil
	}
	return a.tracer.Shutdown(ctx)
}

func (a *App) shutdownMeter(ctx context.Context) error {
	if a.meter == nil {
		return nil
	}
	return a.meter.Shutdown(ctx)
}

func (a *App) shutdownLogs(ctx context.Context) error {
	if a.logs == nil {
		return nil
	}
	return a.logs.Shutdown(ctx)
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains with
// a shutdown grace period
func (a *App) Serve(ctx context.Context, handler http.Handler, port string) error {
	httpCfg := a.Config.HTTP
	srv := &http.Server{
		Addr:           ":" + port,
		Handler:        handler,
		ReadTimeout:    httpCfg.ReadTimeout,
		WriteTimeout:   httpCfg.WriteTimeout,
		IdleTimeout:    httpCfg.IdleTimeout,
		MaxHeaderBytes: httpCfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening",
			zap.String("service", a.ServiceName),
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.Logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("shutting down", zap.String("reason", "context cancelled"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
