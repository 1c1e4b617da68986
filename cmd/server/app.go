package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/journal-drill/internal/api"
	"github.com/phrazzld/journal-drill/internal/catalog"
	"github.com/phrazzld/journal-drill/internal/config"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/memory"
	"github.com/phrazzld/journal-drill/internal/platform/postgres"
	"github.com/phrazzld/journal-drill/internal/platform/redisstore"
	"github.com/phrazzld/journal-drill/internal/scheduler"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
	"github.com/phrazzld/journal-drill/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	catalog *domain.Catalog

	// Storage; db or redis is set depending on the driver.
	db       *sql.DB
	redis    *redis.Client
	progress store.ProgressStore
	attempts store.AttemptStore
	ping     api.PingFunc

	// Background persistence
	queue   *task.TaskQueue
	workers *task.WorkerPool

	drill     drill.DrillService
	scheduler *scheduler.Scheduler
}

// newApplication creates a new application instance with all dependencies initialized.
// On error every resource opened so far is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	defer func() {
		if err != nil {
			app.cleanup(context.Background())
		}
	}()

	app.catalog, err = catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario catalog: %w", err)
	}

	if err = app.setupStorage(ctx); err != nil {
		return nil, err
	}

	app.queue = task.NewTaskQueue(cfg.Persistence.QueueSize, logger)
	app.workers = task.NewWorkerPool(app.queue, task.WorkerPoolConfig{
		WorkerCount: cfg.Persistence.WorkerCount,
		TaskTimeout: cfg.Persistence.WriteTimeout(),
	}, logger)
	app.workers.Start()

	gateway := drill.NewAsyncGateway(app.progress, app.attempts, app.queue, logger)
	app.drill, err = drill.NewDrillService(app.catalog, gateway, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create drill service: %w", err)
	}

	app.scheduler = scheduler.New(app.drill,
		cfg.Session.IdleTimeout(),
		time.Duration(cfg.Session.SweepIntervalMinutes)*time.Minute,
		logger)
	if err = app.scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start session sweep: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("scenarios", app.catalog.Size()),
		slog.String("storage", cfg.Storage.Driver))
	return app, nil
}

// setupStorage opens the configured backend and assigns the stores.
func (app *application) setupStorage(ctx context.Context) error {
	cfg := app.config
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.progress = postgres.NewPostgresProgressStore(db, app.logger)
		app.attempts = postgres.NewPostgresAttemptStore(db, app.logger)
		app.ping = db.PingContext

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = client
		s := redisstore.New(client, cfg.Redis.KeyPrefix, app.logger)
		app.progress, app.attempts, app.ping = s, s, s.Ping
		app.logger.Info("redis connection established")

	case config.DriverMemory:
		s := memory.New(app.logger)
		app.progress, app.attempts = s, s
		app.logger.Warn("using in-memory storage; progress is lost on restart")

	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background work, lets queued writes drain and closes the
// storage connections. It is safe on a partially built application.
func (app *application) cleanup(ctx context.Context) {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.queue != nil {
		app.queue.Close()
	}
	if app.workers != nil {
		drainCtx, cancel := context.WithTimeout(ctx, app.config.Persistence.WriteTimeout())
		if err := app.workers.Stop(drainCtx); err != nil {
			app.logger.Warn("pending writes dropped at shutdown",
				slog.Int("remaining", app.queue.Len()),
				slog.String("error", err.Error()))
		}
		cancel()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
