package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	dragdropApplication "github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	dragdropServices "github.com/felixgeelhaar/wayfarer/internal/dragdrop/application/services"
	dragdropDomain "github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	dragdropPersistence "github.com/felixgeelhaar/wayfarer/internal/dragdrop/infrastructure/persistence"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/infrastructure/remote"
	schedulingCommands "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/commands"
	schedulingQueries "github.com/felixgeelhaar/wayfarer/internal/scheduling/application/queries"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	schedulingPersistence "github.com/felixgeelhaar/wayfarer/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/wayfarer/internal/shared/application"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	wishlistCommands "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/commands"
	wishlistQueries "github.com/felixgeelhaar/wayfarer/internal/wishlist/application/queries"
	wishlistDomain "github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	wishlistPersistence "github.com/felixgeelhaar/wayfarer/internal/wishlist/infrastructure/persistence"
	"github.com/felixgeelhaar/wayfarer/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container creates and holds all wired dependencies. The database driver
// is chosen from the connection string: SQLite for local single-user use,
// PostgreSQL when a postgres URL is configured.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	// Database
	DBDriver database.Driver
	SQLiteDB *sql.DB
	Pool     *pgxpool.Pool

	// Redis (optional)
	RedisClient *redis.Client
	RemoteStore *remote.RedisItineraryStore

	// Repositories
	ScheduleRepo schedulingDomain.ScheduleRepository
	PlaceRepo    wishlistDomain.PlaceRepository
	QueueRepo    dragdropDomain.QueueRepository
	OutboxRepo   outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Scheduling handlers
	ScheduleActivityHandler *schedulingCommands.ScheduleActivityHandler
	MoveActivityHandler     *schedulingCommands.MoveActivityHandler
	RemoveActivityHandler   *schedulingCommands.RemoveActivityHandler
	GetDayScheduleHandler   *schedulingQueries.GetDayScheduleHandler
	FindFreeGapsHandler     *schedulingQueries.FindFreeGapsHandler

	// Wishlist handlers
	SavePlaceHandler    *wishlistCommands.SavePlaceHandler
	ArchivePlaceHandler *wishlistCommands.ArchivePlaceHandler
	ListPlacesHandler   *wishlistQueries.ListPlacesHandler
	GetPlaceHandler     *wishlistQueries.GetPlaceHandler

	// Drag engine
	Pipeline       *schedulingDomain.Pipeline
	Engine         *dragdropApplication.Engine
	RetryScheduler *dragdropServices.RetryScheduler
	QueueDrainer   *dragdropServices.QueueDrainer

	// Messaging
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		UserID:   userID,
		DBDriver: database.DetectDriver(cfg.DatabaseURL),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	c.initRedis(ctx)
	c.initHandlers()
	if err := c.initMessaging(); err != nil {
		c.Close()
		return nil, err
	}
	c.initEngine()

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	switch c.DBDriver {
	case database.DriverSQLite:
		path := c.Config.DatabaseURL
		if path == "" {
			path = database.DefaultSQLitePath()
		}
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLiteDB = db
		c.ScheduleRepo = schedulingPersistence.NewSQLiteScheduleRepository(db)
		c.PlaceRepo = wishlistPersistence.NewSQLitePlaceRepository(db)
		c.QueueRepo = dragdropPersistence.NewSQLiteQueueRepository(db)
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
		c.Logger.Info("connected to database", "driver", "sqlite", "path", path)

	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, c.Config.DatabaseURL, 10)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.Pool = pool
		c.ScheduleRepo = schedulingPersistence.NewPostgresScheduleRepository(pool)
		c.PlaceRepo = wishlistPersistence.NewPostgresPlaceRepository(pool)
		c.QueueRepo = dragdropPersistence.NewPostgresQueueRepository(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Logger.Info("connected to database", "driver", "postgres")

	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	return nil
}

// initRedis connects the remote itinerary store. Redis is optional;
// without it the engine runs purely local.
func (c *Container) initRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, remote sync disabled", "error", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, operations will queue offline", "error", err)
	}
	c.RedisClient = client
	c.RemoteStore = remote.NewRedisItineraryStore(client)
	c.Logger.Info("remote itinerary store enabled")
}

func (c *Container) initHandlers() {
	c.ScheduleActivityHandler = schedulingCommands.NewScheduleActivityHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.MoveActivityHandler = schedulingCommands.NewMoveActivityHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.RemoveActivityHandler = schedulingCommands.NewRemoveActivityHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetDayScheduleHandler = schedulingQueries.NewGetDayScheduleHandler(c.ScheduleRepo)
	c.FindFreeGapsHandler = schedulingQueries.NewFindFreeGapsHandler(c.ScheduleRepo)

	c.SavePlaceHandler = wishlistCommands.NewSavePlaceHandler(c.PlaceRepo, c.OutboxRepo, c.UnitOfWork)
	c.ArchivePlaceHandler = wishlistCommands.NewArchivePlaceHandler(c.PlaceRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListPlacesHandler = wishlistQueries.NewListPlacesHandler(c.PlaceRepo)
	c.GetPlaceHandler = wishlistQueries.NewGetPlaceHandler(c.PlaceRepo)
}

func (c *Container) initMessaging() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.EventPublisher = publisher
		c.Logger.Info("connected to RabbitMQ")
	} else {
		c.EventPublisher = eventbus.NewInProcessEventBus(c.Logger)
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     c.Config.OutboxPollInterval,
		BatchSize:        c.Config.OutboxBatchSize,
		MaxRetries:       c.Config.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
	}, c.Logger)
	return nil
}

func (c *Container) initEngine() {
	local := dragdropApplication.NewLocalPerformer(
		c.UserID,
		c.ScheduleActivityHandler,
		c.MoveActivityHandler,
		c.RemoveActivityHandler,
	)

	var remoteSync dragdropApplication.RemoteSync
	if c.RemoteStore != nil {
		remoteSync = c.RemoteStore
	}
	performer := dragdropApplication.NewCompositePerformer(c.UserID, local, remoteSync, c.QueueRepo, c.Logger)

	c.Pipeline = schedulingDomain.DefaultPipeline()
	c.Engine = dragdropApplication.NewEngine(performer, c.Logger,
		dragdropApplication.WithPipeline(c.Pipeline),
		dragdropApplication.WithHistorySize(c.Config.HistoryMaxSize),
		dragdropApplication.WithMaxRetries(c.Config.RetryMaxAttempts),
		dragdropApplication.WithPreferences(dragdropDomain.Preferences{
			DragThreshold:    c.Config.DragThreshold,
			LongPressDelayMs: c.Config.LongPressDelayMs,
			SnapToGrid:       c.Config.SnapToGrid,
			ShowPreview:      c.Config.ShowPreview,
			AutoScroll:       c.Config.AutoScroll,
		}),
	)

	c.RetryScheduler = dragdropServices.NewRetryScheduler(performer, c.Config.RetryBaseDelay, c.Logger)
	c.RetryScheduler.SetOnSuccess(func(op *dragdropDomain.Operation) {
		if err := c.Engine.ResolveRetry(op); err != nil {
			c.Logger.Warn("retried operation not recorded", "operation_id", op.ID, "error", err)
		}
	})

	// Queued entries are already committed locally; replay must only
	// re-attempt the remote mirror.
	drainPerformer := dragdropDomain.Performer(dragdropDomain.PerformerFunc(
		func(context.Context, *dragdropDomain.Operation) error {
			return dragdropDomain.ErrRemoteUnavailable
		}))
	if remoteSync != nil {
		drainPerformer = dragdropApplication.NewRemoteSyncPerformer(c.UserID, remoteSync)
	}
	c.QueueDrainer = dragdropServices.NewQueueDrainer(c.QueueRepo, drainPerformer, c.Logger)
	c.QueueDrainer.SetInterval(c.Config.QueueDrainInterval)
	c.QueueDrainer.SetBatchSize(c.Config.QueueBatchSize)
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if closer, ok := c.EventPublisher.(interface{ Close() error }); ok && closer != nil {
		_ = closer.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.SQLiteDB != nil {
		_ = c.SQLiteDB.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	c.Logger.Info("container closed")
}
