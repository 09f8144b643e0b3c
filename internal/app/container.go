// Package app wires the application together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	identityApplication "github.com/helpmatch/helpmatch/internal/identity/application"
	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	identityPersistence "github.com/helpmatch/helpmatch/internal/identity/infrastructure/persistence"
	inviteCommands "github.com/helpmatch/helpmatch/internal/invites/application/commands"
	inviteQueries "github.com/helpmatch/helpmatch/internal/invites/application/queries"
	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	invitePersistence "github.com/helpmatch/helpmatch/internal/invites/infrastructure/persistence"
	matchingApplication "github.com/helpmatch/helpmatch/internal/matching/application"
	"github.com/helpmatch/helpmatch/internal/matching/domain/scoring"
	"github.com/helpmatch/helpmatch/internal/matching/infrastructure/similarity"
	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
	_ "github.com/helpmatch/helpmatch/internal/shared/infrastructure/database/postgres"
	_ "github.com/helpmatch/helpmatch/internal/shared/infrastructure/database/sqlite"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/eventbus"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/migrations"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	taskCommands "github.com/helpmatch/helpmatch/internal/tasks/application/commands"
	taskQueries "github.com/helpmatch/helpmatch/internal/tasks/application/queries"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
	taskPersistence "github.com/helpmatch/helpmatch/internal/tasks/infrastructure/persistence"
	"github.com/helpmatch/helpmatch/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	UserRepo   identityDomain.UserRepository
	TaskRepo   task.Repository
	InviteRepo invite.Repository
	OutboxRepo outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Identity
	UserService *identityApplication.UserService

	// Task handlers
	CreateTaskHandler   *taskCommands.CreateTaskHandler
	StartTaskHandler    *taskCommands.StartTaskHandler
	CompleteTaskHandler *taskCommands.CompleteTaskHandler
	CancelTaskHandler   *taskCommands.CancelTaskHandler
	UnassignTaskHandler *taskCommands.UnassignTaskHandler
	GetTaskHandler      *taskQueries.GetTaskHandler
	ListMyTasksHandler  *taskQueries.ListMyTasksHandler

	// Invite handlers
	SendInviteHandler          *inviteCommands.SendInviteHandler
	RespondInviteHandler       *inviteCommands.RespondInviteHandler
	ListIncomingInvitesHandler *inviteQueries.ListIncomingInvitesHandler

	// Matching
	RankingEngine        *matchingApplication.RankingEngine
	RelevantTasksHandler *matchingApplication.ListRelevantTasksHandler

	// Outbox
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis is optional; without it similarity scores are not cached.
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, similarity cache disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, similarity cache disabled", "error", err)
			} else {
				c.RedisClient = client
				logger.Info("connected to Redis")
			}
		}
	}

	c.buildRepositories(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.EventPublisher = c.buildPublisher(cfg, logger)

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = cfg.OutboxPollInterval
	processorCfg.BatchSize = cfg.OutboxBatchSize
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)

	c.buildHandlers(cfg, logger)

	return c, nil
}

func (c *Container) buildRepositories(conn database.Connection) {
	switch conn.Driver() {
	case database.DriverSQLite:
		c.UserRepo = identityPersistence.NewSQLiteUserRepository(conn)
		c.TaskRepo = taskPersistence.NewSQLiteTaskRepository(conn)
		c.InviteRepo = invitePersistence.NewSQLiteInviteRepository(conn)
		c.OutboxRepo = outbox.NewSQLiteRepository(conn)
	default:
		c.UserRepo = identityPersistence.NewPostgresUserRepository(conn)
		c.TaskRepo = taskPersistence.NewPostgresTaskRepository(conn)
		c.InviteRepo = invitePersistence.NewPostgresInviteRepository(conn)
		c.OutboxRepo = outbox.NewPostgresRepository(conn)
	}
}

func (c *Container) buildPublisher(cfg *config.Config, logger *slog.Logger) eventbus.Publisher {
	if cfg.RabbitMQURL == "" {
		logger.Info("RabbitMQ not configured, using noop publisher")
		return eventbus.NewNoopPublisher(logger)
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		return eventbus.NewNoopPublisher(logger)
	}
	return publisher
}

func (c *Container) buildHandlers(cfg *config.Config, logger *slog.Logger) {
	c.UserService = identityApplication.NewUserService(c.UserRepo, c.OutboxRepo, c.UnitOfWork)

	c.CreateTaskHandler = taskCommands.NewCreateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.StartTaskHandler = taskCommands.NewStartTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteTaskHandler = taskCommands.NewCompleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.CancelTaskHandler = taskCommands.NewCancelTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.UnassignTaskHandler = taskCommands.NewUnassignTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetTaskHandler = taskQueries.NewGetTaskHandler(c.TaskRepo)
	c.ListMyTasksHandler = taskQueries.NewListMyTasksHandler(c.TaskRepo)

	c.SendInviteHandler = inviteCommands.NewSendInviteHandler(c.InviteRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.RespondInviteHandler = inviteCommands.NewRespondInviteHandler(c.InviteRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListIncomingInvitesHandler = inviteQueries.NewListIncomingInvitesHandler(c.InviteRepo, c.UserRepo, c.TaskRepo)

	c.RankingEngine = matchingApplication.NewRankingEngine(c.buildScorer(cfg, logger), cfg.RankingConcurrency, logger)
	c.RelevantTasksHandler = matchingApplication.NewListRelevantTasksHandler(c.UserRepo, c.TaskRepo, c.RankingEngine)
}

// buildScorer assembles the similarity scorer chain. Without a
// configured similarity service every candidate scores 0 on the
// semantic signal and ranking runs on structural signals alone.
func (c *Container) buildScorer(cfg *config.Config, logger *slog.Logger) scoring.SimilarityScorer {
	if cfg.SimilarityURL == "" {
		logger.Info("similarity service not configured, ranking on structural signals only")
		return scoring.SimilarityScorerFunc(func(context.Context, []string, string, string) (float64, error) {
			return 0, nil
		})
	}

	var scorer scoring.SimilarityScorer = similarity.NewHTTPClient(similarity.ClientConfig{
		BaseURL:          cfg.SimilarityURL,
		Timeout:          cfg.SimilarityTimeout,
		FailureThreshold: uint32(cfg.SimilarityFailureThreshold),
		BreakerTimeout:   cfg.SimilarityBreakerTimeout,
	}, logger)

	if c.RedisClient != nil {
		scorer = similarity.NewCachedScorer(scorer, c.RedisClient, cfg.ScoreCacheTTL, logger)
	}

	return scorer
}

// Close releases all container resources.
func (c *Container) Close() error {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		return c.DBConn.Close()
	}
	return nil
}
