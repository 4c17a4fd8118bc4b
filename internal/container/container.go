package container

import (
	"context"
	"fmt"

	"impactlog/internal/config"
	"impactlog/internal/repository"
	"impactlog/internal/service"
	"impactlog/pkg/database"
	"impactlog/pkg/logger"
	"impactlog/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	DB          *database.PostgresDB

	RecordStore repository.RecordStore
	AssetStore  repository.AssetStore
	Snapshot    repository.SnapshotStore

	Stats      *service.StatsService
	Sync       *service.SyncService
	Moderation *service.ModerationService
	Report     *service.ReportService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: log,
	}

	// Local cache. The snapshot store degrades to empty without redis, so a
	// connection failure is a warning, not a startup failure.
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without local cache")
		} else {
			c.RedisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without local cache")
	}

	if c.RedisClient != nil {
		c.Snapshot = repository.NewSnapshotStore(c.RedisClient)
	} else {
		c.Snapshot = repository.NewNoopSnapshotStore()
	}

	// Record store: Supabase PostgREST when configured, direct Postgres otherwise
	switch {
	case cfg.SupabaseURL != "":
		c.RecordStore = repository.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseAnonKey, log)
		log.Info("Using Supabase record store")
	case cfg.DatabaseURL != "":
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		c.RecordStore = repository.NewPostgresStore(db)
		log.Info("Using Postgres record store")
	default:
		return nil, fmt.Errorf("no record store configured: set SUPABASE_URL or DATABASE_URL")
	}

	// Asset store is optional; uploads are rejected with a configuration
	// message when it is absent
	if cfg.StorageEndpoint != "" {
		c.AssetStore = repository.NewAssetStore(repository.AssetStoreConfig{
			Endpoint:  cfg.StorageEndpoint,
			Region:    cfg.StorageRegion,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
			PublicURL: cfg.StoragePublicURL,
		}, log)
	}

	c.Stats = service.NewStatsService()
	c.Sync = service.NewSyncService(c.RecordStore, c.Snapshot, cfg.RefreshInterval, log)
	c.Moderation = service.NewModerationService(c.Sync, service.NewPasskeyVerifier(cfg.VerificationPasskey), log)
	c.Report = service.NewReportService(c.Stats, "Community Impact Report", "Scholar Portfolio")

	return c, nil
}

// Close releases every resource the container owns
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis connection")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}
