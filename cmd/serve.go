package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api"
	"github.com/killallgit/fortune-api/api/types"
	apiversion "github.com/killallgit/fortune-api/api/version"
	"github.com/killallgit/fortune-api/internal/database"
	"github.com/killallgit/fortune-api/internal/models"
	"github.com/killallgit/fortune-api/internal/services/cache"
	"github.com/killallgit/fortune-api/internal/services/fortunes"
	"github.com/killallgit/fortune-api/pkg/config"
	"github.com/spf13/cobra"
)

// newServeCmd builds the serve command
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the Fortune API server with the configured settings.

The server opens the configured store, applies the schema, seeds the
default fortunes into an empty store and serves HTTP until interrupted.

Example:
  fortune-api serve
  fortune-api serve --port 9090
  fortune-api serve --host 0.0.0.0 --port 8080`,
		RunE: runServer,
	}

	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	return serveCmd
}

// fortuneStore bundles the repository with its health check and cleanup
type fortuneStore struct {
	repo   fortunes.Repository
	health fortunes.HealthChecker
	close  func() error
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Use config values if flags not provided
	serverHost, _ := cmd.Flags().GetString("host")
	serverPort, _ := cmd.Flags().GetInt("port")
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	apiversion.Version, apiversion.GitCommit = Version, GitCommit

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Warn("closing fortune store", slog.Any("error", err))
		}
	}()

	if cfg.Database.Seed {
		if _, err := fortunes.Seed(ctx, store.repo, fortunes.DefaultFortunes, logger); err != nil {
			return err
		}
	}

	deps := &types.Dependencies{
		Fortunes: store.repo,
		Store:    store.health,
		Logger:   logger,
	}

	if cfg.Cache.Enabled {
		if deps.Cache, err = newResponseCache(ctx, cfg, logger); err != nil {
			return err
		}
	}

	server := api.NewServer(cfg, deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	logger.Info("fortune api started",
		slog.String("addr", server.Addr()),
		slog.String("driver", cfg.Database.Driver),
		slog.String("version", Version),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case runErr = <-serverErr:
		logger.Error("server stopped unexpectedly", slog.Any("error", runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
		return err
	}

	logger.Info("server gracefully stopped")
	return runErr
}

// openStore connects the repository selected by database.driver and prepares its schema
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*fortuneStore, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := migrateUp(cfg, nil); err != nil {
				return nil, err
			}
		}

		repo, err := fortunes.NewPostgresRepository(ctx, cfg.Database.URL, fortunes.PostgresOptions{
			MaxConns:        int32(cfg.Database.MaxConnections),
			MaxConnLifetime: cfg.Database.ConnectionMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres")
		return &fortuneStore{
			repo:   repo,
			health: repo,
			close:  func() error { repo.Close(); return nil },
		}, nil

	default:
		db, err := database.Open(cfg.Database.Path, cfg.Database.Verbose, database.PoolSettings{
			MaxOpenConns:    cfg.Database.MaxConnections,
			MaxIdleConns:    cfg.Database.MaxIdleConnections,
			ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
		})
		if err != nil {
			return nil, err
		}

		if cfg.Database.AutoMigrate {
			if err := db.AutoMigrate(&models.Fortune{}); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info("opened sqlite store", slog.String("path", cfg.Database.Path))
		return &fortuneStore{
			repo:   fortunes.NewRepository(db.DB),
			health: db,
			close:  db.Close,
		}, nil
	}
}

// newResponseCache builds the cache backend selected by cache.backend
func newResponseCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:        cfg.Cache.Redis.URL,
			ClientName: cfg.Cache.Redis.ClientName,
			KeyPrefix:  cfg.Cache.Redis.KeyPrefix,
		}, logger)
	default:
		logger.Info("using in-memory response cache", slog.Int64("max_size_mb", cfg.Cache.Memory.MaxSizeMB))
		return cache.NewMemoryCache(cfg.Cache.Memory.MaxSizeMB, time.Minute), nil
	}
}
