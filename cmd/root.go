package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"shortly/internal/cache"
	"shortly/internal/config"
	"shortly/internal/database"
	"shortly/internal/repository"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shortly",
	Short: "A small link shortener",
	Long: `shortly maps short slugs to long URLs and counts every redirect.

Run "shortly serve" for the HTTP service, or "shortly import" and
"shortly export" to move link history in and out of the store.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if dsn, _ := cmd.Flags().GetString("database-url"); dsn != "" {
			cfg.DatabaseURL = dsn
		}

		// logs go to stderr so export output on stdout stays clean
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// store is an opened link repository plus whatever must be closed with it
type store struct {
	repo   repository.LinkRepository
	closer func()
}

// openStore connects to Postgres (migrating it) or falls back to memory,
// then layers the Redis cache on top when one is reachable
func openStore(ctx context.Context) (*store, error) {
	var repo repository.LinkRepository
	var closers []func()

	if cfg.DatabaseURL == "" {
		slog.WarnContext(ctx, "DATABASE_URL is not set, links are kept in memory only")
		repo = repository.NewMemoryLinkRepository()
	} else {
		db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		repo = repository.NewLinkRepository(db)
	}

	// Redis is optional - continue if it is unavailable
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			slog.WarnContext(ctx, "failed to connect to Redis, continuing without cache", "error", err)
		} else {
			slog.InfoContext(ctx, "connected to Redis cache")
			cacheClient = c
			closers = append(closers, func() { c.Close() })
		}
	}

	return &store{
		repo: repository.NewCachedLinkRepository(repo, cacheClient),
		closer: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func (s *store) Close() {
	s.closer()
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd, importCmd, exportCmd)
}
