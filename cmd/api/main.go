package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"petsitter/internal/app"
	"petsitter/internal/config"
	"petsitter/internal/database"
	"petsitter/internal/pkg/cache"
	"petsitter/internal/pkg/logger"
	"petsitter/internal/sideeffect"
)

var deps app.Deps

func main() {
	rootCmd := &cobra.Command{
		Use:   "petsitter",
		Short: "Pet sitter discovery and booking service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initDeps()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if deps.Log != nil {
				_ = deps.Log.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initDeps() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if cfg.RedisAddr != "" && rdb == nil {
		log.Warn("redis unreachable, discovery cache disabled", zap.String("addr", cfg.RedisAddr))
	}

	deps = app.Deps{Config: cfg, Log: log, DB: db, Redis: rdb}
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(deps.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			services := app.NewServices(deps)
			defer func() { _ = services.Close() }()

			router := app.NewRouter(deps, services, app.NewJWT(deps.Config))
			srv := &http.Server{
				Addr:              ":" + deps.Config.HTTPPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				deps.Log.Info("http server listening",
					zap.String("addr", srv.Addr),
					zap.String("side_effect_mode", deps.Config.SideEffectMode),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			deps.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(deps.DB); err != nil {
				return err
			}
			deps.Log.Info("migrations applied")
			return nil
		},
	}
}

func workerCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process queued chat, notification and event side effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Config.RedisAddr == "" {
				return errors.New("worker requires REDIS_ADDR")
			}
			services := app.NewServices(deps)
			defer func() { _ = services.Close() }()

			deps.Log.Info("side effect worker starting",
				zap.String("queue", sideeffect.QueueName),
				zap.Int("concurrency", concurrency),
			)
			return sideeffect.NewWorker(app.RedisOpt(deps.Config), services.Runner, concurrency, deps.Log.Named("worker")).Run()
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "number of concurrent side effect handlers")
	return cmd
}

func cleanupCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete read notifications older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			services := app.NewServices(deps)
			defer func() { _ = services.Close() }()

			n, err := services.Notifications.PruneRead(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			deps.Log.Info("notification cleanup completed", zap.Int64("deleted", n))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "retention window for read notifications")
	return cmd
}
