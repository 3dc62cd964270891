package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gatherhub/server/internal/api"
	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/config"
	"github.com/gatherhub/server/internal/domain/categories"
	"github.com/gatherhub/server/internal/domain/compilations"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/requests"
	"github.com/gatherhub/server/internal/domain/users"
	"github.com/gatherhub/server/internal/metrics"
	"github.com/gatherhub/server/internal/stats"
	"github.com/gatherhub/server/internal/storage/postgres"
	"github.com/gatherhub/server/internal/telemetry"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GatherHub HTTP server",
	Long: `Start the GatherHub HTTP server and begin accepting API requests.

The server loads configuration from environment variables, bootstraps the
admin account if ADMIN_USERNAME/ADMIN_PASSWORD are set, and shuts down
gracefully on SIGINT/SIGTERM.

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9080

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting GatherHub server")

	metrics.Init("gatherhub-server", Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(poolCtx, cfg.Database.URL)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := auth.Bootstrap(bootstrapCtx, repo.Admins(), cfg.AdminBootstrap.Username, cfg.AdminBootstrap.Password); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootstrapCancel()

	deps := buildServices(cfg, repo, pool, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, deps, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return runUntilSignal(server, logger)
}

// runUntilSignal serves until SIGINT/SIGTERM, then drains in-flight
// requests before returning.
func runUntilSignal(server *http.Server, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func buildServices(cfg config.Config, repo *postgres.Repository, pool *pgxpool.Pool, logger zerolog.Logger) api.Deps {
	clk := clock.NewSystem()

	var statsClient stats.Client = stats.Noop{}
	if cfg.Stats.URL != "" {
		statsClient = stats.NewHTTPClient(cfg.Stats.URL, nil)
	}

	eventService := events.NewService(
		repo.Events(), repo, repo.Categories(), repo.Locations(), repo.Users(),
		statsClient, clk, logger, cfg.Stats.AppName,
	)
	requestService := requests.NewService(
		repo.Requests(), repo.Events(), repo.Users(), repo, clk, logger,
	)
	categoryService := categories.NewService(repo.Categories(), logger)
	userService := users.NewService(repo.Users(), logger)
	compilationService := compilations.NewService(
		repo.Compilations(), repo.Events(), eventService.LoadViews, logger,
	)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, "gatherhub")
	adminLogin := auth.NewAdminLogin(repo.Admins(), tokens)

	return api.Deps{
		Events:       eventService,
		Requests:     requestService,
		Categories:   categoryService,
		Users:        userService,
		Compilations: compilationService,
		AdminLogin:   adminLogin,
		Tokens:       tokens,
		Pool:         pool,
		Version:      Version,
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
