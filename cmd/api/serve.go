package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/config"
	"github.com/snipurl/snipurl/internal/metrics"
	"github.com/snipurl/snipurl/internal/server"
	"github.com/snipurl/snipurl/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply the store schema and start the HTTP server",
		Long: `Start the snipurl HTTP server.

The store is selected by the DATABASE_URL scheme (mongodb:// or postgres://).
Indexes or tables are created before the listener starts.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := initLogger(cfg)

	store, backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close(ctx)
		return fmt.Errorf("migrate %s store: %w", backend, err)
	}

	hasher, err := auth.NewHasher(cfg.PasswordHash)
	if err != nil {
		_ = store.Close(ctx)
		return err
	}
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenExpiry)

	// Initialize services
	recorder := metrics.NewInMemory()
	authService := service.NewAuthService(store, hasher, tokens, cfg.TokenExpiry, recorder, logger)
	shortenerService := service.NewShortenerService(store, cfg.BaseURL, cfg.MaxURLsPerRequest, recorder, logger)

	r := server.NewRouter(server.RouterConfig{
		Logger:             logger,
		Auth:               authService,
		Shortener:          shortenerService,
		StoreName:          string(backend),
		Store:              store,
		Metrics:            recorder,
		FrontendOrigins:    cfg.FrontendOrigins(),
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(
		r,
		cfg.Addr(),
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown(string(backend), store.Close)

	logger.Info("starting server",
		slog.String("addr", cfg.Addr()),
		slog.String("base_url", cfg.BaseURL),
		slog.String("env", cfg.AppEnv),
		slog.String("password_hash", cfg.PasswordHash),
	)

	return srv.Run(ctx)
}
