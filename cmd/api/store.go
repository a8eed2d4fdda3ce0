package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/snipurl/snipurl/internal/config"
	"github.com/snipurl/snipurl/internal/docstore"
	"github.com/snipurl/snipurl/internal/repository"
	"github.com/snipurl/snipurl/internal/storage"
)

// openStore connects to the backend DATABASE_URL selects.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, storage.Backend, error) {
	backend, err := storage.BackendFor(cfg.DatabaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("select store: %s", sanitizeError(err, cfg.DatabaseURL))
	}

	var store storage.Store
	switch backend {
	case storage.BackendMongo:
		store, err = docstore.New(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	case storage.BackendPostgres:
		store, err = repository.New(ctx, cfg.DatabaseURL)
	}
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("backend", string(backend)),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return nil, "", fmt.Errorf("connect %s store: %s", backend, sanitizeError(err, cfg.DatabaseURL))
	}

	logger.Info("connected to database",
		slog.String("backend", string(backend)),
		slog.String("database_url", redactURL(cfg.DatabaseURL)),
	)

	return store, backend, nil
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
