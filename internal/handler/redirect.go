package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snipurl/snipurl/internal/middleware"
	"github.com/snipurl/snipurl/internal/service"
)

// RedirectHandler handles public redirect requests.
type RedirectHandler struct {
	svc    *service.ShortenerService
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.ShortenerService, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Redirect handles GET /{key}. Only the public key resolves; a secret key
// never does.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := middleware.ValidateKeyParam(key); err != nil {
		writeError(w, http.StatusNotFound, "URL_NOT_FOUND", "URL not found")
		return
	}

	start := time.Now()
	u, err := h.svc.Resolve(r.Context(), key)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, service.ErrNotFoundOrInactive) {
			h.logger.Info("redirect_not_found",
				"key", key,
				"duration_ms", float64(duration.Microseconds())/1000,
			)
		}
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("redirect_success",
		"key", key,
		"clicks", u.Clicks,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	http.Redirect(w, r, u.TargetURL, http.StatusMovedPermanently)
}
