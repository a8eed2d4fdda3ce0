package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/handler/dto"
	"github.com/snipurl/snipurl/internal/middleware"
	"github.com/snipurl/snipurl/internal/service"
)

// ShortenerHandler handles the owner-facing short URL endpoints.
// Every route is behind the bearer auth middleware.
type ShortenerHandler struct {
	svc    *service.ShortenerService
	logger *slog.Logger
}

// NewShortenerHandler creates a new ShortenerHandler.
func NewShortenerHandler(svc *service.ShortenerService, logger *slog.Logger) *ShortenerHandler {
	return &ShortenerHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /v1/shortener/.
func (h *ShortenerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.CreateShortURLsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.CreateURLs(r.Context(), req.TargetURLs, user)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("short_urls_created",
		"user_id", user.ID,
		"submitted", len(req.TargetURLs),
		"created", len(result.Created),
		"rejected", len(result.Rejected),
	)

	writeJSON(w, http.StatusCreated, dto.CreateShortURLsResponse{
		Created:     dto.ToShortURLResponses(result.Created, h.svc.ShortURL),
		InvalidURLs: result.Rejected,
	})
}

// List handles GET /v1/shortener/my-urls.
func (h *ShortenerHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	urls, err := h.svc.ListURLs(r.Context(), user)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToShortURLResponses(urls, h.svc.ShortURL))
}

// SetActive handles PATCH /v1/shortener/{secret_key}/active.
func (h *ShortenerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	secretKey := chi.URLParam(r, "secret_key")
	if err := middleware.ValidateKeyParam(secretKey); err != nil {
		handleServiceError(w, h.logger, service.ErrNotFoundOrForbidden)
		return
	}

	var req dto.SetActiveRequest
	if err := decodeJSON(r, &req); err != nil || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be {\"is_active\": bool}")
		return
	}

	updated, err := h.svc.SetActive(r.Context(), secretKey, user, *req.IsActive)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("short_url_status_changed",
		"user_id", user.ID,
		"short_url_id", updated.ID,
		"is_active", updated.IsActive,
	)

	writeJSON(w, http.StatusOK, dto.SetActiveResponse{
		SecretKey: updated.SecretKey,
		IsActive:  updated.IsActive,
	})
}
