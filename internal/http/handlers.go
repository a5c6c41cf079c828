package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"

	"where-to-watch-service/internal/domain"
	"where-to-watch-service/internal/logging"
	"where-to-watch-service/internal/upstream"
)

// WatchResolver answers a single "where can I watch this" query.
type WatchResolver interface {
	Resolve(ctx context.Context, q domain.SearchQuery) (domain.WatchResponse, error)
}

// CacheAdmin exposes the bulk invalidation used by the admin endpoint.
type CacheAdmin interface {
	ClearCategory(ctx context.Context, category string) (int, error)
}

// Handler wires HTTP routes to the resolution pipeline.
type Handler struct {
	resolver   WatchResolver
	cacheAdmin CacheAdmin
	logger     *slog.Logger
	adminToken string
}

// NewHandler constructs a Handler. cacheAdmin may be nil when no cache backend
// is configured.
func NewHandler(resolver WatchResolver, cacheAdmin CacheAdmin, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		resolver:   resolver,
		cacheAdmin: cacheAdmin,
		logger:     logger,
		adminToken: adminToken,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness to serve traffic.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"})
}

// Watch resolves streaming availability for the queried title. Negative
// outcomes are 200 responses carrying an error code in the body; only auth
// and unexpected upstream failures map to 5xx.
func (h *Handler) Watch(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		h.writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	q := domain.SearchQuery{
		Title:   strings.TrimSpace(query.Get("title")),
		Year:    strings.TrimSpace(query.Get("year")),
		Country: strings.TrimSpace(query.Get("country")),
	}

	resp, err := h.resolver.Resolve(r.Context(), q)
	if err != nil {
		logger := logging.FromContext(r.Context(), h.logger)
		logging.Error(logger, "resolution failed", err,
			slog.String(logging.FieldTitle, q.Title),
		)
		if upErr, ok := upstream.AsError(err); ok && upErr.Kind != upstream.KindUnavailable {
			h.writeError(w, nethttp.StatusBadGateway, "upstream request failed")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.writeError(w, nethttp.StatusGatewayTimeout, "request timed out")
			return
		}
		h.writeError(w, nethttp.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, nethttp.StatusOK, resp)
}

// ClearCache invalidates every cached entry in the requested category.
// Gated on the configured admin token.
func (h *Handler) ClearCache(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		h.writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.adminToken == "" || r.Header.Get("X-Admin-Token") != h.adminToken {
		h.writeError(w, nethttp.StatusUnauthorized, "unauthorized")
		return
	}
	if h.cacheAdmin == nil {
		h.writeError(w, nethttp.StatusServiceUnavailable, "cache not configured")
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		h.writeError(w, nethttp.StatusBadRequest, "missing category")
		return
	}

	cleared, err := h.cacheAdmin.ClearCategory(r.Context(), category)
	if err != nil {
		logger := logging.FromContext(r.Context(), h.logger)
		logging.Error(logger, "cache clear failed", err,
			slog.String(logging.FieldCategory, category),
		)
		h.writeError(w, nethttp.StatusInternalServerError, "cache clear failed")
		return
	}

	logging.Info(logging.FromContext(r.Context(), h.logger), "cache category cleared",
		slog.String(logging.FieldCategory, category),
		slog.Int(logging.FieldCount, cleared),
	)
	h.writeJSON(w, nethttp.StatusOK, map[string]int{"cleared": cleared})
}

func (h *Handler) writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w nethttp.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
