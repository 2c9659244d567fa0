package http

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/service"
)

// Handler holds the HTTP handlers for the URL shortener
type Handler struct {
	shortener service.URLShortener
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(shortener service.URLShortener, logger *zap.Logger) *Handler {
	return &Handler{
		shortener: shortener,
		logger:    logger,
	}
}

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// CreateURL handles POST /api/urls
func (h *Handler) CreateURL(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid JSON body")
		return
	}

	if msg, ok := validateCreateRequest(&req); !ok {
		h.badRequest(w, msg)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			h.badRequest(w, "expires_at must be an RFC 3339 timestamp")
			return
		}
		if t.Before(time.Now()) {
			h.badRequest(w, "expires_at must be in the future")
			return
		}
		expiresAt = &t
	}

	result, err := h.shortener.CreateShortURL(r.Context(), req.URL, req.Alias, expiresAt)
	if err != nil {
		h.writeError(w, "create", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

// GetURL handles GET /api/urls/{code}
func (h *Handler) GetURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	info, err := h.shortener.GetURLInfo(r.Context(), code)
	if err != nil {
		h.writeError(w, "info", err)
		return
	}

	h.writeJSON(w, http.StatusOK, info)
}

// DeleteURL handles DELETE /api/urls/{code}
func (h *Handler) DeleteURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.shortener.DeleteShortURL(r.Context(), code); err != nil {
		h.writeError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAnalytics handles GET /api/urls/{code}/analytics
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	analytics, err := h.shortener.GetAnalytics(r.Context(), code)
	if err != nil {
		h.writeError(w, "analytics", err)
		return
	}

	h.writeJSON(w, http.StatusOK, analytics)
}

// Redirect handles GET /{code} - redirects to the original URL
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	originalURL, err := h.shortener.ResolveURL(r.Context(), code, clientIP(r))
	if err != nil {
		h.writeError(w, "resolve", err)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// validateCreateRequest performs the transport-level input checks. The core
// assumes a syntactically valid URL and a 1-20 character alias.
func validateCreateRequest(req *domain.CreateURLRequest) (string, bool) {
	if req.URL == "" {
		return "original_url is required", false
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "original_url must be a valid http(s) URL", false
	}

	if req.Alias != nil && *req.Alias != "" {
		if len(*req.Alias) > 20 {
			return "alias must be at most 20 characters", false
		}
	}

	return "", true
}

// clientIP extracts the originating client address, preferring
// X-Forwarded-For when a proxy sits in front of the server.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeError maps a service error kind to its status code and writes the
// JSON error body.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsGone(err):
		status = http.StatusGone
	case domain.IsConflict(err):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("operation", op),
			zap.Error(err))
		h.writeJSON(w, status, errorResponse{Error: "something went wrong, try again later"})
		return
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
