package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameyer/url-shortener/internal/domain"
)

func TestClient_CreateURL(t *testing.T) {
	createdAt := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/urls", r.URL.Path)

		var req domain.CreateURLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com", req.URL)
		require.NotNil(t, req.Alias)
		assert.Equal(t, "demo", *req.Alias)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.CreateURLResponse{
			ShortURL:  "http://sho.rt/demo",
			CreatedAt: createdAt,
		})
	}))
	defer server.Close()

	alias := "demo"
	result, err := NewClient(server.URL).CreateURL(context.Background(), "https://example.com", &alias, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://sho.rt/demo", result.ShortURL)
	assert.Equal(t, createdAt, result.CreatedAt)
}

func TestClient_CreateURL_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "alias \"demo\" already exists"})
	}))
	defer server.Close()

	alias := "demo"
	_, err := NewClient(server.URL).CreateURL(context.Background(), "https://example.com", &alias, nil)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestClient_GetURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/urls/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.URLInfo{
			OriginalURL: "https://example.com",
			CreatedAt:   time.Now().UTC(),
			ClickCount:  3,
		})
	}))
	defer server.Close()

	info, err := NewClient(server.URL).GetURL(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", info.OriginalURL)
	assert.Equal(t, int64(3), info.ClickCount)
}

func TestClient_GetURL_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "short code not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetURL(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestClient_BadRequestOutsideCreateIsNotConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "malformed request"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetURL(context.Background(), "abc123")
	require.Error(t, err)
	assert.False(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "malformed request")
}

func TestClient_DeleteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/urls/abc123", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewClient(server.URL).DeleteURL(context.Background(), "abc123")
	assert.NoError(t, err)
}

func TestClient_GetAnalytics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/urls/abc123/analytics", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.URLAnalytics{
			ClickCount: 2,
			RecentIPs:  []string{"2.2.2.2", "1.1.1.1"},
		})
	}))
	defer server.Close()

	analytics, err := NewClient(server.URL).GetAnalytics(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.ClickCount)
	assert.Equal(t, []string{"2.2.2.2", "1.1.1.1"}, analytics.RecentIPs)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "something went wrong, try again later"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetURL(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
