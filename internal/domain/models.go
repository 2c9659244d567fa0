package domain

import (
	"time"
)

// URLMapping represents a shortened URL with its metadata
type URLMapping struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Alias       *string    `json:"alias,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClickCount  int64      `json:"click_count"`
}

// Expired reports whether the mapping's expiration has passed at instant now.
// A mapping without expires_at never expires.
func (m *URLMapping) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}

// AnalyticsEntry represents a single recorded access to a mapping
type AnalyticsEntry struct {
	ID        int64     `json:"id"`
	URLID     int64     `json:"url_id"`
	IPAddress string    `json:"ip_address"`
	ClickedAt time.Time `json:"clicked_at"`
}

// CreateURLRequest represents the request to create a short URL
type CreateURLRequest struct {
	URL       string  `json:"original_url"`
	Alias     *string `json:"alias,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// CreateURLResponse represents the response when creating a short URL
type CreateURLResponse struct {
	ShortURL  string    `json:"short_url"`
	CreatedAt time.Time `json:"created_at"`
}

// URLInfo is the read model for the info operation. ClickCount here is the
// raw store counter, which includes hits on expired mappings.
type URLInfo struct {
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClickCount  int64     `json:"click_count"`
}

// URLAnalytics is the read model for the analytics operation. ClickCount
// here counts analytics entries, i.e. successful non-expired resolutions
// only, and so can lag the URLInfo counter.
type URLAnalytics struct {
	ClickCount int64    `json:"click_count"`
	RecentIPs  []string `json:"recent_ips"`
}
