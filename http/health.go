package http

import (
	"context"
	"net/http"
	"time"

	"github.com/pagelens/pagelens"
)

// DefaultHealthTimeout bounds a single health probe.
const DefaultHealthTimeout = 3 * time.Second

// Ensure HealthChecker implements pagelens.HealthChecker at compile time.
var _ pagelens.HealthChecker = (*HealthChecker)(nil)

// HealthChecker probes the answering service's health endpoint. Any
// failure counts as unhealthy; the result only drives the connection
// indicator.
type HealthChecker struct {
	client *http.Client
	url    string
}

// NewHealthChecker creates a HealthChecker probing the given URL.
func NewHealthChecker(url string) *HealthChecker {
	return &HealthChecker{
		client: &http.Client{Timeout: DefaultHealthTimeout},
		url:    url,
	}
}

// Healthy reports whether the service answered the probe with a 2xx.
func (h *HealthChecker) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
