// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/meshint/postcraft/internal/httputil"
	"github.com/meshint/postcraft/pkg/types"
)

// Timeframes accepted by Interest.
const (
	TimeframeWeek  = "now 7-d"
	TimeframeMonth = "today 1-m"
)

// Provider returns interest-over-time series for a batch of keywords.
// Implementations may be remote APIs or test fakes.
type Provider interface {
	// Interest returns one series per keyword. Keywords absent from the
	// result are treated as zero interest.
	Interest(ctx context.Context, keywords []string, timeframe, geo string) (map[string][]float64, error)
}

// HTTPProvider queries a Google-Trends-style interest API over HTTP.
type HTTPProvider struct {
	Client *http.Client
	Cfg    types.TrendConfig
}

// NewHTTPProvider returns a provider for cfg.Endpoint, or nil when no
// endpoint is configured.
func NewHTTPProvider(cfg types.TrendConfig) *HTTPProvider {
	if cfg.Endpoint == "" {
		return nil
	}
	return &HTTPProvider{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
	}
}

// Interest fetches interest series for keywords. Rate-limited responses are
// retried with backoff before giving up.
func (p *HTTPProvider) Interest(ctx context.Context, keywords []string, timeframe, geo string) (map[string][]float64, error) {
	q := url.Values{}
	q.Set("keywords", strings.Join(keywords, ","))
	q.Set("timeframe", timeframe)
	q.Set("geo", geo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building interest request: %w", err)
	}
	req.Header.Set("User-Agent", p.Cfg.UserAgent)
	if p.Cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.Cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("interest request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("interest API returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Series map[string][]float64 `json:"series"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding interest response: %w", err)
	}
	return payload.Series, nil
}
