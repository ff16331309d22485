package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/couchcryptid/warehouse-capacity-map/internal/observability"
)

const summaryPath = "api/storage/getStorageSummary"

// Client implements domain.SummarySource against the storage summary API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a storage summary client. baseURL is the API host, with
// or without a trailing slash.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchSummaries returns the region summaries for a scope. The country map
// is requested with the country code, a state map with the state code.
func (c *Client) FetchSummaries(ctx context.Context, scope domain.Scope) ([]domain.RegionSummary, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, summaryPath, url.Values{"stateCode": {scope.Code()}}.Encode())

	start := time.Now()
	records, err := c.doRequest(ctx, u)
	c.metrics.SummaryAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.SummaryRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.SummaryRequests.WithLabelValues("success").Inc()

	c.logger.Debug("fetched storage summary", "scope", scope.String(), "regions", len(records))
	return records, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.RegionSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage summary API error: status %d: %s", resp.StatusCode, body)
	}

	var records []domain.RegionSummary
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return records, nil
}
