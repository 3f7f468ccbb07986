// Package provider implements the upstream adapters for each hazard signal.
//
// Every client owns its per-call timeout through its http.Client and maps
// failures to the shared taxonomy: [domain.ErrNotConfigured] when credentials
// or endpoint are absent, [*domain.UpstreamError] for network failures,
// non-2xx responses, and malformed payloads. Clients never retry; retry
// cadence belongs to the scheduler, and fallback substitution belongs to the
// aggregator.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

const maxErrorBody = 512

// getJSON performs an authenticated GET and decodes the JSON response into
// out. Any failure is returned as an upstream error attributed to source.
func getJSON(ctx context.Context, client *http.Client, source, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewUpstreamError(source, fmt.Errorf("create request: %w", err))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return domain.NewUpstreamError(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewUpstreamError(source, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewUpstreamError(source, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
