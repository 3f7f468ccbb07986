package provider

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// TransitClient fetches rail and bus operational status for one city.
type TransitClient struct {
	apiKey     string
	url        string
	configured bool
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTransitClient creates the transit feed client for one city slug.
func NewTransitClient(baseURL, apiKey, city string, timeout time.Duration, logger *slog.Logger) *TransitClient {
	return &TransitClient{
		apiKey:     apiKey,
		url:        baseURL + "/transport/" + city,
		configured: baseURL != "" && apiKey != "",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *TransitClient) Source() string { return "TransitFeed" }

// Fetch retrieves the current transit status.
func (c *TransitClient) Fetch(ctx context.Context) (domain.TransitStatus, error) {
	if !c.configured {
		return domain.TransitStatus{}, domain.ErrNotConfigured
	}

	var payload transitResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := getJSON(ctx, c.httpClient, c.Source(), c.url, headers, &payload); err != nil {
		return domain.TransitStatus{}, err
	}
	return payload.Transport, nil
}

type transitResponse struct {
	Transport domain.TransitStatus `json:"transport"`
}
