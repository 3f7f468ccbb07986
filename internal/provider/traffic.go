package provider

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// TrafficClient fetches highway statuses from the regional traffic feed.
type TrafficClient struct {
	apiKey     string
	url        string
	configured bool
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTrafficClient creates the traffic feed client for one region slug.
func NewTrafficClient(baseURL, apiKey, region string, timeout time.Duration, logger *slog.Logger) *TrafficClient {
	return &TrafficClient{
		apiKey:     apiKey,
		url:        baseURL + "/traffic/" + region,
		configured: baseURL != "" && apiKey != "",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *TrafficClient) Source() string { return "TrafficFeed" }

// Fetch retrieves the current highway statuses.
func (c *TrafficClient) Fetch(ctx context.Context) ([]domain.HighwayStatus, error) {
	if !c.configured {
		return nil, domain.ErrNotConfigured
	}

	var payload trafficResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := getJSON(ctx, c.httpClient, c.Source(), c.url, headers, &payload); err != nil {
		return nil, err
	}
	return payload.Highways, nil
}

type trafficResponse struct {
	Highways []domain.HighwayStatus `json:"highways"`
}
