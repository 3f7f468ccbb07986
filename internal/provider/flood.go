package provider

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// FloodClient fetches per-area flood risk from one upstream feed. Three
// feeds are supported, differing only in path and auth scheme.
type FloodClient struct {
	source     string
	url        string
	headers    map[string]string
	configured bool
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewPagasaClient creates the PAGASA flood bulletin client (X-API-Key auth).
func NewPagasaClient(baseURL, apiKey string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *FloodClient {
	return newFloodClient("PAGASA", baseURL, "/floods",
		map[string]string{"X-API-Key": apiKey},
		baseURL != "" && apiKey != "", timeout, clock, logger)
}

// NewNoahClient creates the DOST-NOAH flood-prone area client (bearer auth).
func NewNoahClient(baseURL, apiKey string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *FloodClient {
	return newFloodClient("NOAH", baseURL, "/flood-prone",
		map[string]string{"Authorization": "Bearer " + apiKey},
		baseURL != "" && apiKey != "", timeout, clock, logger)
}

// NewNoaaClient creates the NOAA satellite rainfall client (token header).
func NewNoaaClient(baseURL, apiKey string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *FloodClient {
	return newFloodClient("NOAA", baseURL, "/rainfall/philippines",
		map[string]string{"token": apiKey},
		baseURL != "" && apiKey != "", timeout, clock, logger)
}

func newFloodClient(source, baseURL, path string, headers map[string]string, configured bool, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *FloodClient {
	return &FloodClient{
		source:     source,
		url:        baseURL + path,
		headers:    headers,
		configured: configured,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		logger:     logger,
	}
}

// Source returns the provider tag stamped on every observation.
func (c *FloodClient) Source() string { return c.source }

// Fetch retrieves and normalizes the feed's current area observations.
func (c *FloodClient) Fetch(ctx context.Context) ([]domain.RiskObservation, error) {
	if !c.configured {
		return nil, domain.ErrNotConfigured
	}

	var payload floodResponse
	if err := getJSON(ctx, c.httpClient, c.source, c.url, c.headers, &payload); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	observations := make([]domain.RiskObservation, 0, len(payload.Areas))
	for _, a := range payload.Areas {
		observations = append(observations, c.normalize(a, now))
	}
	return observations, nil
}

// normalize clamps the upstream score and re-derives the tier from it, so a
// feed that disagrees with the shared threshold table cannot leak an
// inconsistent pair downstream.
func (c *FloodClient) normalize(a floodArea, now time.Time) domain.RiskObservation {
	score := math.Min(math.Max(a.RiskScore, 0), 100)
	tier := domain.TierForScore(score)
	if a.Risk != "" && domain.RiskTier(a.Risk) != tier {
		c.logger.Debug("upstream tier disagreed with score, re-derived",
			"source", c.source, "area", a.Name, "upstream_tier", a.Risk, "score", score)
	}

	observedAt := now
	if t, err := time.Parse(time.RFC3339, a.LastUpdated); err == nil {
		observedAt = t
	}

	return domain.RiskObservation{
		AreaName:    a.Name,
		RiskScore:   score,
		RiskTier:    tier,
		Lat:         a.Lat,
		Lng:         a.Lng,
		Population:  a.Population,
		WaterLevelM: a.WaterLevel,
		RainfallMMH: a.Rainfall,
		Weather:     a.Weather,
		Source:      c.source,
		ObservedAt:  observedAt,
	}
}

// Upstream wire types.

type floodResponse struct {
	Areas []floodArea `json:"areas"`
}

type floodArea struct {
	Name        string  `json:"name"`
	Risk        string  `json:"risk"`
	RiskScore   float64 `json:"riskScore"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Population  int     `json:"population"`
	WaterLevel  float64 `json:"waterLevel"`
	Rainfall    float64 `json:"rainfall"`
	Weather     string  `json:"weather"`
	LastUpdated string  `json:"lastUpdated"`
}
