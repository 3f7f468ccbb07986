package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient fetches current conditions from OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey     string
	location   string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenWeatherClient creates the client for one fixed location query, e.g.
// "Manila,PH". An empty apiKey leaves the client unconfigured.
func NewOpenWeatherClient(apiKey, location string, timeout time.Duration, logger *slog.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		location:   location,
		baseURL:    openWeatherBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *OpenWeatherClient) Source() string { return "OpenWeatherMap" }

// Fetch retrieves and normalizes the current conditions report.
func (c *OpenWeatherClient) Fetch(ctx context.Context) (domain.WeatherReport, error) {
	if c.apiKey == "" {
		return domain.WeatherReport{}, domain.ErrNotConfigured
	}

	params := url.Values{
		"q":     {c.location},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var payload openWeatherResponse
	if err := getJSON(ctx, c.httpClient, c.Source(), c.baseURL+"?"+params.Encode(), nil, &payload); err != nil {
		return domain.WeatherReport{}, err
	}

	report := domain.WeatherReport{
		Location:    payload.Name,
		TempC:       payload.Main.Temp,
		FeelsLikeC:  payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		PressureHPa: payload.Main.Pressure,
		WindSpeedMS: payload.Wind.Speed,
		WindDeg:     payload.Wind.Deg,
		CloudCover:  payload.Clouds.All,
		VisibilityM: payload.Visibility,
		Lat:         payload.Coord.Lat,
		Lng:         payload.Coord.Lon,
	}
	if len(payload.Weather) > 0 {
		report.Condition = payload.Weather[0].Main
		report.Description = payload.Weather[0].Description
	}
	return report, nil
}

// OpenWeatherMap wire types (subset of the current-weather response).

type openWeatherResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Name string `json:"name"`
}
