package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

const openWeatherBody = `{
	"coord":{"lon":120.9842,"lat":14.5995},
	"weather":[{"main":"Rain","description":"moderate rain"}],
	"main":{"temp":27.4,"feels_like":31.2,"pressure":1008,"humidity":88},
	"visibility":4200,
	"wind":{"speed":5.1,"deg":240},
	"clouds":{"all":90},
	"name":"Manila"
}`

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testWeatherClient(t *testing.T, handler http.HandlerFunc) *OpenWeatherClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenWeatherClient("ow-key", "Manila,PH", time.Second, testLogger())
	c.baseURL = srv.URL
	return c
}

func TestOpenWeatherClient_Fetch(t *testing.T) {
	var gotQuery string
	c := testWeatherClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(openWeatherBody))
	})

	report, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "q=Manila%2CPH")
	assert.Contains(t, gotQuery, "units=metric")
	assert.Equal(t, "Manila", report.Location)
	assert.Equal(t, "Rain", report.Condition)
	assert.Equal(t, "moderate rain", report.Description)
	assert.Equal(t, 27.4, report.TempC)
	assert.Equal(t, 88, report.Humidity)
	assert.Equal(t, 4200, report.VisibilityM)
	assert.Equal(t, 14.5995, report.Lat)
}

func TestOpenWeatherClient_NotConfigured(t *testing.T) {
	c := NewOpenWeatherClient("", "Manila,PH", time.Second, testLogger())
	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestOpenWeatherClient_Non2xx(t *testing.T) {
	c := testWeatherClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	})

	_, err := c.Fetch(context.Background())
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Error(), "401")
}

func TestTrafficClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/traffic/philippines", r.URL.Path)
		assert.Equal(t, "Bearer tk", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"highways":[
			{"id":"nlex","name":"NLEX","fullName":"North Luzon Expressway",
			 "status":"passable","traffic":"moderate","weather":"clear",
			 "exits":[{"name":"Balintawak","status":"passable","traffic":"heavy"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewTrafficClient(srv.URL, "tk", "philippines", time.Second, testLogger())
	highways, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, highways, 1)
	assert.Equal(t, "nlex", highways[0].ID)
	assert.Equal(t, "moderate", highways[0].Traffic)
	require.Len(t, highways[0].Exits, 1)
	assert.Equal(t, "heavy", highways[0].Exits[0].Traffic)
}

func TestTrafficClient_NotConfigured(t *testing.T) {
	c := NewTrafficClient("", "", "philippines", time.Second, testLogger())
	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestTransitClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transport/manila", r.URL.Path)
		_, _ = w.Write([]byte(`{"transport":{
			"rail":[{"line":"MRT Line 3","status":"operational","delay":"10-15 mins"}],
			"buses":[{"route":"EDSA Carousel","status":"operational","congestion":"heavy"}]
		}}`))
	}))
	defer srv.Close()

	c := NewTransitClient(srv.URL, "tk", "manila", time.Second, testLogger())
	status, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, status.Rail, 1)
	assert.Equal(t, "MRT Line 3", status.Rail[0].Line)
	require.Len(t, status.Buses, 1)
	assert.Equal(t, "heavy", status.Buses[0].Congestion)
}

func TestTransitClient_NotConfigured(t *testing.T) {
	c := NewTransitClient("http://example.invalid", "", "manila", time.Second, testLogger())
	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
