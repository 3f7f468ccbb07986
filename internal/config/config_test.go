package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, 120*time.Second, cfg.Schedule.Flood)
	assert.Equal(t, 300*time.Second, cfg.Schedule.Weather)
	assert.Equal(t, 60*time.Second, cfg.Schedule.Traffic)
	assert.Equal(t, 180*time.Second, cfg.Schedule.Transit)

	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "Manila,PH", cfg.Providers.OpenWeatherLocation)
	assert.Equal(t, "metro-manila", cfg.Providers.TrafficRegion)
	assert.Equal(t, "manila", cfg.Providers.TransitCity)
	assert.False(t, cfg.Providers.Pagasa.Configured())

	assert.Empty(t, cfg.Alerts.KafkaBrokers)
	assert.Equal(t, "hazard-alerts", cfg.Alerts.KafkaTopic)
	assert.Empty(t, cfg.Alerts.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Alerts.WebhookTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HAZARD_HTTP__ADDR", ":9090")
	t.Setenv("HAZARD_LOG__LEVEL", "debug")
	t.Setenv("HAZARD_LOG__FORMAT", "text")
	t.Setenv("HAZARD_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("HAZARD_SCHEDULE__FLOOD", "45s")
	t.Setenv("HAZARD_PROVIDERS__PAGASA__BASE_URL", "https://api.pagasa.example")
	t.Setenv("HAZARD_PROVIDERS__PAGASA__API_KEY", "pagasa-key")
	t.Setenv("HAZARD_PROVIDERS__OPENWEATHER__API_KEY", "ow-key")
	t.Setenv("HAZARD_ALERTS__KAFKA__BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("HAZARD_ALERTS__WEBHOOK__URL", "https://hooks.example/alerts")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 45*time.Second, cfg.Schedule.Flood)
	assert.Equal(t, 300*time.Second, cfg.Schedule.Weather)

	assert.True(t, cfg.Providers.Pagasa.Configured())
	assert.Equal(t, "https://api.pagasa.example", cfg.Providers.Pagasa.BaseURL)
	assert.Equal(t, "ow-key", cfg.Providers.OpenWeatherAPIKey)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Alerts.KafkaBrokers)
	assert.Equal(t, "https://hooks.example/alerts", cfg.Alerts.WebhookURL)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7070"
schedule:
  traffic: 15s
providers:
  noah:
    base_url: https://noah.example
    api_key: noah-key
alerts:
  kafka:
    brokers: localhost:9092
    topic: flood-alerts
  recipients:
    - name: Duty Officer
      phone: "+63-900-000-0000"
    - name: Ops Room
      email: ops@example.ph
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.Schedule.Traffic)
	assert.True(t, cfg.Providers.Noah.Configured())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Alerts.KafkaBrokers)
	assert.Equal(t, "flood-alerts", cfg.Alerts.KafkaTopic)
	require.Len(t, cfg.Alerts.Recipients, 2)
	assert.Equal(t, "Duty Officer", cfg.Alerts.Recipients[0].Name)
	assert.Equal(t, "ops@example.ph", cfg.Alerts.Recipients[1].Email)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":7070\"\n"), 0o600))

	t.Setenv("HAZARD_HTTP__ADDR", ":6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "HAZARD_SHUTDOWN_TIMEOUT", "soon"},
		{"negative interval", "HAZARD_SCHEDULE__FLOOD", "-10s"},
		{"zero interval", "HAZARD_PROVIDERS__TIMEOUT", "0s"},
		{"bad log level", "HAZARD_LOG__LEVEL", "verbose"},
		{"bad log format", "HAZARD_LOG__FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaBrokersRequireTopic(t *testing.T) {
	t.Setenv("HAZARD_ALERTS__KAFKA__BROKERS", "localhost:9092")
	t.Setenv("HAZARD_ALERTS__KAFKA__TOPIC", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_UnsupportedFileExtension(t *testing.T) {
	_, err := Load("config.toml")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
