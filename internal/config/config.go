// Package config loads service settings from an optional YAML or JSON file
// with environment variable overrides.
//
// Environment keys use the HAZARD_ prefix and a double underscore as the
// nesting separator: HAZARD_PROVIDERS__PAGASA__API_KEY sets
// providers.pagasa.api_key.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "HAZARD_"

// Recipient is a default alert notification target.
type Recipient struct {
	Name  string `koanf:"name"`
	Phone string `koanf:"phone"`
	Email string `koanf:"email"`
}

// APIConfig holds credentials for one upstream data source. A source with an
// empty BaseURL or APIKey is treated as unconfigured and served from
// synthetic fallback data.
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// ProvidersConfig groups all upstream source settings.
type ProvidersConfig struct {
	Timeout time.Duration

	OpenWeatherAPIKey   string
	OpenWeatherLocation string

	Pagasa APIConfig
	Noah   APIConfig
	Noaa   APIConfig

	Traffic       APIConfig
	TrafficRegion string

	Transit     APIConfig
	TransitCity string
}

// ScheduleConfig holds per-category refresh intervals.
type ScheduleConfig struct {
	Flood   time.Duration
	Weather time.Duration
	Traffic time.Duration
	Transit time.Duration
}

// AlertsConfig holds alert channel settings. Empty broker list and webhook
// URL leave those channels unconfigured.
type AlertsConfig struct {
	KafkaBrokers   []string
	KafkaTopic     string
	WebhookURL     string
	WebhookTimeout time.Duration
	Recipients     []Recipient
}

// Config holds all service settings.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Schedule  ScheduleConfig
	Providers ProvidersConfig
	Alerts    AlertsConfig
}

// rawConfig mirrors the file/env layout with durations as strings so parse
// failures surface as config errors rather than silent zeros.
type rawConfig struct {
	HTTP struct {
		Addr string `koanf:"addr"`
	} `koanf:"http"`
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`

	Schedule struct {
		Flood   string `koanf:"flood"`
		Weather string `koanf:"weather"`
		Traffic string `koanf:"traffic"`
		Transit string `koanf:"transit"`
	} `koanf:"schedule"`

	Providers struct {
		Timeout     string `koanf:"timeout"`
		OpenWeather struct {
			APIKey   string `koanf:"api_key"`
			Location string `koanf:"location"`
		} `koanf:"openweather"`
		Pagasa  rawAPI `koanf:"pagasa"`
		Noah    rawAPI `koanf:"noah"`
		Noaa    rawAPI `koanf:"noaa"`
		Traffic struct {
			BaseURL string `koanf:"base_url"`
			APIKey  string `koanf:"api_key"`
			Region  string `koanf:"region"`
		} `koanf:"traffic"`
		Transit struct {
			BaseURL string `koanf:"base_url"`
			APIKey  string `koanf:"api_key"`
			City    string `koanf:"city"`
		} `koanf:"transit"`
	} `koanf:"providers"`

	Alerts struct {
		Kafka struct {
			Brokers string `koanf:"brokers"`
			Topic   string `koanf:"topic"`
		} `koanf:"kafka"`
		Webhook struct {
			URL     string `koanf:"url"`
			Timeout string `koanf:"timeout"`
		} `koanf:"webhook"`
		Recipients []Recipient `koanf:"recipients"`
	} `koanf:"alerts"`
}

type rawAPI struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

func defaultRaw() rawConfig {
	var raw rawConfig
	raw.HTTP.Addr = ":8080"
	raw.Log.Level = "info"
	raw.Log.Format = "json"
	raw.ShutdownTimeout = "10s"
	raw.Schedule.Flood = "120s"
	raw.Schedule.Weather = "300s"
	raw.Schedule.Traffic = "60s"
	raw.Schedule.Transit = "180s"
	raw.Providers.Timeout = "10s"
	raw.Providers.OpenWeather.Location = "Manila,PH"
	raw.Providers.Traffic.Region = "metro-manila"
	raw.Providers.Transit.City = "manila"
	raw.Alerts.Kafka.Topic = "hazard-alerts"
	raw.Alerts.Webhook.Timeout = "10s"
	return raw
}

// Load reads configuration, applying defaults where unset. path may be empty
// for an environment-only setup.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	raw := defaultRaw()
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return buildConfig(raw)
}

func buildConfig(raw rawConfig) (*Config, error) {
	cfg := &Config{
		HTTPAddr:  raw.HTTP.Addr,
		LogLevel:  strings.ToLower(raw.Log.Level),
		LogFormat: strings.ToLower(raw.Log.Format),
	}

	var err error
	if cfg.ShutdownTimeout, err = parseInterval("shutdown_timeout", raw.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.Schedule.Flood, err = parseInterval("schedule.flood", raw.Schedule.Flood); err != nil {
		return nil, err
	}
	if cfg.Schedule.Weather, err = parseInterval("schedule.weather", raw.Schedule.Weather); err != nil {
		return nil, err
	}
	if cfg.Schedule.Traffic, err = parseInterval("schedule.traffic", raw.Schedule.Traffic); err != nil {
		return nil, err
	}
	if cfg.Schedule.Transit, err = parseInterval("schedule.transit", raw.Schedule.Transit); err != nil {
		return nil, err
	}
	if cfg.Providers.Timeout, err = parseInterval("providers.timeout", raw.Providers.Timeout); err != nil {
		return nil, err
	}
	if cfg.Alerts.WebhookTimeout, err = parseInterval("alerts.webhook.timeout", raw.Alerts.Webhook.Timeout); err != nil {
		return nil, err
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log.level %q", raw.Log.Level)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid log.format %q", raw.Log.Format)
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http.addr is required")
	}

	cfg.Providers.OpenWeatherAPIKey = raw.Providers.OpenWeather.APIKey
	cfg.Providers.OpenWeatherLocation = raw.Providers.OpenWeather.Location
	cfg.Providers.Pagasa = APIConfig(raw.Providers.Pagasa)
	cfg.Providers.Noah = APIConfig(raw.Providers.Noah)
	cfg.Providers.Noaa = APIConfig(raw.Providers.Noaa)
	cfg.Providers.Traffic = APIConfig{BaseURL: raw.Providers.Traffic.BaseURL, APIKey: raw.Providers.Traffic.APIKey}
	cfg.Providers.TrafficRegion = raw.Providers.Traffic.Region
	cfg.Providers.Transit = APIConfig{BaseURL: raw.Providers.Transit.BaseURL, APIKey: raw.Providers.Transit.APIKey}
	cfg.Providers.TransitCity = raw.Providers.Transit.City

	cfg.Alerts.KafkaBrokers = splitList(raw.Alerts.Kafka.Brokers)
	cfg.Alerts.KafkaTopic = raw.Alerts.Kafka.Topic
	if len(cfg.Alerts.KafkaBrokers) > 0 && cfg.Alerts.KafkaTopic == "" {
		return nil, errors.New("alerts.kafka.topic is required when brokers are set")
	}
	cfg.Alerts.WebhookURL = raw.Alerts.Webhook.URL
	cfg.Alerts.Recipients = raw.Alerts.Recipients

	return cfg, nil
}

// Configured reports whether the source has both an endpoint and a key.
func (a APIConfig) Configured() bool {
	return a.BaseURL != "" && a.APIKey != ""
}

func parseInterval(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, value)
	}
	return d, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
