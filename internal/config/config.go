package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	WebOrigin string `yaml:"web_origin"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProvidersConfig selects one concrete implementation per capability.
// Resolution happens once at startup in the provider registry.
type ProvidersConfig struct {
	Flights string `yaml:"flights"` // mock | kiwi | duffel | amadeus
	Stays   string `yaml:"stays"`   // mock | booking
	Poi     string `yaml:"poi"`     // mock | opentripmap
	Weather string `yaml:"weather"` // mock | openmeteo
	Routing string `yaml:"routing"` // mock | osrm

	KiwiTequilaAPIKey string `yaml:"kiwi_tequila_api_key"`
	OpenTripMapAPIKey string `yaml:"opentripmap_api_key"`
	OsrmBaseURL       string `yaml:"osrm_base_url"`
}

type ExplainerConfig struct {
	Provider  string `yaml:"provider"` // template | openai
	OpenAIKey string `yaml:"openai_key"`
	Model     string `yaml:"model"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

type WorkerConfig struct {
	Count        int           `yaml:"count"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type AlertsConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Providers ProvidersConfig `yaml:"providers"`
	Explainer ExplainerConfig `yaml:"explainer"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"worker"`
	Alerts    AlertsConfig    `yaml:"alerts"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config. The resolved struct is
// injected at construction time; nothing reads configuration ad hoc.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.RateLimit.PerMinute <= 0 {
		cfg.RateLimit.PerMinute = 5
	}
	if cfg.Worker.Count <= 0 {
		cfg.Worker.Count = 4
	}
	if cfg.Worker.PollInterval <= 0 {
		cfg.Worker.PollInterval = 500 * time.Millisecond
	}
	if cfg.Alerts.RefreshInterval <= 0 {
		cfg.Alerts.RefreshInterval = time.Minute
	}
	if cfg.Providers.Flights == "" {
		cfg.Providers.Flights = "mock"
	}
	if cfg.Providers.Stays == "" {
		cfg.Providers.Stays = "mock"
	}
	if cfg.Providers.Poi == "" {
		cfg.Providers.Poi = "mock"
	}
	if cfg.Providers.Weather == "" {
		cfg.Providers.Weather = "mock"
	}
	if cfg.Providers.Routing == "" {
		cfg.Providers.Routing = "mock"
	}
	if cfg.Explainer.Provider == "" {
		cfg.Explainer.Provider = "template"
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
