package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Dataset DatasetConfig
	Session SessionConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Session.SweepInterval <= 0 {
		cfg.Session.SweepInterval = cfg.Session.TTL
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INSIGHTS_APP_ENV" default:"dev"`
	Port         string `envconfig:"INSIGHTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"INSIGHTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INSIGHTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DatasetConfig struct {
	Path string `envconfig:"INSIGHTS_DATASET_PATH" default:"data/campaigns.csv"`
}

// SessionConfig controls the conversation context store. SweepInterval
// defaults to the TTL so that every sweep pass can only ever see sessions
// that are already at least one full TTL old.
type SessionConfig struct {
	TTL           time.Duration `envconfig:"INSIGHTS_SESSION_TTL" default:"1h"`
	MaxMessages   int           `envconfig:"INSIGHTS_SESSION_MAX_MESSAGES" default:"10"`
	SweepInterval time.Duration `envconfig:"INSIGHTS_SESSION_SWEEP_INTERVAL"`
}

type CORSConfig struct {
	Origins []string `envconfig:"INSIGHTS_CORS_ORIGINS" default:"http://localhost:3000"`
}
