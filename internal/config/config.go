package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName           string        `mapstructure:"app_name"`
	Port              string        `mapstructure:"port"`
	GinMode           string        `mapstructure:"gin_mode"`
	LogLevel          string        `mapstructure:"log_level"`
	ModelsDir         string        `mapstructure:"models_dir"`
	ModelServiceURL   string        `mapstructure:"model_service_url"`
	ModelTimeout      time.Duration `mapstructure:"model_timeout"`
	EnableDB          bool          `mapstructure:"enable_db"`
	DatabaseURL       string        `mapstructure:"database_url"`
	DBMaxConns        int32         `mapstructure:"db_max_conns"`
	MigrationsDir     string        `mapstructure:"migrations_dir"`
	PredictionLogFile string        `mapstructure:"prediction_log_file"`
	SinkTimeout       time.Duration `mapstructure:"sink_timeout"`
	StaticRoot        string        `mapstructure:"static_root"`
}

var defaults = map[string]any{
	"app_name":            "gorisk",
	"port":                "8080",
	"gin_mode":            "release",
	"log_level":           "INFO",
	"models_dir":          "models",
	"model_service_url":   "",
	"model_timeout":       "5s",
	"enable_db":           false,
	"database_url":        "",
	"db_max_conns":        4,
	"migrations_dir":      "migrations",
	"prediction_log_file": "",
	"sink_timeout":        "3s",
	"static_root":         "",
}

// Load reads an optional .env file, then the process environment. Keys are
// the upper-cased field names, e.g. MODELS_DIR.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if c.ModelServiceURL == "" && c.ModelsDir == "" {
		return fmt.Errorf("one of MODELS_DIR or MODEL_SERVICE_URL is required")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive, got %s", c.ModelTimeout)
	}
	return nil
}
