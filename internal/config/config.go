package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"HTTP_PORT"`
	Env         string   `mapstructure:"ENV"`
	DataFile    string   `mapstructure:"DATA_FILE"`
	BackupDir   string   `mapstructure:"BACKUP_DIR"`
	CORSOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("HTTP_PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_FILE", "medications.json")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("HTTP_PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_FILE")
	v.BindEnv("BACKUP_DIR")
	v.BindEnv("CORS_ALLOWED_ORIGINS")
	v.BindEnv("LOG_LEVEL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ALLOWED_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The inventory
// document path and the backup directory must both be set, since every
// mutating operation writes through them.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE must not be empty")
	}
	if c.BackupDir == "" {
		return fmt.Errorf("BACKUP_DIR must not be empty")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}
