package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerAddr    string        `mapstructure:"server_addr"`
	GinMode       string        `mapstructure:"gin_mode"`
	DBDriver      string        `mapstructure:"db_driver"`
	DBHost        string        `mapstructure:"db_host"`
	DBPort        string        `mapstructure:"db_port"`
	DBUser        string        `mapstructure:"db_user"`
	DBPassword    string        `mapstructure:"db_password"`
	DBName        string        `mapstructure:"db_name"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SeedOnStart   bool          `mapstructure:"seed_on_start"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
}

// Load reads configuration from the environment, with a local .env file as a
// convenience for development.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_addr", ":8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "board")
	v.SetDefault("db_password", "board")
	v.SetDefault("db_name", "projectboard")
	v.SetDefault("session_secret", "super-secret-key-change-this")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("seed_on_start", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Bind explicitly so AutomaticEnv sees keys that have no default set
	// by the caller's environment.
	for _, key := range []string{
		"server_addr", "gin_mode", "db_driver", "db_host", "db_port",
		"db_user", "db_password", "db_name", "session_secret",
		"session_ttl", "seed_on_start", "log_level", "log_format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the server runs in release mode; cookie
// security attributes key off this.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
