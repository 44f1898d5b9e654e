// Package config loads ingestd's configuration: defaults, then an optional
// YAML file, then environment variables, in that order of increasing
// priority — the same layering the rest of this codebase's lineage uses.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration root.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Chronicler ChroniclerConfig `mapstructure:"chronicler"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
}

// ServerConfig configures the minimal status API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// DatabaseConfig configures the PostgreSQL connection pool.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// ChroniclerConfig configures the upstream snapshot fetcher.
type ChroniclerConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	PageSize     int    `mapstructure:"page_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int    `mapstructure:"retry_count"`
	CacheEnabled bool   `mapstructure:"cache_enabled"`
	CacheDir     string `mapstructure:"cache_dir"`
	AuthToken    string `mapstructure:"auth_token"`
}

// IngestConfig configures the controller (component E).
type IngestConfig struct {
	ParallelismOverride    int  `mapstructure:"parallelism"` // 0 means "use host CPU count"
	PeriodSeconds          int  `mapstructure:"period_seconds"`
	StartEveryLaunch       bool `mapstructure:"start_every_launch"`
	ReimportAll            bool `mapstructure:"reimport_all"`
	FetchKnownMissingGames bool `mapstructure:"fetch_known_missing_games"`
}

// Parallelism resolves the configured concurrency ceiling, defaulting to the
// host's CPU count when unset (the distilled spec's §4.1 default).
func (c IngestConfig) Parallelism() int {
	if c.ParallelismOverride > 0 {
		return c.ParallelismOverride
	}
	return runtime.NumCPU()
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("database.max_open_conns", 20)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", time.Hour)
	viper.SetDefault("database.statement_timeout", 30*time.Minute)

	viper.SetDefault("chronicler.page_size", 1000)
	viper.SetDefault("chronicler.timeout", 15*time.Second)
	viper.SetDefault("chronicler.retry_count", 5)
	viper.SetDefault("chronicler.cache_enabled", false)
	viper.SetDefault("chronicler.cache_dir", "./cache")

	viper.SetDefault("ingest.period_seconds", 1800)
	viper.SetDefault("ingest.start_every_launch", true)
	viper.SetDefault("ingest.reimport_all", false)
	viper.SetDefault("ingest.fetch_known_missing_games", false)
}

// Load reads ingestd.yaml (if present) layered over built-in defaults, then
// lets INGESTD_-prefixed environment variables override both — the same
// "env wins over file" convention used throughout this lineage, just scoped
// to one service instead of per-platform secrets.
func Load() (*Config, error) {
	_ = godotenv.Load() // local .env convenience; absence is not an error

	setDefaults()

	viper.SetConfigName("ingestd")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	viper.SetEnvPrefix("INGESTD")
	// Nested keys map to underscored names: ingest.period_seconds is read
	// from INGESTD_INGEST_PERIOD_SECONDS.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// ingest.parallelism has no default, so Unmarshal only sees it once bound.
	_ = viper.BindEnv("ingest.parallelism")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	overrideFromEnv(&cfg)

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is required (set database.dsn or INGESTD_DATABASE_DSN)")
	}
	return &cfg, nil
}

// overrideFromEnv applies the handful of secrets/overrides that operators
// commonly inject via the process environment rather than a checked-in file,
// matching the teacher's overrideFromEnv pattern for per-field precedence.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("INGESTD_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("INGESTD_CHRONICLER_BASE_URL"); v != "" {
		cfg.Chronicler.BaseURL = v
	}
	if v := os.Getenv("INGESTD_CHRONICLER_AUTH_TOKEN"); v != "" {
		cfg.Chronicler.AuthToken = v
	}
}
