package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendSQLite   = "sqlite"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
	// http
	AllowedOrigins []string `toml:"allowed_origins"`
	// storage
	StoreBackend    string `toml:"store_backend"`
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresUser    string `toml:"postgres_user"`
	RunMigrations   bool   `toml:"run_migrations"`
	SQLiteStorePath string `toml:"sqlite_store_path"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// workout engine
	WorkoutSaveAttempts     int      `toml:"workout_save_attempts"`
	WorkoutSaveBackoff      Duration `toml:"workout_save_backoff"`
	CatalogCacheSizeMB      int      `toml:"catalog_cache_size_mb"`
	LoginRateLimitPerMinute int      `toml:"login_rate_limit_per_minute"`
}

// Duration lets TOML carry values like "150ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	DockerDev   *Config `toml:"dockerdev"`
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load decodes the TOML file at path and returns the section for env,
// with unset engine knobs filled with defaults.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendPostgres
	}
	if c.WorkoutSaveAttempts <= 0 {
		c.WorkoutSaveAttempts = 3
	}
	if c.WorkoutSaveBackoff.Duration <= 0 {
		c.WorkoutSaveBackoff.Duration = 100 * time.Millisecond
	}
	if c.CatalogCacheSizeMB <= 0 {
		c.CatalogCacheSizeMB = 10
	}
	if c.LoginRateLimitPerMinute <= 0 {
		c.LoginRateLimitPerMinute = 10
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"https://gymsession.app"}
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres host and db name are required")
		}
	case StoreBackendSQLite:
		if c.SQLiteStorePath == "" {
			return fmt.Errorf("sqlite store path is required")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.Port <= 0 {
		return fmt.Errorf("port must be set")
	}
	return nil
}
