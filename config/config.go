package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	QR       QRConfig       `mapstructure:"qr"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	IdleTimeout  string `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Type     string         `mapstructure:"type"` // memory, sqlite, postgres
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AppConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	ShortCodeLength   int    `mapstructure:"short_code_length"`
	IDGenerator       string `mapstructure:"id_generator"` // uuid, nanoid
	MaxCreateAttempts int    `mapstructure:"max_create_attempts"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Path           string `mapstructure:"path"`
	Namespace      string `mapstructure:"namespace"`
	Subsystem      string `mapstructure:"subsystem"`
	CollectRuntime bool   `mapstructure:"collect_runtime"`
}

type QRConfig struct {
	Size          int    `mapstructure:"size"`
	RecoveryLevel string `mapstructure:"recovery_level"` // low, medium, high, highest
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	// A missing .env is fine; anything else is a broken file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/qrlink/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.sqlite.path", "./data/qrlink.db")
	v.SetDefault("database.postgres.url", "")
	v.SetDefault("database.postgres.max_open_conns", 25)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")

	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.short_code_length", 6)
	v.SetDefault("app.id_generator", "uuid")
	v.SetDefault("app.max_create_attempts", 10)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "qrlink")
	v.SetDefault("metrics.subsystem", "links")
	v.SetDefault("metrics.collect_runtime", true)

	v.SetDefault("qr.size", 256)
	v.SetDefault("qr.recovery_level", "medium")

	v.SetDefault("logging.level", "info")
}

// Validate rejects values the rest of the application cannot act on.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "memory", "sqlite":
	case "postgres":
		if c.Database.Postgres.URL == "" {
			return errors.New("database.postgres.url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	switch c.App.IDGenerator {
	case "uuid", "nanoid":
	default:
		return fmt.Errorf("unsupported id generator: %s", c.App.IDGenerator)
	}

	if c.App.ShortCodeLength <= 0 {
		return fmt.Errorf("app.short_code_length must be positive, got %d", c.App.ShortCodeLength)
	}
	if c.App.MaxCreateAttempts <= 0 {
		return fmt.Errorf("app.max_create_attempts must be positive, got %d", c.App.MaxCreateAttempts)
	}

	switch c.QR.RecoveryLevel {
	case "low", "medium", "high", "highest":
	default:
		return fmt.Errorf("unsupported qr recovery level: %s", c.QR.RecoveryLevel)
	}

	return nil
}

func (c *Config) GetDatabaseURL() string {
	switch c.Database.Type {
	case "sqlite":
		return c.Database.SQLite.Path
	case "postgres":
		return c.Database.Postgres.URL
	default:
		return ""
	}
}

// ShortLinkURL returns the resolvable link for a short identifier.
func (c *Config) ShortLinkURL(id string) string {
	return strings.TrimRight(c.App.BaseURL, "/") + "/go/" + id
}

// QRImageURL returns the address of the QR image for a short identifier.
func (c *Config) QRImageURL(id string) string {
	return strings.TrimRight(c.App.BaseURL, "/") + "/qr_img/" + id
}
