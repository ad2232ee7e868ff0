// Package config loads settings from defaults, an optional YAML file named
// by NOSSO_CONFIG, and NOSSO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/nosso/internal/backup"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	StoreDriver string `yaml:"store"`
	DBPath      string `yaml:"db_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	DataKey    string `yaml:"data_key"`
	VersionKey string `yaml:"version_key"`

	PollInterval time.Duration `yaml:"poll_interval"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	BackupPassphrase string          `yaml:"backup_passphrase"`
	S3               backup.S3Config `yaml:"s3"`
}

func Default() *Config {
	return &Config{
		StoreDriver:  DriverSQLite,
		DBPath:       "nosso.db",
		RedisAddr:    "localhost:6379",
		DataKey:      "nosso-app-data",
		VersionKey:   "nosso-app-version",
		PollInterval: 5 * time.Second,
		LogLevel:     "info",
		LogFormat:    "text",
		S3: backup.S3Config{
			Region: "us-east-1",
			Prefix: "nosso",
		},
	}
}

func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("NOSSO_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the settings present in the YAML file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.StoreDriver = getEnv("NOSSO_STORE", c.StoreDriver)
	c.DBPath = getEnv("NOSSO_DB_PATH", c.DBPath)
	c.RedisAddr = getEnv("NOSSO_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("NOSSO_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("NOSSO_REDIS_DB", c.RedisDB)
	c.DataKey = getEnv("NOSSO_DATA_KEY", c.DataKey)
	c.VersionKey = getEnv("NOSSO_VERSION_KEY", c.VersionKey)
	c.PollInterval = getEnvDuration("NOSSO_POLL_INTERVAL", c.PollInterval)
	c.LogLevel = getEnv("NOSSO_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("NOSSO_LOG_FORMAT", c.LogFormat)
	c.BackupPassphrase = getEnv("NOSSO_BACKUP_PASSPHRASE", c.BackupPassphrase)
	c.S3.Endpoint = getEnv("NOSSO_S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Bucket = getEnv("NOSSO_S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("NOSSO_S3_REGION", c.S3.Region)
	c.S3.AccessKey = getEnv("NOSSO_S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("NOSSO_S3_SECRET_KEY", c.S3.SecretKey)
	c.S3.Prefix = getEnv("NOSSO_S3_PREFIX", c.S3.Prefix)
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db path is required for the sqlite store")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.DataKey == "" || c.VersionKey == "" {
		return fmt.Errorf("data and version keys are required")
	}
	if c.DataKey == c.VersionKey {
		return fmt.Errorf("data key and version key must differ")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
