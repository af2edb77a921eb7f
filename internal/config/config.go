package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DB        DBConfig
	S3        S3Config
	Redis     RedisConfig
	Log       LogConfig
	Retention RetentionConfig
	Mirror    MirrorConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the object storage the page mirror writes to.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// RedisConfig holds settings for the search index backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RetentionConfig controls the scheduled history purge.
type RetentionConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a robfig/cron spec, e.g. "@daily" or "0 30 3 * * *".
	Schedule string `mapstructure:"schedule"`
	// OlderThan is an ISO-8601 duration such as "P180D".
	OlderThan string `mapstructure:"older_than"`
}

// MirrorConfig controls how approved pages are mirrored to object storage.
type MirrorConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Compression string `mapstructure:"compression"`
	KeyPrefix   string `mapstructure:"key_prefix"`
}

// Load reads configuration from environment variables with the PAGEHISTORY_ prefix.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PAGEHISTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "wiki")
	v.SetDefault("db.password", "wiki_secret")
	v.SetDefault("db.name", "wiki")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "wiki-pages")
	v.SetDefault("s3.endpoint", "")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "wiki:search")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Retention defaults
	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.schedule", "@daily")
	v.SetDefault("retention.older_than", "P180D")

	// Mirror defaults
	v.SetDefault("mirror.enabled", true)
	v.SetDefault("mirror.compression", "gzip")
	v.SetDefault("mirror.key_prefix", "pages")

	envBindings := map[string]string{
		"db.host":              "PAGEHISTORY_DB_HOST",
		"db.port":              "PAGEHISTORY_DB_PORT",
		"db.user":              "PAGEHISTORY_DB_USER",
		"db.password":          "PAGEHISTORY_DB_PASSWORD",
		"db.name":              "PAGEHISTORY_DB_NAME",
		"db.sslmode":           "PAGEHISTORY_DB_SSLMODE",
		"db.max_open":          "PAGEHISTORY_DB_MAX_OPEN",
		"db.max_idle":          "PAGEHISTORY_DB_MAX_IDLE",
		"s3.region":            "PAGEHISTORY_S3_REGION",
		"s3.bucket":            "PAGEHISTORY_S3_BUCKET",
		"s3.endpoint":          "PAGEHISTORY_S3_ENDPOINT",
		"s3.access_key":        "PAGEHISTORY_S3_ACCESS_KEY",
		"s3.secret_key":        "PAGEHISTORY_S3_SECRET_KEY",
		"redis.addr":           "PAGEHISTORY_REDIS_ADDR",
		"redis.password":       "PAGEHISTORY_REDIS_PASSWORD",
		"redis.db":             "PAGEHISTORY_REDIS_DB",
		"redis.key_prefix":     "PAGEHISTORY_REDIS_KEY_PREFIX",
		"log.level":            "PAGEHISTORY_LOG_LEVEL",
		"log.format":           "PAGEHISTORY_LOG_FORMAT",
		"retention.enabled":    "PAGEHISTORY_RETENTION_ENABLED",
		"retention.schedule":   "PAGEHISTORY_RETENTION_SCHEDULE",
		"retention.older_than": "PAGEHISTORY_RETENTION_OLDER_THAN",
		"mirror.enabled":       "PAGEHISTORY_MIRROR_ENABLED",
		"mirror.compression":   "PAGEHISTORY_MIRROR_COMPRESSION",
		"mirror.key_prefix":    "PAGEHISTORY_MIRROR_KEY_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Retention = RetentionConfig{
		Enabled:   v.GetBool("retention.enabled"),
		Schedule:  v.GetString("retention.schedule"),
		OlderThan: v.GetString("retention.older_than"),
	}
	cfg.Mirror = MirrorConfig{
		Enabled:     v.GetBool("mirror.enabled"),
		Compression: v.GetString("mirror.compression"),
		KeyPrefix:   v.GetString("mirror.key_prefix"),
	}

	return cfg, nil
}
