package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/vibemix-backend/internal/platform/envutil"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	SQLitePath    string        `yaml:"sqlite_path"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
}

type FeedConfig struct {
	DefaultLimit    int `yaml:"default_limit"`
	MaxLimit        int `yaml:"max_limit"`
	OverfetchFactor int `yaml:"overfetch_factor"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Port           string         `yaml:"port"`
	LogMode        string         `yaml:"log_mode"`
	JWTSecretKey   string         `yaml:"jwt_secret_key"`
	RedisAddr      string         `yaml:"redis_addr"`
	RedisChannel   string         `yaml:"redis_channel"`
	CORSOrigins    []string       `yaml:"cors_origins"`
	MetricsEnabled bool           `yaml:"metrics_enabled"`
	VoteMaxTries   int            `yaml:"vote_max_tries"`
	Database       DatabaseConfig `yaml:"database"`
	Feed           FeedConfig     `yaml:"feed"`
	Otel           OtelConfig     `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:         "8080",
		LogMode:      "development",
		JWTSecretKey: defaultJWTSecret,
		RedisChannel: "vibemix.events",
		VoteMaxTries: 3,
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "vibemix",
			SSLMode: "disable",
		},
		Feed: FeedConfig{
			DefaultLimit:    20,
			MaxLimit:        100,
			OverfetchFactor: 3,
		},
		Otel: OtelConfig{
			ServiceName: "vibemix",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers defaults, the optional CONFIG_FILE yaml document and
// environment variables, in that order.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisChannel = envutil.String("REDIS_CHANNEL", cfg.RedisChannel)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.VoteMaxTries = envutil.Int("VOTE_MAX_TRIES", cfg.VoteMaxTries)
	if raw := envutil.String("CORS_ALLOW_ORIGINS", ""); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}

	db := &cfg.Database
	db.Driver = envutil.String("DB_DRIVER", db.Driver)
	db.DSN = envutil.String("DATABASE_DSN", db.DSN)
	db.Host = envutil.String("POSTGRES_HOST", db.Host)
	db.Port = envutil.String("POSTGRES_PORT", db.Port)
	db.User = envutil.String("POSTGRES_USER", db.User)
	db.Password = envutil.String("POSTGRES_PASSWORD", db.Password)
	db.Name = envutil.String("POSTGRES_NAME", db.Name)
	db.SSLMode = envutil.String("POSTGRES_SSLMODE", db.SSLMode)
	db.SQLitePath = envutil.String("SQLITE_PATH", db.SQLitePath)
	db.SlowThreshold = envutil.Duration("DB_SLOW_THRESHOLD", db.SlowThreshold)
	db.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", db.MaxOpenConns)
	db.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", db.MaxIdleConns)

	cfg.Feed.DefaultLimit = envutil.Int("FEED_DEFAULT_LIMIT", cfg.Feed.DefaultLimit)
	cfg.Feed.MaxLimit = envutil.Int("FEED_MAX_LIMIT", cfg.Feed.MaxLimit)
	cfg.Feed.OverfetchFactor = envutil.Int("FEED_OVERFETCH_FACTOR", cfg.Feed.OverfetchFactor)

	o := &cfg.Otel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName)
	o.Environment = envutil.String("OTEL_ENVIRONMENT", o.Environment)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint)
	o.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", o.Headers)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	o.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", o.SampleRatio)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
