package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/learnnow-backend/internal/clients/graph"
	"github.com/yungbote/learnnow-backend/internal/clients/imagesearch"
	"github.com/yungbote/learnnow-backend/internal/clients/redis"
	"github.com/yungbote/learnnow-backend/internal/data/db"
	"github.com/yungbote/learnnow-backend/internal/observability"
	"github.com/yungbote/learnnow-backend/internal/platform/gcp"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type Config struct {
	Port        string
	LogMode     string
	Environment string
	Version     string
	PageSize    int
	CORSOrigins []string

	Database db.Config
	Auth     services.AuthConfig
	Groups   services.Groups

	Storage     gcp.ObjectStorageConfig
	StorageMode string
	ImageSearch imagesearch.Config
	Graph       graph.Config

	Redis        redis.Config
	NameCacheTTL time.Duration

	Otel    observability.OtelConfig
	Metrics observability.MetricsConfig
}

// LoadConfig reads configuration from the environment, a .env file and an
// optional learnnow.yaml in the working directory or ./config. Nested keys
// map to environment variables with dots replaced by underscores, so
// "postgres.host" is POSTGRES_HOST.
func LoadConfig() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("learnnow")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.mode", "development")
	v.SetDefault("environment", "development")
	v.SetDefault("version", "dev")
	v.SetDefault("page.size", services.DefaultPageSize)
	v.SetDefault("cors.origins", "")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "learnnow")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("sqlite.path", "learnnow.db")
	v.SetDefault("db.slow.threshold", 200*time.Millisecond)

	v.SetDefault("auth.signing.key", "")
	v.SetDefault("auth.public.key", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.leeway", 30*time.Second)

	v.SetDefault("group.admin", "")
	v.SetDefault("group.teacher", "")
	v.SetDefault("group.moderator", "")

	v.SetDefault("storage.mode", "")
	v.SetDefault("storage.emulator.host", "")
	v.SetDefault("gcs.bucket", "")
	v.SetDefault("gcs.credentials", "")
	v.SetDefault("gcs.public.base.url", "")
	v.SetDefault("gcs.signed.url.ttl", 15*time.Minute)

	v.SetDefault("image.search.api.key", "")
	v.SetDefault("image.search.engine.id", "")
	v.SetDefault("image.search.endpoint", "")

	v.SetDefault("graph.base.url", graph.DefaultBaseURL)
	v.SetDefault("graph.timeout", 10*time.Second)
	v.SetDefault("graph.batch.size", 1000)
	v.SetDefault("graph.parallelism", 4)
	v.SetDefault("graph.max.retries", 0)
	v.SetDefault("graph.retry.backoff", 500*time.Millisecond)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("name.cache.ttl", time.Hour)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service.name", "learnnow")
	v.SetDefault("otel.exporter.otlp.endpoint", "")
	v.SetDefault("otel.exporter.otlp.headers", "")
	v.SetDefault("otel.exporter.otlp.insecure", false)
	v.SetDefault("otel.sampler.ratio", 0.1)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.scrape.interval", 15*time.Second)
	v.SetDefault("metrics.slow.request", 500*time.Millisecond)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:        strings.TrimSpace(v.GetString("port")),
		LogMode:     strings.TrimSpace(v.GetString("log.mode")),
		Environment: strings.TrimSpace(v.GetString("environment")),
		Version:     strings.TrimSpace(v.GetString("version")),
		PageSize:    v.GetInt("page.size"),
		CORSOrigins: splitList(v.GetString("cors.origins")),
		Database: db.Config{
			Driver:        v.GetString("db.driver"),
			Host:          v.GetString("postgres.host"),
			Port:          v.GetString("postgres.port"),
			User:          v.GetString("postgres.user"),
			Password:      v.GetString("postgres.password"),
			Name:          v.GetString("postgres.name"),
			SSLMode:       v.GetString("postgres.sslmode"),
			SQLitePath:    v.GetString("sqlite.path"),
			SlowThreshold: v.GetDuration("db.slow.threshold"),
		},
		Auth: services.AuthConfig{
			SigningKey:   v.GetString("auth.signing.key"),
			PublicKeyPEM: v.GetString("auth.public.key"),
			Audience:     v.GetString("auth.audience"),
			Issuer:       v.GetString("auth.issuer"),
			Leeway:       v.GetDuration("auth.leeway"),
		},
		Groups: services.Groups{
			Admin:     strings.TrimSpace(v.GetString("group.admin")),
			Teacher:   strings.TrimSpace(v.GetString("group.teacher")),
			Moderator: strings.TrimSpace(v.GetString("group.moderator")),
		},
		StorageMode: v.GetString("storage.mode"),
		Storage: gcp.ObjectStorageConfig{
			EmulatorHost:  strings.TrimSpace(v.GetString("storage.emulator.host")),
			Bucket:        strings.TrimSpace(v.GetString("gcs.bucket")),
			Credentials:   v.GetString("gcs.credentials"),
			PublicBaseURL: strings.TrimSpace(v.GetString("gcs.public.base.url")),
			SignedURLTTL:  v.GetDuration("gcs.signed.url.ttl"),
		},
		ImageSearch: imagesearch.Config{
			APIKey:   v.GetString("image.search.api.key"),
			EngineID: v.GetString("image.search.engine.id"),
			Endpoint: strings.TrimSpace(v.GetString("image.search.endpoint")),
		},
		Graph: graph.Config{
			BaseURL:      v.GetString("graph.base.url"),
			Timeout:      v.GetDuration("graph.timeout"),
			BatchSize:    v.GetInt("graph.batch.size"),
			Parallelism:  v.GetInt("graph.parallelism"),
			MaxRetries:   v.GetInt("graph.max.retries"),
			RetryBackoff: v.GetDuration("graph.retry.backoff"),
		},
		Redis: redis.Config{
			Addr:     strings.TrimSpace(v.GetString("redis.addr")),
			Username: v.GetString("redis.username"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		NameCacheTTL: v.GetDuration("name.cache.ttl"),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service.name"),
			Endpoint:    v.GetString("otel.exporter.otlp.endpoint"),
			Headers:     v.GetString("otel.exporter.otlp.headers"),
			Insecure:    v.GetBool("otel.exporter.otlp.insecure"),
			SampleRatio: v.GetFloat64("otel.sampler.ratio"),
		},
		Metrics: observability.MetricsConfig{
			Enabled:              v.GetBool("metrics.enabled"),
			ScrapeInterval:       v.GetDuration("metrics.scrape.interval"),
			SlowRequestThreshold: v.GetDuration("metrics.slow.request"),
		},
	}
	cfg.Otel.Environment = cfg.Environment
	cfg.Otel.Version = cfg.Version
	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("config: page size must be positive, got %d", cfg.PageSize)
	}
	if cfg.Auth.SigningKey == "" && strings.TrimSpace(cfg.Auth.PublicKeyPEM) == "" {
		return errors.New("config: AUTH_SIGNING_KEY or AUTH_PUBLIC_KEY is required")
	}
	return nil
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
