package app

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/coursestream-backend/internal/data/db"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/player"
	"github.com/yungbote/coursestream-backend/internal/observability"
	"github.com/yungbote/coursestream-backend/internal/platform/cache"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/platform/envutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	LogMode     string
	CORSOrigins []string

	Postgres db.PostgresConfig
	Redis    cache.RedisConfig

	JWTSecret string
	DRM       drm.Config
	// OpenAIKeySet gates generation; the client itself reads OPENAI_*.
	OpenAIKeySet bool

	Playback player.SessionsConfig
	Otel     observability.OtelConfig

	// QuizTierMessages overrides score tier copy by tier name.
	QuizTierMessages map[string]string
}

// LoadDotEnv reads .env when present. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "coursestream"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},
		Redis: cache.RedisConfig{
			Addr:      envutil.String("REDIS_ADDR", ""),
			Password:  envutil.String("REDIS_PASSWORD", ""),
			DB:        envutil.Int("REDIS_DB", 0),
			Namespace: envutil.String("REDIS_NAMESPACE", "coursestream"),
		},
		JWTSecret: envutil.String("AUTH_JWT_SECRET", ""),
		DRM: drm.Config{
			BaseURL:   envutil.String("DRM_BASE_URL", ""),
			APISecret: envutil.String("DRM_API_SECRET", ""),
			TokenTTL:  envutil.Duration("DRM_TOKEN_TTL", 5*time.Minute),
		},
		OpenAIKeySet: envutil.String("OPENAI_API_KEY", "") != "",
		Playback: player.SessionsConfig{
			SweepInterval: envutil.Duration("PLAYBACK_SWEEP_INTERVAL", player.DefaultSweepInterval),
			IdleTTL:       envutil.Duration("PLAYBACK_IDLE_TTL", player.DefaultIdleTTL),
		},
		QuizTierMessages: envutil.Pairs("QUIZ_TIER_MESSAGES", ";"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "coursestream-api"),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("APP_ENV", "development")),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"redis", cfg.Redis.Addr != "",
			"drm", cfg.DRM.APISecret != "",
			"openai", cfg.OpenAIKeySet,
			"otel", cfg.Otel.Enabled,
		)
	}
	return cfg
}
