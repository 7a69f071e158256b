package app

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/modules/learning"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/generation"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/player"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/cache"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/platform/openai"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type Services struct {
	Cache cache.Cache

	Auth       services.AuthService
	Catalog    services.CatalogService
	Progress   services.ProgressService
	VideoToken services.VideoTokenService
	Questions  services.QuestionService

	Sessions *player.Sessions
	Learning learning.Usecases
}

func wireCache(log *logger.Logger, cfg Config, clk clock.Clock) cache.Cache {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set; using in-memory cache")
		return cache.NewMemory(clk)
	}
	c, err := cache.NewRedis(log, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable; using in-memory cache", "error", err)
		return cache.NewMemory(clk)
	}
	return c
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	clk := clock.Real()

	auth, err := services.NewAuthService(log, cfg.JWTSecret)
	if err != nil {
		return Services{}, err
	}

	// DRM and OpenAI are optional at boot; the endpoints that need them
	// answer with a configuration error instead.
	var drmClient drm.Client
	if c, err := drm.NewClient(log, cfg.DRM); err == nil {
		drmClient = c
	} else if errors.Is(err, drm.ErrNotConfigured) {
		log.Warn("video tokens disabled", "error", err)
	} else {
		return Services{}, fmt.Errorf("init drm client: %w", err)
	}

	var ai openai.Client
	if cfg.OpenAIKeySet {
		if ai, err = openai.NewClient(log); err != nil {
			return Services{}, fmt.Errorf("init openai client: %w", err)
		}
	} else {
		log.Warn("question generation disabled (missing OPENAI_API_KEY)")
	}

	policy, err := quizPolicy(cfg)
	if err != nil {
		return Services{}, fmt.Errorf("load quiz policy: %w", err)
	}

	c := wireCache(log, cfg, clk)
	catalog := services.NewCatalogService(db, log, c, reposet.Course, reposet.Section)
	progress := services.NewProgressService(db, log, clk, c, reposet.Section, reposet.SectionProgress)
	tokens := services.NewVideoTokenService(log, drmClient)
	questions := services.NewQuestionService(log, generation.NewService(log, ai), reposet.Course, reposet.Section)

	deps := learning.PlayerDeps(catalog, progress, tokens, questions)
	deps.Clock = clk
	deps.Policy = policy
	sessions := player.NewSessions(log, deps, cfg.Playback)

	return Services{
		Cache:      c,
		Auth:       auth,
		Catalog:    catalog,
		Progress:   progress,
		VideoToken: tokens,
		Questions:  questions,
		Sessions:   sessions,
		Learning: learning.New(learning.UsecasesDeps{
			Log:       log.With("usecases", "learning"),
			Catalog:   catalog,
			Progress:  progress,
			Tokens:    tokens,
			Questions: questions,
			Sessions:  sessions,
		}),
	}, nil
}

func quizPolicy(cfg Config) (quiz.Policy, error) {
	policy, err := quiz.DefaultPolicy()
	if err != nil {
		return quiz.Policy{}, err
	}
	if len(cfg.QuizTierMessages) > 0 {
		policy = policy.WithTierMessages(cfg.QuizTierMessages)
	}
	return policy, nil
}
