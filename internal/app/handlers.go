package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/http"
	httpH "github.com/yungbote/coursestream-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursestream-backend/internal/http/middleware"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Course    *httpH.CourseHandler
	Progress  *httpH.ProgressHandler
	Video     *httpH.VideoHandler
	Questions *httpH.QuestionHandler
	Playback  *httpH.PlaybackHandler
}

func dbPing(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(dbPing(db)),
		Course:    httpH.NewCourseHandler(log, services.Catalog),
		Progress:  httpH.NewProgressHandler(log, services.Progress),
		Video:     httpH.NewVideoHandler(log, services.VideoToken),
		Questions: httpH.NewQuestionHandler(log, services.Questions),
		Playback:  httpH.NewPlaybackHandler(log, services.Learning),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  middleware.Auth,
		CourseHandler:   handlers.Course,
		ProgressHandler: handlers.Progress,
		VideoHandler:    handlers.Video,
		QuestionHandler: handlers.Questions,
		PlaybackHandler: handlers.Playback,
		HealthHandler:   handlers.Health,
	})
}
