package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursestream-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursestream-backend/internal/http/middleware"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	CourseHandler   *httpH.CourseHandler
	ProgressHandler *httpH.ProgressHandler
	VideoHandler    *httpH.VideoHandler
	QuestionHandler *httpH.QuestionHandler
	PlaybackHandler *httpH.PlaybackHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Catalog
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.GET("/courses/:id/sections", cfg.CourseHandler.ListSections)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/courses/:id/progress", cfg.ProgressHandler.ListCourseProgress)
			api.GET("/courses/:id/sections/:section_id/progress", cfg.ProgressHandler.GetSectionProgress)
			api.POST("/courses/:id/sections/:section_id/progress", cfg.ProgressHandler.SaveSectionProgress)
			api.DELETE("/courses/:id/sections/:section_id/progress", cfg.ProgressHandler.ResetSectionProgress)
		}

		// Video
		if cfg.VideoHandler != nil {
			api.POST("/videos/:video_id/token", cfg.VideoHandler.IssueToken)
		}

		// Generation
		if cfg.QuestionHandler != nil {
			api.POST("/sections/:id/questions", cfg.QuestionHandler.Generate)
			api.POST("/sections/:id/questions/regenerate", cfg.QuestionHandler.Regenerate)
			api.POST("/sections/:id/chapter-flashcard", cfg.QuestionHandler.ChapterFlashcard)
		}

		// Playback sessions
		if cfg.PlaybackHandler != nil {
			api.POST("/playback-sessions", cfg.PlaybackHandler.Start)
			api.GET("/playback-sessions/:id", cfg.PlaybackHandler.Get)
			api.DELETE("/playback-sessions/:id", cfg.PlaybackHandler.Close)
			api.POST("/playback-sessions/:id/events", cfg.PlaybackHandler.Event)
			api.POST("/playback-sessions/:id/flashcard", cfg.PlaybackHandler.Flashcard)
			api.POST("/playback-sessions/:id/quiz", cfg.PlaybackHandler.Quiz)
		}
	}

	return r
}
