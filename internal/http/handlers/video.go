package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type VideoHandler struct {
	log    *logger.Logger
	tokens services.VideoTokenService
}

func NewVideoHandler(log *logger.Logger, tokens services.VideoTokenService) *VideoHandler {
	return &VideoHandler{log: log.With("handler", "VideoHandler"), tokens: tokens}
}

// POST /api/videos/:video_id/token
func (h *VideoHandler) IssueToken(c *gin.Context) {
	tok, err := h.tokens.IssueToken(c.Request.Context(), c.Param("video_id"))
	if err != nil {
		respondErr(c, h.log, "IssueToken", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.RespondOK(c, tok)
}
