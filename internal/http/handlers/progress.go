package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

// targetUser is the caller unless an admin asks for ?user_id=.
func targetUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	raw := c.Query("user_id")
	if raw == "" {
		return rd.UserID, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/courses/:id/progress
func (h *ProgressHandler) ListCourseProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := targetUser(c)
	if !ok {
		return
	}
	rows, err := h.progress.ListForCourse(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, h.log, "ListCourseProgress", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}

// GET /api/courses/:id/sections/:section_id/progress
func (h *ProgressHandler) GetSectionProgress(c *gin.Context) {
	sectionID, ok := uuidParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := targetUser(c)
	if !ok {
		return
	}
	row, err := h.progress.Get(c.Request.Context(), userID, sectionID)
	if err != nil {
		respondErr(c, h.log, "GetSectionProgress", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

type saveProgressRequest struct {
	UserID             *uuid.UUID `json:"userId"`
	ProgressPercentage *int       `json:"progressPercentage" binding:"required"`
	QuizScore          *int       `json:"quizScore" binding:"omitempty,min=0,max=100"`
	QuizPassed         *bool      `json:"quizPassed"`
}

// POST /api/courses/:id/sections/:section_id/progress
// body: { "progressPercentage": 40, "quizScore"?: 80, "quizPassed"?: true }
func (h *ProgressHandler) SaveSectionProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sectionID, ok := uuidParam(c, "section_id")
	if !ok {
		return
	}
	var req saveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := services.ProgressUpdate{
		CourseID:           courseID,
		SectionID:          sectionID,
		ProgressPercentage: *req.ProgressPercentage,
		QuizScore:          req.QuizScore,
		QuizPassed:         req.QuizPassed,
	}
	if req.UserID != nil {
		in.UserID = *req.UserID
	}
	row, err := h.progress.Save(c.Request.Context(), in)
	if err != nil {
		respondErr(c, h.log, "SaveSectionProgress", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// DELETE /api/courses/:id/sections/:section_id/progress
func (h *ProgressHandler) ResetSectionProgress(c *gin.Context) {
	sectionID, ok := uuidParam(c, "section_id")
	if !ok {
		return
	}
	userID, ok := targetUser(c)
	if !ok {
		return
	}
	if err := h.progress.Reset(c.Request.Context(), userID, sectionID); err != nil {
		respondErr(c, h.log, "ResetSectionProgress", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
