package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type CourseHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCourseHandler(log *logger.Logger, catalog services.CatalogService) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		catalog: catalog,
	}
}

// GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, "ListCourses", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	course, err := h.catalog.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, h.log, "GetCourse", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/courses/:id/sections
func (h *CourseHandler) ListSections(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sections, err := h.catalog.ListSections(c.Request.Context(), courseID)
	if err != nil {
		respondErr(c, h.log, "ListSections", err)
		return
	}
	response.RespondOK(c, gin.H{"sections": sections})
}
