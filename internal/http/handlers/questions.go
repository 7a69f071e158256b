package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/generation"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type QuestionHandler struct {
	log       *logger.Logger
	questions services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{log: log.With("handler", "QuestionHandler"), questions: questions}
}

type generateQuestionsRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=10"`
}

type regenerateQuestionsRequest struct {
	Previous []any `json:"previous"`
	Count    int   `json:"count" binding:"omitempty,min=1,max=10"`
}

type chapterFlashcardRequest struct {
	Title     string   `json:"title"`
	StartTime *float64 `json:"startTime" binding:"required,min=0"`
	Duration  *float64 `json:"duration" binding:"omitempty,gt=0"`
}

func questionList(qs []quiz.Question) []quiz.Question {
	if qs == nil {
		return []quiz.Question{}
	}
	return qs
}

// POST /api/sections/:id/questions
// body (optional): { "count": 5 }
func (h *QuestionHandler) Generate(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req generateQuestionsRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	qs, err := h.questions.Generate(c.Request.Context(), sectionID, req.Count)
	if err != nil {
		respondErr(c, h.log, "GenerateQuestions", err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questionList(qs)})
}

// POST /api/sections/:id/questions/regenerate
// body: { "previous": [...], "count"?: 5 }
func (h *QuestionHandler) Regenerate(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req regenerateQuestionsRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	qs, err := h.questions.Regenerate(c.Request.Context(), sectionID, req.Previous, req.Count)
	if err != nil {
		respondErr(c, h.log, "RegenerateQuestions", err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questionList(qs)})
}

// POST /api/sections/:id/chapter-flashcard
// body: { "title"?: "...", "startTime": 30, "duration"?: 60 }
func (h *QuestionHandler) ChapterFlashcard(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req chapterFlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	fc, err := h.questions.ChapterFlashcard(c.Request.Context(), sectionID, generation.ChapterSpan{
		Title:     req.Title,
		StartTime: *req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		respondErr(c, h.log, "ChapterFlashcard", err)
		return
	}
	response.RespondOK(c, gin.H{"flashcard": fc})
}
