package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/modules/learning"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/player"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

// PlaybackHandler drives server-side playback sessions. Every mutating call
// answers with the session snapshot; clients poll GET for async results.
type PlaybackHandler struct {
	log      *logger.Logger
	learning learning.Usecases
}

func NewPlaybackHandler(log *logger.Logger, uc learning.Usecases) *PlaybackHandler {
	return &PlaybackHandler{log: log.With("handler", "PlaybackHandler"), learning: uc}
}

type startPlaybackRequest struct {
	SectionID string `json:"sectionId" binding:"required,uuid"`
}

// POST /api/playback-sessions
func (h *PlaybackHandler) Start(c *gin.Context) {
	var req startPlaybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	out, err := h.learning.StartPlayback(c.Request.Context(), learning.StartPlaybackInput{
		SectionID: uuid.MustParse(req.SectionID),
	})
	if err != nil {
		respondErr(c, h.log, "StartPlayback", err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// GET /api/playback-sessions/:id
func (h *PlaybackHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.learning.PlaybackSnapshot(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.log, "PlaybackSnapshot", err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/playback-sessions/:id
func (h *PlaybackHandler) Close(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.learning.ClosePlayback(c.Request.Context(), id); err != nil {
		respondErr(c, h.log, "ClosePlayback", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

type playbackEventRequest struct {
	Type        string  `json:"type" binding:"required,oneof=sample play pause seek seek_chapter ended focus remount"`
	CurrentTime float64 `json:"currentTime" binding:"min=0"`
	Duration    float64 `json:"duration" binding:"min=0"`
	ChapterID   string  `json:"chapterId" binding:"required_if=Type seek_chapter"`
}

// POST /api/playback-sessions/:id/events
func (h *PlaybackHandler) Event(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req playbackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	out, err := h.learning.PlaybackEvent(c.Request.Context(), id, player.Event{
		Type:        req.Type,
		CurrentTime: req.CurrentTime,
		Duration:    req.Duration,
		ChapterID:   req.ChapterID,
	})
	if err != nil {
		respondErr(c, h.log, "PlaybackEvent", err)
		return
	}
	response.RespondOK(c, out)
}

type flashcardActionRequest struct {
	Action string `json:"action" binding:"required,oneof=answer skip"`
	Choice string `json:"choice" binding:"required_if=Action answer"`
}

// POST /api/playback-sessions/:id/flashcard
func (h *PlaybackHandler) Flashcard(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req flashcardActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	out, err := h.learning.PlaybackFlashcard(c.Request.Context(), id, learning.FlashcardActionInput{
		Skip:   req.Action == "skip",
		Choice: req.Choice,
	})
	if err != nil {
		respondErr(c, h.log, "PlaybackFlashcard", err)
		return
	}
	response.RespondOK(c, out)
}

type quizActionRequest struct {
	Action string `json:"action" binding:"required,oneof=select assign submit regenerate continue close open"`
	Choice string `json:"choice" binding:"required_if=Action select"`
	Left   *int   `json:"left" binding:"required_if=Action assign"`
	Right  string `json:"right" binding:"required_if=Action assign"`
}

// POST /api/playback-sessions/:id/quiz
func (h *PlaybackHandler) Quiz(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req quizActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, err)
		return
	}
	action := player.QuizAction{Kind: req.Action, Choice: req.Choice, Right: req.Right}
	if req.Left != nil {
		action.Left = *req.Left
	}
	out, err := h.learning.PlaybackQuiz(c.Request.Context(), id, action)
	if err != nil {
		respondErr(c, h.log, "PlaybackQuiz", err)
		return
	}
	response.RespondOK(c, out)
}
