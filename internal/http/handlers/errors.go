package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/http/response"
	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

// respondErr writes an apierr.Error as-is; anything else is a 500.
func respondErr(c *gin.Context, log *logger.Logger, op string, err error) {
	if ae, ok := apierr.As(err); ok {
		if ae.Status >= http.StatusInternalServerError {
			log.Error(op+" failed", "code", ae.Code, "error", err)
		}
		response.RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	log.Error(op+" failed", "error", err)
	response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds the body when there is one; an empty body leaves
// dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondValidation(c, err)
		return false
	}
	return true
}
