package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type VideoTokenService interface {
	IssueToken(ctx context.Context, videoID string) (drm.PlaybackToken, error)
}

type videoTokenService struct {
	log *logger.Logger
	drm drm.Client
}

func NewVideoTokenService(baseLog *logger.Logger, client drm.Client) VideoTokenService {
	return &videoTokenService{log: baseLog.With("service", "VideoTokenService"), drm: client}
}

// IssueToken makes exactly one request to the DRM provider; callers cache
// the result per video id for their session.
func (s *videoTokenService) IssueToken(ctx context.Context, videoID string) (drm.PlaybackToken, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return drm.PlaybackToken{}, apierr.New(http.StatusBadRequest, "missing_video_id", nil)
	}
	if s.drm == nil {
		return drm.PlaybackToken{}, apierr.New(http.StatusInternalServerError, "drm_not_configured", drm.ErrNotConfigured)
	}
	tok, err := s.drm.IssueOTP(ctx, videoID)
	if err != nil {
		if errors.Is(err, drm.ErrNotConfigured) {
			return drm.PlaybackToken{}, apierr.New(http.StatusInternalServerError, "drm_not_configured", err)
		}
		s.log.Warn("video token issuance failed", "video_id", videoID, "error", err)
		return drm.PlaybackToken{}, apierr.New(http.StatusBadGateway, "video_token_failed", err)
	}
	return tok, nil
}
