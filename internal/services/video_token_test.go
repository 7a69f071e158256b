package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/coursestream-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
)

type fakeDRM struct {
	calls []string
	err   error
}

func (f *fakeDRM) IssueOTP(_ context.Context, videoID string) (drm.PlaybackToken, error) {
	f.calls = append(f.calls, videoID)
	if f.err != nil {
		return drm.PlaybackToken{}, f.err
	}
	return drm.PlaybackToken{OTP: "otp-" + videoID, PlaybackInfo: "info", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func TestVideoTokenIssue(t *testing.T) {
	fake := &fakeDRM{}
	svc := NewVideoTokenService(testutil.Logger(t), fake)
	tok, err := svc.IssueToken(context.Background(), " vid-1 ")
	if err != nil || tok.OTP != "otp-vid-1" {
		t.Fatalf("IssueToken: %+v %v", tok, err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected one provider call, got %d", len(fake.calls))
	}
	_, err = svc.IssueToken(context.Background(), "")
	wantAPIErr(t, err, http.StatusBadRequest, "missing_video_id")
}

func TestVideoTokenErrors(t *testing.T) {
	svc := NewVideoTokenService(testutil.Logger(t), &fakeDRM{err: errors.New("upstream 500")})
	_, err := svc.IssueToken(context.Background(), "vid")
	wantAPIErr(t, err, http.StatusBadGateway, "video_token_failed")

	svc = NewVideoTokenService(testutil.Logger(t), nil)
	_, err = svc.IssueToken(context.Background(), "vid")
	wantAPIErr(t, err, http.StatusInternalServerError, "drm_not_configured")
}
