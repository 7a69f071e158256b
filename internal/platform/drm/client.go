// Package drm talks to the DRM video hosting provider's OTP endpoint.
package drm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/httpx"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

var ErrNotConfigured = errors.New("drm client not configured")

// PlaybackToken is the short-lived pair a player needs to open a protected stream.
type PlaybackToken struct {
	OTP          string    `json:"otp"`
	PlaybackInfo string    `json:"playbackInfo"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type Client interface {
	IssueOTP(ctx context.Context, videoID string) (PlaybackToken, error)
}

type Config struct {
	BaseURL   string
	APISecret string
	TokenTTL  time.Duration
	Timeout   time.Duration
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiSecret  string
	ttl        time.Duration
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	secret := strings.TrimSpace(cfg.APISecret)
	if secret == "" {
		return nil, fmt.Errorf("%w: missing DRM_API_SECRET", ErrNotConfigured)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://dev.vdocipher.com"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("service", "DRMClient"),
		baseURL:    baseURL,
		apiSecret:  secret,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}, nil
}

type otpRequest struct {
	TTL int `json:"ttl"`
}

type otpResponse struct {
	OTP          string `json:"otp"`
	PlaybackInfo string `json:"playbackInfo"`
}

// IssueOTP makes a single attempt; callers decide whether to remount.
func (c *client) IssueOTP(ctx context.Context, videoID string) (PlaybackToken, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return PlaybackToken{}, fmt.Errorf("missing video id")
	}

	body, err := json.Marshal(otpRequest{TTL: int(c.ttl / time.Second)})
	if err != nil {
		return PlaybackToken{}, err
	}
	endpoint := c.baseURL + "/api/videos/" + url.PathEscape(videoID) + "/otp"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return PlaybackToken{}, err
	}
	req.Header.Set("Authorization", "Apisecret "+c.apiSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	issuedAt := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PlaybackToken{}, fmt.Errorf("drm otp request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PlaybackToken{}, fmt.Errorf("drm otp read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("DRM OTP request failed", "video_id", videoID, "status", resp.StatusCode)
		return PlaybackToken{}, &httpx.StatusError{Service: "drm", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out otpResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return PlaybackToken{}, fmt.Errorf("drm otp decode: %w", err)
	}
	if strings.TrimSpace(out.OTP) == "" || strings.TrimSpace(out.PlaybackInfo) == "" {
		return PlaybackToken{}, fmt.Errorf("drm otp response missing otp/playbackInfo")
	}
	return PlaybackToken{
		OTP:          out.OTP,
		PlaybackInfo: out.PlaybackInfo,
		ExpiresAt:    issuedAt.Add(c.ttl),
	}, nil
}
