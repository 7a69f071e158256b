package drm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/httpx"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestNewClientRequiresSecret(t *testing.T) {
	_, err := NewClient(testLogger(t), Config{BaseURL: "http://example"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestIssueOTPSendsSecretAndTTL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos/vid-1/otp" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Apisecret s3cret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body otpRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.TTL != 300 {
			t.Errorf("unexpected ttl %d", body.TTL)
		}
		_ = json.NewEncoder(w).Encode(otpResponse{OTP: "otp-1", PlaybackInfo: "pi-1"})
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), Config{BaseURL: srv.URL, APISecret: "s3cret", TokenTTL: 5 * time.Minute})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tok, err := c.IssueOTP(context.Background(), "vid-1")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if tok.OTP != "otp-1" || tok.PlaybackInfo != "pi-1" || tok.ExpiresAt.IsZero() {
		t.Fatalf("unexpected token %+v", tok)
	}
}

func TestIssueOTPDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewClient(testLogger(t), Config{BaseURL: srv.URL, APISecret: "x"})
	_, err := c.IssueOTP(context.Background(), "vid-1")
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}
