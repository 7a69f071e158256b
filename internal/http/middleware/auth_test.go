package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	authSvc, err := services.NewAuthService(log, "secret")
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	user := uuid.New()

	r := gin.New()
	r.Use(AttachTraceContext(), NewAuthMiddleware(log, authSvc).RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.UserID.String())
	})

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: got status %d want %d", tc.name, rec.Code, tc.status)
		}
		if rec.Header().Get(headerRequestID) == "" {
			t.Fatalf("%s: missing request id header", tc.name)
		}
		if tc.status == http.StatusOK && rec.Body.String() != user.String() {
			t.Fatalf("%s: unexpected body %q", tc.name, rec.Body.String())
		}
	}
}
