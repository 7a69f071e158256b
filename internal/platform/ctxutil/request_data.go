package ctxutil

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type requestDataKey struct{}

const RoleAdmin = "admin"

// RequestData is the authenticated identity attached by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        string
	ExpiresAt   time.Time
}

func (rd *RequestData) IsAdmin() bool {
	return rd != nil && strings.EqualFold(strings.TrimSpace(rd.Role), RoleAdmin)
}

// Fresh reports whether the session token is still valid at now.
// A zero ExpiresAt means the token carried no expiry.
func (rd *RequestData) Fresh(now time.Time) bool {
	if rd == nil || rd.UserID == uuid.Nil {
		return false
	}
	return rd.ExpiresAt.IsZero() || now.Before(rd.ExpiresAt)
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
