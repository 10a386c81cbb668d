// Package reqctx carries per-request metadata through context values.
package reqctx

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey int

const (
	clientIPKey ctxKey = iota
	userKey
)

// AuthUser is the identity extracted from a verified session token.
type AuthUser struct {
	ID       int
	Username string
	Role     string
}

// GetClientIP extracts the client IP from the request, preferring proxy
// headers over the socket address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithClientIP stores the client IP in the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the stored client IP, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *AuthUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// User returns the authenticated user, or nil for anonymous requests.
func User(ctx context.Context) *AuthUser {
	u, _ := ctx.Value(userKey).(*AuthUser)
	return u
}
