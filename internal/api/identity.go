package api

import (
	"context"
	"net/http"
	"strings"
)

// Identity headers.
const (
	HeaderUserID    = "X-User-ID"
	HeaderSessionID = "X-Session-ID"
	HeaderClientID  = "X-Client-ID"
	HeaderBucket    = "X-Communication-Bucket"
)

// IdentityContextKey is the key for storing the caller identity
type IdentityContextKey struct{}

// Identity is who is calling. UserID is empty for anonymous visitors;
// SessionID scopes reflection state; ClientID scopes the reflection
// throttle across sessions on one device.
type Identity struct {
	UserID    string
	SessionID string
	ClientID  string
}

// identityMiddleware copies the identity headers into the request context.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
			SessionID: strings.TrimSpace(r.Header.Get(HeaderSessionID)),
			ClientID:  strings.TrimSpace(r.Header.Get(HeaderClientID)),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), IdentityContextKey{}, id)))
	})
}

// IdentityFrom returns the identity stored by identityMiddleware.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(IdentityContextKey{}).(Identity)
	return id
}
