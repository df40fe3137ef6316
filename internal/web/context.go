package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/dgref/internal/core"
)

// WithRequestMetadata attaches the requesting client to ctx for the consultation journal.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithClient(ctx, core.Client{IP: clientIP(r), UserAgent: r.Header.Get("User-Agent")})
}

// clientIP returns the request's IP without the port. RemoteAddr has already
// been rewritten by TrustedRealIP for requests from trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
