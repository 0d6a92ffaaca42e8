package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
)

// SecurityHeaders sets the CSP and the usual hardening headers. It must run
// after NonceMiddleware so inline scripts can carry the request nonce.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(r))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(r *http.Request) string {
	scriptSrc := []string{"'self'", "https://unpkg.com"}
	if nonce := GetNonce(r.Context()); nonce != "" {
		scriptSrc = append(scriptSrc, fmt.Sprintf("'nonce-%s'", nonce))
	}

	connectSrc := []string{"'self'"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.PlausibleDomain != "" {
		host := "https://" + cfg.PlausibleHost
		scriptSrc = append(scriptSrc, host)
		connectSrc = append(connectSrc, host)
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scriptSrc, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"connect-src " + strings.Join(connectSrc, " "),
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}
