package middleware

import (
	"fmt"
	"net/http"

	"github.com/tendant/org-messages/internal/config"
)

// SecurityHeaders sets the configured response headers on every request.
// Headers with an empty value are skipped.
func SecurityHeaders(cfg config.SecurityHeadersConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	headers := securityHeaderValues(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				h.Set(kv[0], kv[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaderValues(cfg config.SecurityHeadersConfig) [][2]string {
	all := [][2]string{
		{"Content-Security-Policy", cfg.CSP},
		{"X-Frame-Options", cfg.FrameOptions},
		{"X-Content-Type-Options", cfg.ContentTypeOptions},
		{"X-XSS-Protection", cfg.XSSProtection},
		{"Referrer-Policy", cfg.ReferrerPolicy},
		{"Permissions-Policy", cfg.PermissionsPolicy},
		{"Cache-Control", cfg.CacheControl},
	}
	if cfg.HSTSMaxAge > 0 {
		all = append(all, [2]string{"Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge)})
	}

	headers := all[:0]
	for _, kv := range all {
		if kv[1] != "" {
			headers = append(headers, kv)
		}
	}
	return headers
}
