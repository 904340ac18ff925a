package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/hk-arcade-map/api-go/config"
)

// WrapHTTP puts CORS and the per-IP rate limiter in front of the gin engine.
// Preflight requests are answered by the CORS layer before the limiter sees them.
func WrapHTTP(h http.Handler, corsCfg config.CORSConfig, rl config.RateLimitConfig) http.Handler {
	if rl.Requests > 0 && rl.Window > 0 {
		h = httprate.Limit(
			rl.Requests,
			rl.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"Too many requests"}`))
			}),
		)(h)
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: corsCfg.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	})(h)
}
