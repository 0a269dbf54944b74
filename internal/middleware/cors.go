package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight answer.
const corsMaxAge = 600

// NewCORSHandler returns a middleware that answers cross-origin requests from
// allowedOrigins (full origins, no trailing slash). Browsers may send the
// bearer token and read the auth challenge and request id on responses.
// Credentials (cookies) are not allowed; the API authenticates by header only.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"WWW-Authenticate", "X-Request-Id"},
		MaxAge:         corsMaxAge,
	})
	return c.Handler
}
