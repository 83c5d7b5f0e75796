package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the browser client on the configured origins to reach the
// API. The deck endpoint exposes Content-Disposition so the client can use
// the suggested file name.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})
}
