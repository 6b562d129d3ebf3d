package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS allows the dashboard front-ends in allowedOrigins to call the API.
// Authorization must be allowed for the bearer session token, and PUT/DELETE
// for asset edits.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Type", "X-Request-Id"},
		// Tokens travel in the Authorization header, not in cookies.
		AllowCredentials: false,
		MaxAge:           300,
	})
}
