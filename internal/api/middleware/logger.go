package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// sanitize strips CR/LF from user-supplied values so a path cannot forge log lines.
var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// Logger logs one line per API request: request id (when chi's RequestID
// middleware ran first), method, path, status and duration.
//
//	[a1b2c3/000042] PUT /api/portfolio/assets/BTC-bc1q... 200 1.2ms
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		prefix := ""
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			prefix = "[" + sanitize(id) + "] "
		}
		//nolint:gosec // G706: method, path and request id are sanitized before logging.
		log.Printf(
			"%s%s %s %d %s",
			prefix,
			sanitize(r.Method),
			sanitize(r.URL.Path),
			wrapped.status,
			time.Since(start),
		)
	})
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
