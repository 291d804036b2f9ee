// ABOUTME: Request logging middleware for the preview server in the project's log.Printf key=value style.
// ABOUTME: Records status and byte counts through a wrapping ResponseWriter.
package serve

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("component=serve action=request req_id=%s method=%s path=%s status=%d bytes=%d duration=%s",
			middleware.GetReqID(r.Context()), r.Method, r.URL.Path, status, rec.bytes,
			time.Since(start).Round(time.Microsecond))
	})
}
