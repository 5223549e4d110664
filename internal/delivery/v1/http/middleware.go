package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger пишет в лог каждый запрос: 4xx как предупреждение, 5xx как ошибку.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqID := middleware.GetReqID(r.Context())
			elapsed := time.Since(start)

			switch {
			case status >= http.StatusInternalServerError:
				log.Errorf(fmt.Errorf("status %d", status), "[%s] %s %s %d %s", reqID, r.Method, r.URL.Path, status, elapsed)
			case status >= http.StatusBadRequest:
				log.Warnf("[%s] %s %s %d %s", reqID, r.Method, r.URL.Path, status, elapsed)
			default:
				log.Debugf("[%s] %s %s %d %s", reqID, r.Method, r.URL.Path, status, elapsed)
			}
		})
	}
}
