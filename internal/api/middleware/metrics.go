package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPMetricsRecorder интерфейс записи HTTP метрик
type HTTPMetricsRecorder interface {
	RecordHTTPRequest(service, method, path string, status int, duration time.Duration)
}

// MetricsMiddleware учитывает каждый запрос в prometheus
// В label path пишется шаблон маршрута mux, а не фактический URL
func MetricsMiddleware(recorder HTTPMetricsRecorder, serviceName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPRequest(serviceName, r.Method, routeTemplate(r), rec.status, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
