package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const (
	// HeaderAdminKey заголовок с ключом администратора
	HeaderAdminKey = "X-Admin-Key"

	msgInvalidAdminKey = "требуется корректный ключ администратора"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AdminKey пропускает запрос только с X-Admin-Key, совпадающим с ключом из конфигурации
func AdminKey(key string, logger Logger) mux.MiddlewareFunc {
	expected := []byte(key)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := []byte(r.Header.Get(HeaderAdminKey))
			if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
				requestID, _ := GetRequestID(r.Context())
				logger.Warn("%s %s - Admin key rejected: request_id=%s, remote=%s",
					r.Method, r.URL.Path, requestID, r.RemoteAddr)
				handlers.RespondUnauthorized(w, msgInvalidAdminKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
