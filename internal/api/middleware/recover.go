package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
)

// Recoverer turns a handler panic into a WSM_INTERNAL response.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("stack", string(debug.Stack())),
						zap.String("request_id", GetRequestID(r)),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(core.ErrInternal.HTTPStatus())
					json.NewEncoder(w).Encode(core.NewAppError(core.ErrInternal, "internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
