package middleware

import (
	"net/http"
	"runtime/debug"

	"pet-reports-map/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Recover reemplaza a chimw.Recoverer para loguear el panic con nuestro logger.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", map[string]any{
					"panic":      rec,
					"path":       r.URL.Path,
					"request_id": chimw.GetReqID(r.Context()),
					"stack":      string(debug.Stack()),
				})
				// Conexión ya upgradeada a websocket: no hay respuesta HTTP que escribir.
				if !websocket.IsWebSocketUpgrade(r) {
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
