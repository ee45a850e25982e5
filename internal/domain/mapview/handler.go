package mapview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxCommandSize = 4096
	outboxSize     = 64
)

func newUpgrader(origins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
}

// originChecker: lista vacía = mismo host (chequeo por defecto de gorilla);
// "*" acepta cualquiera. Comparación por scheme://host, sin distinguir mayúsculas.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "" {
			continue
		}
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	if len(allowed) == 0 {
		return nil
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Clientes que no son browser no mandan Origin
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		_, ok := allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

func RegisterRoutes(r chi.Router, svc *reports.Service, broker *realtime.Broker, addr Addresser, origins []string, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Get("/reports/map", mapHandler(svc))
	r.Get("/map/live", liveHandler(svc, broker, addr, newUpgrader(origins), log))
}

type mapResponse struct {
	Filter  Filter                    `json:"filter"`
	Missing []reports.MissingResponse `json:"missing"`
	Stray   []reports.StrayResponse   `json:"stray"`
	Markers []Marker                  `json:"markers"`
}

// mapHandler godoc
// @Summary Reportes para el mapa
// @Description Invitados leen de las vistas *_map. Ningún ítem trae teléfono. markers solo incluye reportes con coordenadas.
// @Tags map
// @Produce json
// @Param category query string false "all | missing | stray"
// @Param region query string false "Prefijo de la zona (texto antes de la primera coma o guion). all = sin filtro"
// @Param include_resolved query bool false "Incluir encontrados/cerrados/rescatados"
// @Success 200 {object} mapResponse
// @Failure 400 {string} string "invalid category"
// @Router /reports/map [get]
func mapHandler(svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		cat, ok := ParseCategory(q.Get("category"))
		if !ok {
			http.Error(w, "invalid category", http.StatusBadRequest)
			return
		}
		f := Filter{Category: cat, Region: q.Get("region")}

		mc, err := svc.ListForMap(r.Context(), reports.ViewerFrom(r), reports.MapQuery{
			IncludeResolved: reports.ParseBool(q.Get("include_resolved"), false),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		col := NewCollection(mc)
		out := mapResponse{
			Filter:  f,
			Missing: make([]reports.MissingResponse, 0),
			Stray:   make([]reports.StrayResponse, 0),
			Markers: col.Markers(f),
		}
		for _, m := range col.Missing() {
			if f.MatchMissing(m) {
				out.Missing = append(out.Missing, reports.ToMissingResponse(m))
			}
		}
		for _, s := range col.Stray() {
			if f.MatchStray(s) {
				out.Stray = append(out.Stray, reports.ToStrayResponse(s))
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// liveHandler godoc
// @Summary Mapa en vivo (WebSocket)
// @Description Sesión de mapa: el servidor manda snapshot y diffs de marcadores, overlay de rastro y notificaciones; el cliente manda comandos (filter, select, tracking, locate, sound, refresh).
// @Tags map
// @Param access_token query string false "Token de acceso (los browsers no pueden mandar Authorization en el upgrade)"
// @Failure 403 {string} string "origin not allowed"
// @Router /map/live [get]
func liveHandler(svc *reports.Service, broker *realtime.Broker, addr Addresser, upgrader *websocket.Upgrader, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", map[string]any{"err": err})
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		v := reports.ViewerFrom(r)
		sess := NewSession(v, svc, addr, svc.SoundFor(ctx, v), log)

		sub := broker.Subscribe()
		// Obligatorio: si no, el broker sigue intentando entregar
		defer broker.Unsubscribe(sub)

		out := make(chan Message, outboxSize)
		cmds := make(chan Command)

		go writeLoop(ctx, cancel, conn, out, log)
		go readLoop(ctx, cancel, conn, cmds)

		send := func(msgs []Message) {
			for _, m := range msgs {
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
		}

		send(sess.Load(ctx))

		for {
			select {
			case <-ctx.Done():
				return
			case c := <-cmds:
				send(sess.Apply(ctx, c))
			case e, ok := <-sub.C:
				if !ok {
					return
				}
				send(sess.Ingest(e))
			}
		}
	}
}

// readLoop es la única goroutine que lee del socket.
func readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, cmds chan<- Command) {
	defer cancel()

	conn.SetReadLimit(maxCommandSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c, err := ParseCommand(raw)
		if err != nil {
			// Apply responde unknown_command
			c = Command{Type: "invalid"}
		}
		select {
		case cmds <- c:
		case <-ctx.Done():
			return
		}
	}
}

// writeLoop es la única goroutine que escribe en el socket.
func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan Message, log logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case m := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				log.Debug("ws write failed", map[string]any{"err": err, "type": m.Type})
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
