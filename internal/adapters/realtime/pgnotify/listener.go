package pgnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultRetryDelay = 2 * time.Second

// Handler recibe el payload crudo de cada NOTIFY (realtime.Ingestor lo cumple).
type Handler interface {
	HandleRaw(ctx context.Context, payload []byte) error
}

// Listener mantiene una conexión dedicada con LISTEN sobre el canal de inserts
// y reconecta si se cae.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	h       Handler
	log     logger.Logger
	retry   time.Duration
}

func NewListener(pool *pgxpool.Pool, channel string, h Handler, log logger.Logger) *Listener {
	if log == nil {
		log = logger.Nop()
	}
	return &Listener{
		pool:    pool,
		channel: channel,
		h:       h,
		log:     log.With(map[string]any{"component": "pgnotify", "channel": channel}),
		retry:   defaultRetryDelay,
	}
}

// Run bloquea hasta que ctx se cancela.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn("listen interrupted, retrying", map[string]any{"err": err, "retry_in": l.retry.String()})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info("listening", nil)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		payload, err := expand(ctx, conn, []byte(n.Payload))
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			l.log.Warn("notification dropped", map[string]any{"err": err})
			continue
		}
		// Los payloads malformados los loguea el handler; no cortan el loop.
		if err := l.h.HandleRaw(ctx, payload); err != nil && !errors.Is(err, context.Canceled) {
			l.log.Debug("notification rejected", map[string]any{"err": err})
		}
	}
}

// rowQuerier: *pgxpool.Conn y pgxmock lo cumplen.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notice es lo que manda el trigger: solo la clave de la fila.
type notice struct {
	Table  string          `json:"table"`
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record,omitempty"`
}

var notifyTables = map[string]struct{}{
	realtime.TableMissing:   {},
	realtime.TableStray:     {},
	realtime.TableSightings: {},
}

// expand arma el sobre {table,type,record} que entiende realtime.ParseEvent.
// Lo que no se reconoce pasa tal cual y lo rechaza el handler.
func expand(ctx context.Context, q rowQuerier, raw []byte) ([]byte, error) {
	var n notice
	if err := json.Unmarshal(raw, &n); err != nil || len(n.Record) > 0 || n.ID == "" {
		return raw, nil
	}
	if _, ok := notifyTables[n.Table]; !ok {
		return raw, nil
	}

	sql := "SELECT row_to_json(t) FROM " + pgx.Identifier{n.Table}.Sanitize() + " t WHERE t.id = $1"
	var rec json.RawMessage
	if err := q.QueryRow(ctx, sql, n.ID).Scan(&rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: row gone before load", n.Table, n.ID)
		}
		return nil, fmt.Errorf("load %s %s: %w", n.Table, n.ID, err)
	}

	n.Record = rec
	return json.Marshal(struct {
		Table  string          `json:"table"`
		Type   string          `json:"type"`
		Record json.RawMessage `json:"record"`
	}{n.Table, n.Type, n.Record})
}
