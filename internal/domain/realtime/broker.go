package realtime

import (
	"context"
	"sync/atomic"

	"pet-reports-map/internal/platform/logger"
)

const DefaultBuffer = 32

// Subscription recibe eventos por C hasta que se desuscribe o el broker termina.
type Subscription struct {
	id uint64
	ch chan Event
	C  <-chan Event
}

func (s *Subscription) ID() uint64 { return s.id }

// Broker es un hub: una sola goroutine (Run) es dueña del set de suscriptores.
// Register/unregister/broadcast llegan por canales.
type Broker struct {
	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan Event
	done       chan struct{}

	subs   map[*Subscription]struct{}
	buffer int
	nextID atomic.Uint64
	log    logger.Logger
}

func NewBroker(buffer int, log logger.Logger) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Broker{
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		broadcast:  make(chan Event),
		done:       make(chan struct{}),
		subs:       make(map[*Subscription]struct{}),
		buffer:     buffer,
		log:        log,
	}
}

// Run procesa hasta que ctx se cancela; al salir cierra todas las suscripciones.
func (b *Broker) Run(ctx context.Context) {
	defer func() {
		for s := range b.subs {
			close(s.ch)
			delete(b.subs, s)
		}
		close(b.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-b.register:
			b.subs[s] = struct{}{}

		case s := <-b.unregister:
			if _, ok := b.subs[s]; !ok {
				continue
			}
			delete(b.subs, s)
			// Lo que quedó en buffer no se entrega
			drain(s.ch)
			close(s.ch)

		case e := <-b.broadcast:
			for s := range b.subs {
				select {
				case s.ch <- e:
				default:
					b.log.Warn("realtime subscriber slow, dropping event", map[string]any{
						"subscriber": s.id,
						"kind":       string(e.Kind),
						"report_id":  e.ReportID(),
					})
				}
			}
		}
	}
}

// Subscribe registra un suscriptor nuevo. Si el broker ya terminó, C viene cerrado.
func (b *Broker) Subscribe() *Subscription {
	ch := make(chan Event, b.buffer)
	s := &Subscription{id: b.nextID.Add(1), ch: ch, C: ch}
	select {
	case b.register <- s:
	case <-b.done:
		close(ch)
	}
	return s
}

// Unsubscribe es obligatorio al cerrar la conexión. Después de volver, no se
// entregan más eventos por s.C.
func (b *Broker) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	select {
	case b.unregister <- s:
	case <-b.done:
	}
}

// Publish entrega e a todos los suscriptores. Nunca bloquea por un suscriptor lento.
func (b *Broker) Publish(e Event) {
	select {
	case b.broadcast <- e:
	case <-b.done:
	}
}

func drain(ch chan Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
