package realtime

import (
	"context"
	"time"

	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/platform/logger"
)

// Ingestor recibe INSERTs (crudos desde el listener o ya tipados desde el
// servicio), los enriquece y los publica en el broker.
type Ingestor struct {
	broker *Broker
	pets   reports.PetLookup
	log    logger.Logger
	now    func() time.Time
}

func NewIngestor(b *Broker, pets reports.PetLookup, log logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Nop()
	}
	return &Ingestor{broker: b, pets: pets, log: log, now: time.Now}
}

// HandleRaw parsea y publica. Los payloads malformados se descartan con log.
func (in *Ingestor) HandleRaw(ctx context.Context, payload []byte) error {
	e, err := ParseEvent(payload)
	if err != nil {
		in.log.Warn("realtime payload rejected", map[string]any{
			"err":   err,
			"bytes": len(payload),
		})
		return err
	}
	in.Handle(ctx, e)
	return nil
}

// Handle enriquece, redacta y publica un evento ya validado.
func (in *Ingestor) Handle(ctx context.Context, e Event) {
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = in.now()
	}

	switch e.Kind {
	case KindMissingInserted:
		r := *e.Missing
		if r.Pet == nil && r.PetID != "" && in.pets != nil {
			ref, _, err := in.pets.PetRef(ctx, r.PetID)
			if err != nil {
				// Se publica igual, sin mascota
				in.log.Debug("realtime pet enrichment failed", map[string]any{"pet_id": r.PetID, "err": err})
			} else {
				r.Pet = &ref
			}
		}
		// El canal llega a invitados: nada de dueño ni teléfono
		r.OwnerUserID = ""
		r.ContactPhone = ""
		e.Missing = &r

	case KindStrayInserted:
		r := *e.Stray
		r.ReporterUserID = ""
		r.ContactPhone = ""
		e.Stray = &r

	case KindSightingInserted:
		s := *e.Sighting
		s.ReporterID = ""
		e.Sighting = &s

	default:
		in.log.Warn("realtime event with unknown kind", map[string]any{"kind": string(e.Kind)})
		return
	}

	in.broker.Publish(e)
}

// Publisher en modo sin Postgres (no hay triggers que notifiquen).

func (in *Ingestor) MissingInserted(ctx context.Context, r reports.MissingReport) {
	in.Handle(ctx, MissingEvent(r))
}

func (in *Ingestor) StrayInserted(ctx context.Context, r reports.StrayReport) {
	in.Handle(ctx, StrayEvent(r))
}

func (in *Ingestor) SightingInserted(ctx context.Context, s reports.Sighting) {
	in.Handle(ctx, SightingEvent(s))
}
