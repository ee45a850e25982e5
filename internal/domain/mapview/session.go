package mapview

import (
	"context"
	"strings"

	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/domain/visibility"
	"pet-reports-map/internal/platform/logger"
)

// Loader es lo que la sesión necesita del servicio de reportes.
type Loader interface {
	ListForMap(ctx context.Context, v visibility.Viewer, q reports.MapQuery) (reports.MapCollection, error)
	TrackingPath(ctx context.Context, v visibility.Viewer, reportID string) (reports.Track, error)
}

// Addresser traduce la posición del usuario a texto. Nunca falla.
type Addresser interface {
	Address(ctx context.Context, lat, lon float64) string
}

// Tipos de mensaje servidor -> cliente.
const (
	MsgSnapshot       = "snapshot"
	MsgMarkersAdded   = "markers.added"
	MsgMarkersRemoved = "markers.removed"
	MsgMarkersUpdated = "markers.updated"
	MsgSelection      = "selection"
	MsgOverlay        = "overlay"
	MsgUserLocation   = "user_location"
	MsgNotification   = "notification"
	MsgError          = "error"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification lleva una key estable; la traducción es del cliente.
type Notification struct {
	Key      string `json:"key"`
	Level    Level  `json:"level"`
	Sound    bool   `json:"sound"`
	Kind     Kind   `json:"kind,omitempty"`
	ReportID string `json:"report_id,omitempty"`
}

const (
	NoteNewMissing          = "new_missing_report"
	NoteNewStray            = "new_stray_report"
	NoteNewSighting         = "new_sighting"
	NoteLoadFailed          = "reports_load_failed"
	NoteTrackingUnavailable = "tracking_unavailable"
)

type GeoFailure string

const (
	GeoPermissionDenied    GeoFailure = "permission_denied"
	GeoPositionUnavailable GeoFailure = "position_unavailable"
	GeoTimeout             GeoFailure = "timeout"
)

func (g GeoFailure) NoteKey() string { return "geolocation." + string(g) }

type Selection struct {
	Kind     Kind   `json:"kind"`
	ReportID string `json:"report_id"`
}

type UserLocation struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Address  string  `json:"address"`
}

// LocateResult es lo que reporta el dispositivo: una posición o una falla.
type LocateResult struct {
	Coord    *reports.Coord
	Accuracy float64
	Failure  GeoFailure
}

type snapshotPayload struct {
	Filter          Filter   `json:"filter"`
	IncludeResolved bool     `json:"include_resolved"`
	Markers         []Marker `json:"markers"`
}

// Session es el estado del mapa de una conexión. No es segura para uso
// concurrente: la usa una sola goroutine.
type Session struct {
	viewer visibility.Viewer
	loader Loader
	addr   Addresser
	log    logger.Logger
	sound  bool

	filter          Filter
	includeResolved bool
	col             *Collection
	markers         *MarkerSet
	selected        *Selection
	overlay         Overlay
	me              *UserLocation
}

func NewSession(v visibility.Viewer, loader Loader, addr Addresser, sound bool, log logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	s := &Session{
		viewer:  v,
		loader:  loader,
		addr:    addr,
		log:     log,
		sound:   sound,
		filter:  DefaultFilter(),
		col:     NewCollection(reports.MapCollection{}),
		markers: NewMarkerSet(),
	}
	s.overlay.SetVisible(true)
	return s
}

// Load trae la colección completa. Si falla, el estado previo queda intacto.
func (s *Session) Load(ctx context.Context) []Message {
	mc, err := s.loader.ListForMap(ctx, s.viewer, reports.MapQuery{IncludeResolved: s.includeResolved})
	if err != nil {
		s.log.Warn("map load failed", map[string]any{"user_id": s.viewer.UserID, "err": err})
		return []Message{s.note(NoteLoadFailed, LevelWarning, false, "", "")}
	}
	s.col.Replace(mc)
	s.markers.Reconcile(s.col.Markers(s.filter))
	return []Message{s.snapshot()}
}

func (s *Session) SetIncludeResolved(ctx context.Context, on bool) []Message {
	if s.includeResolved == on {
		return nil
	}
	prev := s.includeResolved
	s.includeResolved = on
	msgs := s.Load(ctx)
	if len(msgs) == 1 && msgs[0].Type == MsgNotification {
		s.includeResolved = prev
	}
	return msgs
}

func (s *Session) SetFilter(f Filter) []Message {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	f.Region = strings.TrimSpace(f.Region)
	if f.Region == "" {
		f.Region = RegionAll
	}
	s.filter = f
	return s.reconcile()
}

// Select cambia el reporte seleccionado. Cambiar de reporte limpia el rastro anterior.
func (s *Session) Select(ctx context.Context, k Kind, id string) []Message {
	// Misma selección: solo reintenta si el rastro no llegó a cargarse
	if s.selected != nil && s.selected.Kind == k && s.selected.ReportID == id &&
		(k == KindStray || s.overlay.ReportID() == id) {
		return []Message{s.selectionMsg(), s.overlayMsg()}
	}

	var (
		missing reports.MissingReport
		found   bool
	)
	switch k {
	case KindMissing:
		missing, found = s.col.FindMissing(id)
	case KindStray:
		_, found = s.col.FindStray(id)
	}
	if !found {
		return errorMsg("unknown_report")
	}

	s.overlay.Clear()
	s.selected = &Selection{Kind: k, ReportID: id}
	msgs := []Message{s.selectionMsg()}

	if k == KindMissing {
		t, err := s.loader.TrackingPath(ctx, s.viewer, id)
		if err != nil {
			s.log.Warn("tracking path load failed", map[string]any{"report_id": id, "err": err})
			msgs = append(msgs, s.note(NoteTrackingUnavailable, LevelWarning, false, KindMissing, id))
		} else {
			s.overlay.Load(missing, t)
		}
	}
	return append(msgs, s.overlayMsg())
}

func (s *Session) ClearSelection() []Message {
	s.selected = nil
	s.overlay.Clear()
	return []Message{s.selectionMsg(), s.overlayMsg()}
}

// SetTracking prende/apaga el rastro sin perder los avistamientos cargados.
func (s *Session) SetTracking(on bool) []Message {
	s.overlay.SetVisible(on)
	return []Message{s.overlayMsg()}
}

func (s *Session) SetSound(on bool) { s.sound = on }

// Locate aplica el resultado de geolocalización. Las fallas solo avisan.
func (s *Session) Locate(ctx context.Context, res LocateResult) []Message {
	if res.Failure != "" || res.Coord == nil {
		f := res.Failure
		switch f {
		case GeoPermissionDenied, GeoPositionUnavailable, GeoTimeout:
		default:
			f = GeoPositionUnavailable
		}
		return []Message{s.note(f.NoteKey(), LevelWarning, false, "", "")}
	}
	if !res.Coord.Valid() {
		return errorMsg("invalid_coordinates")
	}

	loc := UserLocation{Lat: res.Coord.Lat, Lon: res.Coord.Lon, Accuracy: res.Accuracy}
	if s.addr != nil {
		loc.Address = s.addr.Address(ctx, loc.Lat, loc.Lon)
	}
	// Un solo marcador: se pisa
	s.me = &loc
	return []Message{{Type: MsgUserLocation, Payload: loc}}
}

// Ingest aplica un INSERT del canal realtime. Repetidos no duplican ni notifican.
func (s *Session) Ingest(e realtime.Event) []Message {
	switch e.Kind {
	case realtime.KindMissingInserted:
		if e.Missing.Resolved() && !s.includeResolved {
			return nil
		}
		added := s.col.MergeMissing(*e.Missing)
		msgs := s.reconcile()
		if added {
			msgs = append(msgs, s.note(NoteNewMissing, LevelInfo, s.sound, KindMissing, e.Missing.ID))
		}
		return msgs

	case realtime.KindStrayInserted:
		if e.Stray.Resolved() && !s.includeResolved {
			return nil
		}
		added := s.col.MergeStray(*e.Stray)
		msgs := s.reconcile()
		if added {
			msgs = append(msgs, s.note(NoteNewStray, LevelInfo, s.sound, KindStray, e.Stray.ID))
		}
		return msgs

	case realtime.KindSightingInserted:
		if !s.overlay.MergeSighting(*e.Sighting) {
			return nil
		}
		return []Message{
			s.overlayMsg(),
			s.note(NoteNewSighting, LevelInfo, s.sound, KindMissing, e.Sighting.ReportID),
		}
	}
	return nil
}

// -------------------------
// Estado (lectura)
// -------------------------

func (s *Session) Filter() Filter              { return s.filter }
func (s *Session) Markers() []Marker           { return s.markers.Markers() }
func (s *Session) Overlay() OverlayView        { return s.overlay.View() }
func (s *Session) UserLocation() *UserLocation { return s.me }
func (s *Session) Selected() *Selection        { return s.selected }
func (s *Session) Collection() *Collection     { return s.col }

// -------------------------
// helpers
// -------------------------

func (s *Session) reconcile() []Message {
	d := s.markers.Reconcile(s.col.Markers(s.filter))
	var msgs []Message
	if len(d.Removed) > 0 {
		msgs = append(msgs, Message{Type: MsgMarkersRemoved, Payload: d.Removed})
	}
	if len(d.Added) > 0 {
		msgs = append(msgs, Message{Type: MsgMarkersAdded, Payload: d.Added})
	}
	if len(d.Updated) > 0 {
		msgs = append(msgs, Message{Type: MsgMarkersUpdated, Payload: d.Updated})
	}
	return msgs
}

func (s *Session) snapshot() Message {
	return Message{Type: MsgSnapshot, Payload: snapshotPayload{
		Filter:          s.filter,
		IncludeResolved: s.includeResolved,
		Markers:         s.markers.Markers(),
	}}
}

func (s *Session) selectionMsg() Message {
	if s.selected == nil {
		return Message{Type: MsgSelection, Payload: nil}
	}
	return Message{Type: MsgSelection, Payload: *s.selected}
}

func (s *Session) overlayMsg() Message {
	return Message{Type: MsgOverlay, Payload: s.overlay.View()}
}

func (s *Session) note(key string, lvl Level, sound bool, k Kind, reportID string) Message {
	return Message{Type: MsgNotification, Payload: Notification{
		Key:      key,
		Level:    lvl,
		Sound:    sound,
		Kind:     k,
		ReportID: reportID,
	}}
}
