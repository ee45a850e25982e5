package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-reports-map/internal/domain/reports"
)

const (
	TableMissing   = "missing_reports"
	TableStray     = "stray_reports"
	TableSightings = "missing_report_sightings"
)

// ErrMalformed envuelve todo payload que no pasa la validación.
var ErrMalformed = errors.New("malformed realtime event")

type Kind string

const (
	KindMissingInserted  Kind = "missing_inserted"
	KindStrayInserted    Kind = "stray_inserted"
	KindSightingInserted Kind = "sighting_inserted"
)

// Event es una variante etiquetada: según Kind, exactamente uno de
// Missing/Stray/Sighting es no-nil.
type Event struct {
	Kind       Kind
	Missing    *reports.MissingReport
	Stray      *reports.StrayReport
	Sighting   *reports.Sighting
	ReceivedAt time.Time
}

// ReportID devuelve el id del reporte afectado (para sightings, el padre).
func (e Event) ReportID() string {
	switch e.Kind {
	case KindMissingInserted:
		return e.Missing.ID
	case KindStrayInserted:
		return e.Stray.ID
	case KindSightingInserted:
		return e.Sighting.ReportID
	}
	return ""
}

func MissingEvent(r reports.MissingReport) Event {
	return Event{Kind: KindMissingInserted, Missing: &r}
}

func StrayEvent(r reports.StrayReport) Event {
	return Event{Kind: KindStrayInserted, Stray: &r}
}

func SightingEvent(s reports.Sighting) Event {
	return Event{Kind: KindSightingInserted, Sighting: &s}
}

// envelope es lo que emiten los triggers con pg_notify.
type envelope struct {
	Table  string          `json:"table"`
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

type missingRow struct {
	ID               string     `json:"id"`
	OwnerUserID      string     `json:"owner_user_id"`
	PetID            string     `json:"pet_id"`
	LastSeenLocation string     `json:"last_seen_location"`
	Lat              *float64   `json:"lat"`
	Lon              *float64   `json:"lon"`
	LastSeenAt       *time.Time `json:"last_seen_at"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	ContactPhone     string     `json:"contact_phone"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type strayRow struct {
	ID             string     `json:"id"`
	ReporterUserID string     `json:"reporter_user_id"`
	AnimalType     string     `json:"animal_type"`
	DangerLevel    string     `json:"danger_level"`
	Location       string     `json:"location"`
	Lat            *float64   `json:"lat"`
	Lon            *float64   `json:"lon"`
	Description    string     `json:"description"`
	PhotoURL       string     `json:"photo_url"`
	Status         string     `json:"status"`
	TakenToClinic  bool       `json:"taken_to_clinic"`
	ClinicName     string     `json:"clinic_name"`
	RescueNotes    string     `json:"rescue_notes"`
	RescueDate     *time.Time `json:"rescue_date"`
	ContactPhone   string     `json:"contact_phone"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type sightingRow struct {
	ID           string    `json:"id"`
	ReportID     string    `json:"report_id"`
	Lat          *float64  `json:"lat"`
	Lon          *float64  `json:"lon"`
	LocationText string    `json:"location_text"`
	Description  string    `json:"description"`
	PhotoURL     string    `json:"photo_url"`
	ReporterID   string    `json:"reporter_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ParseEvent valida el payload crudo del canal y lo convierte en Event.
// Cualquier forma inesperada devuelve un error que envuelve ErrMalformed.
func ParseEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !strings.EqualFold(env.Type, "INSERT") {
		return Event{}, fmt.Errorf("%w: unsupported type %q", ErrMalformed, env.Type)
	}
	if len(env.Record) == 0 || string(env.Record) == "null" {
		return Event{}, fmt.Errorf("%w: empty record", ErrMalformed)
	}

	switch env.Table {
	case TableMissing:
		return parseMissing(env.Record)
	case TableStray:
		return parseStray(env.Record)
	case TableSightings:
		return parseSighting(env.Record)
	default:
		return Event{}, fmt.Errorf("%w: unknown table %q", ErrMalformed, env.Table)
	}
}

func parseMissing(rec json.RawMessage) (Event, error) {
	var row missingRow
	if err := json.Unmarshal(rec, &row); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableMissing, err)
	}
	if strings.TrimSpace(row.ID) == "" {
		return Event{}, fmt.Errorf("%w: %s: missing id", ErrMalformed, TableMissing)
	}
	status := reports.MissingStatus(row.Status)
	switch status {
	case reports.MissingActive, reports.MissingFound, reports.MissingClosed:
	case "":
		status = reports.MissingActive
	default:
		return Event{}, fmt.Errorf("%w: %s: bad status %q", ErrMalformed, TableMissing, row.Status)
	}
	coord, err := optionalCoord(row.Lat, row.Lon)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableMissing, err)
	}

	return MissingEvent(reports.MissingReport{
		ID:               row.ID,
		OwnerUserID:      row.OwnerUserID,
		PetID:            row.PetID,
		LastSeenLocation: row.LastSeenLocation,
		Coord:            coord,
		LastSeenAt:       row.LastSeenAt,
		Description:      row.Description,
		Status:           status,
		ContactPhone:     row.ContactPhone,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}), nil
}

func parseStray(rec json.RawMessage) (Event, error) {
	var row strayRow
	if err := json.Unmarshal(rec, &row); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableStray, err)
	}
	if strings.TrimSpace(row.ID) == "" {
		return Event{}, fmt.Errorf("%w: %s: missing id", ErrMalformed, TableStray)
	}
	status := reports.StrayStatus(row.Status)
	if status == "" {
		status = reports.StrayNew
	}
	if !status.Valid() {
		return Event{}, fmt.Errorf("%w: %s: bad status %q", ErrMalformed, TableStray, row.Status)
	}
	danger := reports.DangerLevel(row.DangerLevel)
	if danger == "" {
		danger = reports.DangerLow
	}
	if !danger.Valid() {
		return Event{}, fmt.Errorf("%w: %s: bad danger_level %q", ErrMalformed, TableStray, row.DangerLevel)
	}
	coord, err := optionalCoord(row.Lat, row.Lon)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableStray, err)
	}

	return StrayEvent(reports.StrayReport{
		ID:             row.ID,
		ReporterUserID: row.ReporterUserID,
		AnimalType:     row.AnimalType,
		DangerLevel:    danger,
		Location:       row.Location,
		Coord:          coord,
		Description:    row.Description,
		PhotoURL:       row.PhotoURL,
		Status:         status,
		Rescue: reports.Rescue{
			TakenToClinic: row.TakenToClinic,
			ClinicName:    row.ClinicName,
			Notes:         row.RescueNotes,
			RescueDate:    row.RescueDate,
		},
		ContactPhone: row.ContactPhone,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}), nil
}

func parseSighting(rec json.RawMessage) (Event, error) {
	var row sightingRow
	if err := json.Unmarshal(rec, &row); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableSightings, err)
	}
	if strings.TrimSpace(row.ID) == "" || strings.TrimSpace(row.ReportID) == "" {
		return Event{}, fmt.Errorf("%w: %s: missing id/report_id", ErrMalformed, TableSightings)
	}
	coord, err := optionalCoord(row.Lat, row.Lon)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", ErrMalformed, TableSightings, err)
	}
	if coord == nil {
		return Event{}, fmt.Errorf("%w: %s: coordinates required", ErrMalformed, TableSightings)
	}

	return SightingEvent(reports.Sighting{
		ID:           row.ID,
		ReportID:     row.ReportID,
		Coord:        *coord,
		LocationText: row.LocationText,
		Description:  row.Description,
		PhotoURL:     row.PhotoURL,
		ReporterID:   row.ReporterID,
		CreatedAt:    row.CreatedAt,
	}), nil
}

func optionalCoord(lat, lon *float64) (*reports.Coord, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, errors.New("lat/lon must come together")
	}
	c := reports.Coord{Lat: *lat, Lon: *lon}
	if !c.Valid() {
		return nil, errors.New("coordinates out of range")
	}
	return &c, nil
}
