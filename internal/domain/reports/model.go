package reports

import "time"

// Coord es una coordenada WGS84.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coord) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

type MissingStatus string

const (
	MissingActive MissingStatus = "active"
	MissingFound  MissingStatus = "found"
	MissingClosed MissingStatus = "closed"
)

type ResolutionType string

const (
	ResolutionReturnedToOwner ResolutionType = "returned_to_owner"
	ResolutionTakenToClinic   ResolutionType = "taken_to_clinic"
	ResolutionTakenToShelter  ResolutionType = "taken_to_shelter"
)

func (t ResolutionType) Valid() bool {
	switch t {
	case ResolutionReturnedToOwner, ResolutionTakenToClinic, ResolutionTakenToShelter:
		return true
	}
	return false
}

type Resolution struct {
	Type       ResolutionType
	Notes      string
	ResolvedAt time.Time
	ResolvedBy string
}

// PetRef es la info de la mascota con la que se enriquece un reporte de pérdida.
type PetRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// MissingReport es un reporte de mascota perdida.
// OwnerUserID y ContactPhone vienen vacíos cuando se leen desde la vista pública.
type MissingReport struct {
	ID          string
	OwnerUserID string
	PetID       string
	Pet         *PetRef

	LastSeenLocation string
	Coord            *Coord
	LastSeenAt       *time.Time
	Description      string

	Status       MissingStatus
	ContactPhone string
	Resolution   *Resolution

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r MissingReport) Resolved() bool {
	return r.Status == MissingFound || r.Status == MissingClosed
}

type StrayStatus string

const (
	StrayNew        StrayStatus = "new"
	StrayInProgress StrayStatus = "in_progress"
	StrayClosed     StrayStatus = "closed"
)

func (s StrayStatus) Valid() bool {
	switch s {
	case StrayNew, StrayInProgress, StrayClosed:
		return true
	}
	return false
}

type DangerLevel string

const (
	DangerLow    DangerLevel = "low"
	DangerMedium DangerLevel = "medium"
	DangerHigh   DangerLevel = "high"
)

func (d DangerLevel) Valid() bool {
	switch d {
	case DangerLow, DangerMedium, DangerHigh:
		return true
	}
	return false
}

// Rescue es la metadata de rescate en clínica; de facto es la resolución de un callejero.
type Rescue struct {
	TakenToClinic bool
	ClinicName    string
	Notes         string
	RescueDate    *time.Time
}

type StrayReport struct {
	ID             string
	ReporterUserID string

	AnimalType  string
	DangerLevel DangerLevel
	Location    string
	Coord       *Coord
	Description string
	PhotoURL    string

	Status       StrayStatus
	Rescue       Rescue
	ContactPhone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r StrayReport) Resolved() bool {
	return r.Status == StrayClosed || r.Rescue.TakenToClinic
}

// Sighting es un avistamiento posterior de una mascota perdida. Append-only.
type Sighting struct {
	ID           string
	ReportID     string
	Coord        Coord
	LocationText string
	Description  string
	PhotoURL     string
	ReporterID   string
	CreatedAt    time.Time
}

// Stats alimenta los contadores del mapa.
type Stats struct {
	ActiveMissing int `json:"active_missing"`
	FoundMissing  int `json:"found_missing"`
	ClosedMissing int `json:"closed_missing"`
	OpenStray     int `json:"open_stray"`
	ResolvedStray int `json:"resolved_stray"`
}
