package reports

import (
	"context"
	"errors"
)

var (
	// ErrRepoNotFound lo devuelven los adapters de storage cuando no existe la fila.
	ErrRepoNotFound = errors.New("report not found")
	// ErrRepoStale: la fila existe pero su status ya no es el esperado.
	ErrRepoStale = errors.New("report status changed")
)

type ListFilter struct {
	MissingStatuses []MissingStatus
	StrayStatuses   []StrayStatus
	Limit           int
}

// Repository agrupa las tablas missing_reports, stray_reports y missing_report_sightings.
// Los métodos *Public leen de las vistas *_map (sin dueño ni teléfono).
type Repository interface {
	CreateMissing(ctx context.Context, r MissingReport) error
	// UpdateMissing escribe solo si el status guardado sigue siendo expect.
	UpdateMissing(ctx context.Context, r MissingReport, expect MissingStatus) error
	GetMissing(ctx context.Context, id string) (MissingReport, error)
	GetMissingPublic(ctx context.Context, id string) (MissingReport, error)
	ListMissing(ctx context.Context, f ListFilter) ([]MissingReport, error)
	ListMissingPublic(ctx context.Context, f ListFilter) ([]MissingReport, error)

	CreateStray(ctx context.Context, r StrayReport) error
	UpdateStray(ctx context.Context, r StrayReport, expect StrayStatus) error
	GetStray(ctx context.Context, id string) (StrayReport, error)
	GetStrayPublic(ctx context.Context, id string) (StrayReport, error)
	ListStray(ctx context.Context, f ListFilter) ([]StrayReport, error)
	ListStrayPublic(ctx context.Context, f ListFilter) ([]StrayReport, error)

	AddSighting(ctx context.Context, s Sighting) error
	// ListSightings devuelve en orden de creación.
	ListSightings(ctx context.Context, reportID string) ([]Sighting, error)
}
