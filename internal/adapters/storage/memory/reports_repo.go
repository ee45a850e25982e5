package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-reports-map/internal/domain/reports"
)

type reportsRepo struct {
	mu        sync.RWMutex
	missing   map[string]reports.MissingReport
	stray     map[string]reports.StrayReport
	sightings []reports.Sighting
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		missing: make(map[string]reports.MissingReport),
		stray:   make(map[string]reports.StrayReport),
	}
}

func (r *reportsRepo) CreateMissing(ctx context.Context, m reports.MissingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.missing[m.ID]; exists {
		return errors.New("report already exists")
	}
	r.missing[m.ID] = m
	return nil
}

func (r *reportsRepo) UpdateMissing(ctx context.Context, m reports.MissingReport, expect reports.MissingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.missing[m.ID]
	if !exists {
		return reports.ErrRepoNotFound
	}
	if cur.Status != expect {
		return reports.ErrRepoStale
	}
	r.missing[m.ID] = m
	return nil
}

func (r *reportsRepo) GetMissing(ctx context.Context, id string) (reports.MissingReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.missing[id]
	if !ok {
		return reports.MissingReport{}, reports.ErrRepoNotFound
	}
	return m, nil
}

func (r *reportsRepo) GetMissingPublic(ctx context.Context, id string) (reports.MissingReport, error) {
	m, err := r.GetMissing(ctx, id)
	if err != nil {
		return m, err
	}
	return redactMissing(m), nil
}

func (r *reportsRepo) ListMissing(ctx context.Context, f reports.ListFilter) ([]reports.MissingReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.MissingReport, 0)
	for _, m := range r.missing {
		if hasStatus(f.MissingStatuses, m.Status) {
			out = append(out, m)
		}
	}
	// Más nuevos primero, como el mapa
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func (r *reportsRepo) ListMissingPublic(ctx context.Context, f reports.ListFilter) ([]reports.MissingReport, error) {
	items, err := r.ListMissing(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = redactMissing(items[i])
	}
	return items, nil
}

func (r *reportsRepo) CreateStray(ctx context.Context, s reports.StrayReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.stray[s.ID]; exists {
		return errors.New("report already exists")
	}
	r.stray[s.ID] = s
	return nil
}

func (r *reportsRepo) UpdateStray(ctx context.Context, s reports.StrayReport, expect reports.StrayStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.stray[s.ID]
	if !exists {
		return reports.ErrRepoNotFound
	}
	if cur.Status != expect {
		return reports.ErrRepoStale
	}
	r.stray[s.ID] = s
	return nil
}

func (r *reportsRepo) GetStray(ctx context.Context, id string) (reports.StrayReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stray[id]
	if !ok {
		return reports.StrayReport{}, reports.ErrRepoNotFound
	}
	return s, nil
}

func (r *reportsRepo) GetStrayPublic(ctx context.Context, id string) (reports.StrayReport, error) {
	s, err := r.GetStray(ctx, id)
	if err != nil {
		return s, err
	}
	return redactStray(s), nil
}

func (r *reportsRepo) ListStray(ctx context.Context, f reports.ListFilter) ([]reports.StrayReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.StrayReport, 0)
	for _, s := range r.stray {
		if hasStatus(f.StrayStatuses, s.Status) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func (r *reportsRepo) ListStrayPublic(ctx context.Context, f reports.ListFilter) ([]reports.StrayReport, error) {
	items, err := r.ListStray(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = redactStray(items[i])
	}
	return items, nil
}

func (r *reportsRepo) AddSighting(ctx context.Context, s reports.Sighting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.missing[s.ReportID]; !ok {
		return reports.ErrRepoNotFound
	}
	r.sightings = append(r.sightings, s)
	return nil
}

func (r *reportsRepo) ListSightings(ctx context.Context, reportID string) ([]reports.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Sighting, 0)
	for _, s := range r.sightings {
		if s.ReportID == reportID {
			out = append(out, s)
		}
	}
	// Append-only: el orden de inserción desempata
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Las vistas *_map no exponen dueño ni teléfono.
func redactMissing(m reports.MissingReport) reports.MissingReport {
	m.OwnerUserID = ""
	m.ContactPhone = ""
	if m.Resolution != nil {
		res := *m.Resolution
		res.ResolvedBy = ""
		m.Resolution = &res
	}
	return m
}

func redactStray(s reports.StrayReport) reports.StrayReport {
	s.ReporterUserID = ""
	s.ContactPhone = ""
	return s
}

func hasStatus[T comparable](allowed []T, s T) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
