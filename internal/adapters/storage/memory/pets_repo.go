package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"pet-reports-map/internal/domain/pets"
)

// petRepo indexa por dueño: el formulario de reporte lista "mis mascotas"
// y el ingestor resuelve PetRef por ID en cada insert.
type petRepo struct {
	mu      sync.RWMutex
	byID    map[string]pets.Pet
	byOwner map[string][]string
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:    make(map[string]pets.Pet),
		byOwner: make(map[string][]string),
	}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	r.byOwner[p.OwnerUserID] = append(r.byOwner[p.OwnerUserID], p.ID)
	return nil
}

// Update no permite cambiar de dueño.
func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrRepoNotFound
	}
	p.OwnerUserID = prev.OwnerUserID
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrRepoNotFound
	}
	return p, nil
}

// ListByOwner: created_at ASC, id (igual que Postgres).
func (r *petRepo) ListByOwner(_ context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	ids := r.byOwner[ownerUserID]
	out := make([]pets.Pet, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b pets.Pet) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
