package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-reports-map/internal/domain/roles"
)

type rolesRepo struct {
	mu   sync.RWMutex
	byID map[string]roles.Assignment
}

func NewRolesRepo() roles.Repository {
	return &rolesRepo{
		byID: make(map[string]roles.Assignment),
	}
}

func (r *rolesRepo) Create(ctx context.Context, a roles.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("assignment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("assignment already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *rolesRepo) Update(ctx context.Context, a roles.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return roles.ErrRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *rolesRepo) GetByID(ctx context.Context, id string) (roles.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return roles.Assignment{}, roles.ErrRepoNotFound
	}
	return a, nil
}

func (r *rolesRepo) ListByUser(ctx context.Context, userID string) ([]roles.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roles.Assignment, 0)
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
