package roles

import (
	"context"
	"errors"
)

// ErrRepoNotFound lo devuelven los adapters cuando no hay fila.
var ErrRepoNotFound = errors.New("role assignment not found")

type Repository interface {
	Create(ctx context.Context, a Assignment) error
	Update(ctx context.Context, a Assignment) error
	GetByID(ctx context.Context, id string) (Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]Assignment, error)
}
