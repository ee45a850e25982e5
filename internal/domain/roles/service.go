package roles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// bootstrap: usuarios admin por config, para poder otorgar el primer rol.
	bootstrap map[string]struct{}
}

func NewService(repo Repository, bootstrapAdmins ...string) *Service {
	b := make(map[string]struct{}, len(bootstrapAdmins))
	for _, id := range bootstrapAdmins {
		id = strings.TrimSpace(id)
		if id != "" {
			b[id] = struct{}{}
		}
	}
	return &Service{
		repo:      repo,
		now:       time.Now,
		bootstrap: b,
	}
}

// HasRole implementa ports/roles.Checker.
func (s *Service) HasRole(ctx context.Context, userID, role string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}
	r, ok := ParseRole(strings.TrimSpace(role))
	if !ok {
		return false, nil
	}
	if r == RoleAdmin {
		if _, ok := s.bootstrap[userID]; ok {
			return true, nil
		}
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, a := range items {
		if a.Role == r && a.Status == StatusActive {
			return true, nil
		}
	}
	return false, nil
}

type GrantInput struct {
	ActorUserID  string
	TargetUserID string
	Role         string
}

// Grant: solo admin. Si el usuario ya tiene el rol activo devuelve esa asignación.
func (s *Service) Grant(ctx context.Context, in GrantInput) (Assignment, error) {
	actor := strings.TrimSpace(in.ActorUserID)
	target := strings.TrimSpace(in.TargetUserID)
	if actor == "" || target == "" {
		return Assignment{}, ErrInvalidInput
	}
	role, ok := ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return Assignment{}, ErrInvalidInput
	}
	if err := s.requireAdmin(ctx, actor); err != nil {
		return Assignment{}, err
	}

	items, err := s.repo.ListByUser(ctx, target)
	if err != nil {
		return Assignment{}, err
	}
	for _, a := range items {
		if a.Role == role && a.Status == StatusActive {
			return a, nil
		}
	}

	now := s.now()
	a := Assignment{
		ID:        uuid.NewString(),
		UserID:    target,
		Role:      role,
		GrantedBy: actor,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// Revoke: solo admin, idempotente.
func (s *Service) Revoke(ctx context.Context, actorUserID, assignmentID string) (Assignment, error) {
	actorUserID = strings.TrimSpace(actorUserID)
	assignmentID = strings.TrimSpace(assignmentID)
	if actorUserID == "" || assignmentID == "" {
		return Assignment{}, ErrInvalidInput
	}
	if err := s.requireAdmin(ctx, actorUserID); err != nil {
		return Assignment{}, err
	}

	a, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ErrRepoNotFound) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	if a.Status == StatusRevoked {
		return a, nil
	}

	now := s.now()
	a.Status = StatusRevoked
	a.UpdatedAt = now
	a.RevokedAt = &now
	if err := s.repo.Update(ctx, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// ListByUser: el propio usuario o un admin.
func (s *Service) ListByUser(ctx context.Context, actorUserID, userID string) ([]Assignment, error) {
	actorUserID = strings.TrimSpace(actorUserID)
	userID = strings.TrimSpace(userID)
	if actorUserID == "" || userID == "" {
		return nil, ErrInvalidInput
	}
	if actorUserID != userID {
		if err := s.requireAdmin(ctx, actorUserID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	ok, err := s.HasRole(ctx, userID, string(RoleAdmin))
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
