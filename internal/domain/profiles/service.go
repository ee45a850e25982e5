package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get nunca devuelve not found: sin fila => perfil por defecto.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRepoNotFound) {
			return Default(userID), nil
		}
		return Profile{}, err
	}
	return p, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	DisplayName  *string
	Phone        *string
	DeclaredRole *string
	SoundEnabled *bool
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if in.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.DeclaredRole != nil {
		r, ok := ParseDeclaredRole(strings.ToLower(strings.TrimSpace(*in.DeclaredRole)))
		if !ok {
			return Profile{}, ErrInvalidInput
		}
		p.DeclaredRole = r
	}
	if in.SoundEnabled != nil {
		p.SoundEnabled = *in.SoundEnabled
	}

	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SoundEnabled implementa reports.Preferences.
func (s *Service) SoundEnabled(ctx context.Context, userID string) (bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return true, err
	}
	return p.SoundEnabled, nil
}

// DeclaredRole lo usa el middleware de auth para completar las claims.
func (s *Service) DeclaredRole(ctx context.Context, userID string) (string, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return string(p.DeclaredRole), nil
}
