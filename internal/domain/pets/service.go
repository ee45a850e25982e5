package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	PhotoURL  string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	species, ok := ParseSpecies(strings.TrimSpace(in.Species))
	if !ok {
		return Pet{}, ErrInvalidInput
	}
	sex, ok := ParseSex(strings.TrimSpace(in.Sex))
	if !ok {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRepoNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UpdateProfileInput: nil = no tocar.
type UpdateProfileInput struct {
	Name     *string
	Species  *string
	Breed    *string
	Sex      *string
	PhotoURL *string
	Notes    *string

	// Present distingue "no enviado" de null (limpiar).
	BirthDatePresent bool
	BirthDate        *time.Time
}

// UpdateProfile solo lo puede hacer el dueño.
func (s *Service) UpdateProfile(ctx context.Context, petID, actorUserID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != actorUserID {
		return Pet{}, ErrForbidden
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Species != nil {
		sp, ok := ParseSpecies(strings.TrimSpace(*in.Species))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Species = sp
	}
	if in.Sex != nil {
		sx, ok := ParseSex(strings.TrimSpace(*in.Sex))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Sex = sx
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.PhotoURL != nil {
		p.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.BirthDatePresent {
		p.BirthDate = in.BirthDate
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrRepoNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}
