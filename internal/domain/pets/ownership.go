package pets

import (
	"context"

	"pet-reports-map/internal/domain/reports"
)

// PetRef implementa reports.PetLookup (enriquecimiento de reportes de pérdida).
// reports no importa pets para evitar ciclos.
func (s *Service) PetRef(ctx context.Context, petID string) (reports.PetRef, string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return reports.PetRef{}, "", err
	}
	return reports.PetRef{
		ID:       p.ID,
		Name:     p.Name,
		Species:  string(p.Species),
		Breed:    p.Breed,
		PhotoURL: p.PhotoURL,
	}, p.OwnerUserID, nil
}
