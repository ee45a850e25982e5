package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-reports-map/internal/domain/pets"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var petColumns = []string{
	"id", "owner_user_id", "name", "species", "breed", "sex",
	"birth_date", "photo_url", "notes", "created_at", "updated_at",
}

type petRow struct {
	ID          string     `db:"id"`
	OwnerUserID string     `db:"owner_user_id"`
	Name        string     `db:"name"`
	Species     string     `db:"species"`
	Breed       string     `db:"breed"`
	Sex         string     `db:"sex"`
	BirthDate   *time.Time `db:"birth_date"` // date; pgx lo trae como medianoche UTC
	PhotoURL    string     `db:"photo_url"`
	Notes       string     `db:"notes"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type PetsRepo struct {
	db Querier
}

func NewPetsRepo(db Querier) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	q, args, err := psql.Insert("pets").
		Columns(petColumns...).
		Values(
			p.ID, p.OwnerUserID, p.Name, string(p.Species), p.Breed, string(p.Sex),
			p.BirthDate, p.PhotoURL, p.Notes, p.CreatedAt, p.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "pet", p.ID, pets.ErrRepoNotFound)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	q, args, err := psql.Update("pets").
		SetMap(map[string]any{
			"name":       p.Name,
			"species":    string(p.Species),
			"breed":      p.Breed,
			"sex":        string(p.Sex),
			"birth_date": p.BirthDate,
			"photo_url":  p.PhotoURL,
			"notes":      p.Notes,
			"updated_at": p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err, "pet", p.ID, pets.ErrRepoNotFound)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pet %s: %w", p.ID, pets.ErrRepoNotFound)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrRepoNotFound
	}

	q, args, err := psql.Select(petColumns...).From("pets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return pets.Pet{}, err
	}
	var row petRow
	if err := pgxscan.Get(ctx, r.db, &row, q, args...); err != nil {
		return pets.Pet{}, mapError(err, "pet", id, pets.ErrRepoNotFound)
	}
	return row.toDomain(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	q, args, err := psql.Select(petColumns...).
		From("pets").
		Where(sq.Eq{"owner_user_id": ownerUserID}).
		OrderBy("created_at ASC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []petRow
	if err := pgxscan.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}

	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row petRow) toDomain() pets.Pet {
	return pets.Pet{
		ID:          row.ID,
		OwnerUserID: row.OwnerUserID,
		Name:        row.Name,
		Species:     pets.Species(row.Species),
		Breed:       row.Breed,
		Sex:         pets.Sex(row.Sex),
		BirthDate:   row.BirthDate,
		PhotoURL:    row.PhotoURL,
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
