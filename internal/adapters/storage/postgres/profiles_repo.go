package postgres

import (
	"context"
	"time"

	"pet-reports-map/internal/domain/profiles"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var profileColumns = []string{
	"user_id", "display_name", "phone", "declared_role", "sound_enabled", "created_at", "updated_at",
}

type profileRow struct {
	UserID       string    `db:"user_id"`
	DisplayName  string    `db:"display_name"`
	Phone        string    `db:"phone"`
	DeclaredRole string    `db:"declared_role"`
	SoundEnabled bool      `db:"sound_enabled"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type ProfilesRepo struct {
	db Querier
}

func NewProfilesRepo(db Querier) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	q, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return profiles.Profile{}, err
	}
	var row profileRow
	if err := pgxscan.Get(ctx, r.db, &row, q, args...); err != nil {
		return profiles.Profile{}, mapError(err, "profile", userID, profiles.ErrRepoNotFound)
	}
	return profiles.Profile{
		UserID:       row.UserID,
		DisplayName:  row.DisplayName,
		Phone:        row.Phone,
		DeclaredRole: profiles.DeclaredRole(row.DeclaredRole),
		SoundEnabled: row.SoundEnabled,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// Upsert conserva created_at de la fila existente.
func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	q, args, err := psql.Insert("profiles").
		Columns(profileColumns...).
		Values(p.UserID, p.DisplayName, p.Phone, string(p.DeclaredRole), p.SoundEnabled, p.CreatedAt, p.UpdatedAt).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			phone = EXCLUDED.phone,
			declared_role = EXCLUDED.declared_role,
			sound_enabled = EXCLUDED.sound_enabled,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "profile", p.UserID, profiles.ErrRepoNotFound)
}
