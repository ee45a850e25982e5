package postgres

import (
	"context"
	"fmt"
	"time"

	"pet-reports-map/internal/domain/roles"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var roleColumns = []string{
	"id", "user_id", "role", "granted_by", "status", "created_at", "updated_at", "revoked_at",
}

type roleRow struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Role      string     `db:"role"`
	GrantedBy string     `db:"granted_by"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

type RolesRepo struct {
	db Querier
}

func NewRolesRepo(db Querier) *RolesRepo {
	return &RolesRepo{db: db}
}

func (r *RolesRepo) Create(ctx context.Context, a roles.Assignment) error {
	q, args, err := psql.Insert("user_roles").
		Columns(roleColumns...).
		Values(a.ID, a.UserID, string(a.Role), a.GrantedBy, string(a.Status), a.CreatedAt, a.UpdatedAt, a.RevokedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "role assignment", a.ID, roles.ErrRepoNotFound)
}

func (r *RolesRepo) Update(ctx context.Context, a roles.Assignment) error {
	q, args, err := psql.Update("user_roles").
		Set("status", string(a.Status)).
		Set("updated_at", a.UpdatedAt).
		Set("revoked_at", a.RevokedAt).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err, "role assignment", a.ID, roles.ErrRepoNotFound)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role assignment %s: %w", a.ID, roles.ErrRepoNotFound)
	}
	return nil
}

func (r *RolesRepo) GetByID(ctx context.Context, id string) (roles.Assignment, error) {
	q, args, err := psql.Select(roleColumns...).From("user_roles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return roles.Assignment{}, err
	}
	var row roleRow
	if err := pgxscan.Get(ctx, r.db, &row, q, args...); err != nil {
		return roles.Assignment{}, mapError(err, "role assignment", id, roles.ErrRepoNotFound)
	}
	return row.toDomain(), nil
}

func (r *RolesRepo) ListByUser(ctx context.Context, userID string) ([]roles.Assignment, error) {
	q, args, err := psql.Select(roleColumns...).
		From("user_roles").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []roleRow
	if err := pgxscan.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]roles.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// HasRole llama a la función SQL has_role; es el mismo contrato que el RPC del BaaS.
func (r *RolesRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT has_role($1::uuid, $2)`, userID, role).Scan(&ok); err != nil {
		return false, fmt.Errorf("has_role: %w", err)
	}
	return ok, nil
}

func (row roleRow) toDomain() roles.Assignment {
	return roles.Assignment{
		ID:        row.ID,
		UserID:    row.UserID,
		Role:      roles.Role(row.Role),
		GrantedBy: row.GrantedBy,
		Status:    roles.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		RevokedAt: row.RevokedAt,
	}
}
