package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for role records.
type Repository interface {
	Lookup(ctx context.Context, userID int64) (Assignment, error)
	List(ctx context.Context) ([]Assignment, error)
	UserIDByEmail(ctx context.Context, email string) (int64, error)
	Upsert(ctx context.Context, a Assignment) error
	Delete(ctx context.Context, userID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Lookup returns the role record of a user.
func (r *PGRepository) Lookup(ctx context.Context, userID int64) (Assignment, error) {
	const query = `SELECT ur.user_id, u.email, u.display_name, ur.role, ur.center_id, COALESCE(c.name, ''), ur.updated_at
FROM user_roles ur
JOIN users u ON u.id = ur.user_id
LEFT JOIN centers c ON c.id = ur.center_id
WHERE ur.user_id = $1`
	a, err := scanAssignment(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	return a, nil
}

// List returns every role record ordered by email.
func (r *PGRepository) List(ctx context.Context) ([]Assignment, error) {
	const query = `SELECT ur.user_id, u.email, u.display_name, ur.role, ur.center_id, COALESCE(c.name, ''), ur.updated_at
FROM user_roles ur
JOIN users u ON u.id = ur.user_id
LEFT JOIN centers c ON c.id = ur.center_id
ORDER BY u.email`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UserIDByEmail resolves a user id from an email address.
func (r *PGRepository) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE lower(email) = $1`, strings.ToLower(strings.TrimSpace(email))).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// Upsert stores or replaces the role record of a user.
func (r *PGRepository) Upsert(ctx context.Context, a Assignment) error {
	const query = `INSERT INTO user_roles (user_id, role, center_id, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, center_id = EXCLUDED.center_id, updated_at = now()`
	center := pgtype.Int8{}
	if a.CenterID != nil {
		center = pgtype.Int8{Int64: *a.CenterID, Valid: true}
	}
	_, err := r.pool.Exec(ctx, query, a.UserID, string(a.Role), center)
	return err
}

// Delete removes the role record of a user.
func (r *PGRepository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAssignment(row pgx.Row) (Assignment, error) {
	var (
		a       Assignment
		role    string
		center  pgtype.Int8
		updated pgtype.Timestamptz
	)
	if err := row.Scan(&a.UserID, &a.Email, &a.DisplayName, &role, &center, &a.CenterName, &updated); err != nil {
		return Assignment{}, err
	}
	a.Role = Role(role)
	if center.Valid {
		id := center.Int64
		a.CenterID = &id
	}
	a.UpdatedAt = updated.Time
	return a, nil
}

var _ Repository = (*PGRepository)(nil)
