package teachers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists teachers per center.
type Repository interface {
	ListByCenter(ctx context.Context, centerID int64) ([]Teacher, error)
	Create(ctx context.Context, t Teacher) (Teacher, error)
	Delete(ctx context.Context, centerID, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCenter(ctx context.Context, centerID int64) ([]Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT id, center_id, name, subjects, bio, phone FROM teachers WHERE center_id = $1 ORDER BY name`, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.CenterID, &t.Name, &t.Subjects, &t.Bio, &t.Phone); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Teacher) (Teacher, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO teachers (center_id, name, subjects, bio, phone) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.CenterID, t.Name, t.Subjects, t.Bio, t.Phone).Scan(&t.ID)
	return t, err
}

// Delete removes a teacher; sessions taught by them keep running without a named teacher.
func (r *repository) Delete(ctx context.Context, centerID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1 AND center_id = $2`, id, centerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
