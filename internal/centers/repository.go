package centers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centersguide/centersguide/internal/platform/db"
)

const uniqueViolation = "23505"

// Repository persists centers.
type Repository interface {
	List(ctx context.Context, f ListFilters) ([]Center, int, error)
	GetBySlug(ctx context.Context, slug string) (Center, error)
	GetByID(ctx context.Context, id int64) (Center, error)
	Create(ctx context.Context, c Center) (Center, error)
	UpdateProfile(ctx context.Context, c Center) error
	// Delete removes a center and demotes its admins, returning their user ids.
	Delete(ctx context.Context, id int64) ([]int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const centerColumns = `id, slug, name, governorate, area, address, phone, description, subjects, created_at, updated_at`

func (r *repository) List(ctx context.Context, f ListFilters) ([]Center, int, error) {
	var (
		where []string
		args  []any
	)
	if f.Governorate != "" {
		args = append(args, f.Governorate)
		where = append(where, fmt.Sprintf("governorate = $%d", len(args)))
	}
	if f.Subject != "" {
		args = append(args, f.Subject)
		where = append(where, fmt.Sprintf("$%d = ANY(subjects)", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR area ILIKE $%d)", len(args), len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM centers"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY name, id"
	if f.Sort == SortNewest {
		order = " ORDER BY created_at DESC, id DESC"
	}
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
	query := "SELECT " + centerColumns + " FROM centers" + clause + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Center
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Center, error) {
	return r.getOne(ctx, "SELECT "+centerColumns+" FROM centers WHERE slug = $1", slug)
}

func (r *repository) GetByID(ctx context.Context, id int64) (Center, error) {
	return r.getOne(ctx, "SELECT "+centerColumns+" FROM centers WHERE id = $1", id)
}

func (r *repository) getOne(ctx context.Context, query string, arg any) (Center, error) {
	c, err := scanCenter(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return Center{}, ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Center) (Center, error) {
	const query = `INSERT INTO centers (slug, name, governorate, area, address, phone, description, subjects)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, c.Slug, c.Name, c.Governorate, c.Area, c.Address, c.Phone, c.Description, c.Subjects).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return Center{}, ErrSlugTaken
	}
	return c, err
}

func (r *repository) UpdateProfile(ctx context.Context, c Center) error {
	const query = `UPDATE centers
SET name = $2, governorate = $3, area = $4, address = $5, phone = $6, description = $7, subjects = $8, updated_at = NOW()
WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Governorate, c.Area, c.Address, c.Phone, c.Description, c.Subjects)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) ([]int64, error) {
	var demoted []int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `UPDATE user_roles SET role = 'user', center_id = NULL, updated_at = NOW() WHERE center_id = $1 RETURNING user_id`, id)
		if err != nil {
			return err
		}
		demoted, err = pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM centers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return demoted, nil
}

func scanCenter(row pgx.Row) (Center, error) {
	var c Center
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Governorate, &c.Area, &c.Address, &c.Phone, &c.Description, &c.Subjects, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
