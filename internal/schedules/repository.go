package schedules

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists weekly class sessions.
type Repository interface {
	ListByCenter(ctx context.Context, centerID int64) ([]Session, error)
	Create(ctx context.Context, s Session) (Session, error)
	Delete(ctx context.Context, centerID, id int64) error
	TeacherInCenter(ctx context.Context, centerID, teacherID int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCenter(ctx context.Context, centerID int64) ([]Session, error) {
	const query = `SELECT cs.id, cs.center_id, cs.teacher_id, COALESCE(t.name, ''), cs.subject, cs.grade, cs.weekday, cs.start_minute, cs.duration_minutes
FROM class_sessions cs
LEFT JOIN teachers t ON t.id = cs.teacher_id
WHERE cs.center_id = $1
ORDER BY cs.weekday, cs.start_minute`
	rows, err := r.db.Query(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s       Session
			teacher pgtype.Int8
			weekday int16
		)
		if err := rows.Scan(&s.ID, &s.CenterID, &teacher, &s.TeacherName, &s.Subject, &s.Grade, &weekday, &s.StartMinute, &s.DurationMinutes); err != nil {
			return nil, err
		}
		if teacher.Valid {
			id := teacher.Int64
			s.TeacherID = &id
		}
		s.Weekday = time.Weekday(weekday)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *repository) Create(ctx context.Context, s Session) (Session, error) {
	const query = `INSERT INTO class_sessions (center_id, teacher_id, subject, grade, weekday, start_minute, duration_minutes)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	teacher := pgtype.Int8{}
	if s.TeacherID != nil {
		teacher = pgtype.Int8{Int64: *s.TeacherID, Valid: true}
	}
	err := r.db.QueryRow(ctx, query, s.CenterID, teacher, s.Subject, s.Grade, int16(s.Weekday), s.StartMinute, s.DurationMinutes).Scan(&s.ID)
	return s, err
}

func (r *repository) Delete(ctx context.Context, centerID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_sessions WHERE id = $1 AND center_id = $2`, id, centerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) TeacherInCenter(ctx context.Context, centerID, teacherID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1 AND center_id = $2)`, teacherID, centerID).Scan(&ok)
	return ok, err
}
