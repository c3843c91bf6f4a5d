package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifecourse/api/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDuplicateDay    = errors.New("day number already exists")
	ErrDuplicateTitle  = errors.New("session with same title already exists")
)

const sessionColumns = `id, day_number, title, type, context_points, media_url, created_at, updated_at`

// mapUniqueViolation translates a unique-constraint violation on the catalog
// table into the matching sentinel. Concurrent writers can both pass the
// friendly pre-check in Create, so the loser's database error must map too.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "course_sessions_day_number_key":
		return ErrDuplicateDay
	case "course_sessions_title_key":
		return ErrDuplicateTitle
	}
	return err
}

// SessionRepository is the course catalog store, ordered by day number.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func scanSession(row pgx.Row) (models.Session, error) {
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.DayNumber,
		&session.Title,
		&session.Type,
		&session.ContextPoints,
		&session.MediaURL,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM course_sessions ORDER BY day_number ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_sessions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM course_sessions WHERE id = $1`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	var clash int
	const check = `
		SELECT CASE
			WHEN EXISTS (SELECT 1 FROM course_sessions WHERE day_number = $1) THEN 1
			WHEN EXISTS (SELECT 1 FROM course_sessions WHERE title = $2) THEN 2
			ELSE 0
		END
	`
	if err := r.pool.QueryRow(ctx, check, session.DayNumber, session.Title).Scan(&clash); err != nil {
		return err
	}
	switch clash {
	case 1:
		return ErrDuplicateDay
	case 2:
		return ErrDuplicateTitle
	}

	const query = `
		INSERT INTO course_sessions (id, day_number, title, type, context_points, media_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.DayNumber,
		session.Title,
		session.Type,
		session.ContextPoints,
		session.MediaURL,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, session models.Session) error {
	const query = `
		UPDATE course_sessions
		SET day_number = $2, title = $3, type = $4, context_points = $5, media_url = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		session.ID,
		session.DayNumber,
		session.Title,
		session.Type,
		session.ContextPoints,
		session.MediaURL,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) SetMediaURL(ctx context.Context, id string, mediaURL string) error {
	const query = `UPDATE course_sessions SET media_url = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, mediaURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM course_sessions WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// BulkInsert seeds the catalog in one round trip; used only by the
// one-time bootstrap against an empty table.
func (r *SessionRepository) BulkInsert(ctx context.Context, sessions []models.Session) error {
	batch := &pgx.Batch{}
	const query = `
		INSERT INTO course_sessions (id, day_number, title, type, context_points, media_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (day_number) DO NOTHING
	`
	for _, session := range sessions {
		batch.Queue(query,
			session.ID,
			session.DayNumber,
			session.Title,
			session.Type,
			session.ContextPoints,
			session.MediaURL,
		)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
