package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifecourse/api/internal/models"
)

var ErrReflectionNotFound = errors.New("reflection not found")

const reflectionColumns = `id, user_id, session_id, entries, replies, status, last_updated`

type ReflectionRepository struct {
	pool *pgxpool.Pool
}

func NewReflectionRepository(pool *pgxpool.Pool) *ReflectionRepository {
	return &ReflectionRepository{pool: pool}
}

func scanReflection(row pgx.Row) (models.Reflection, error) {
	var reflection models.Reflection
	if err := row.Scan(
		&reflection.ID,
		&reflection.UserID,
		&reflection.SessionID,
		&reflection.Entries,
		&reflection.Replies,
		&reflection.Status,
		&reflection.LastUpdated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reflection{}, ErrReflectionNotFound
		}
		return models.Reflection{}, err
	}
	return reflection, nil
}

func (r *ReflectionRepository) GetByUserAndSession(ctx context.Context, userID, sessionID string) (models.Reflection, error) {
	query := `SELECT ` + reflectionColumns + ` FROM reflections WHERE user_id = $1 AND session_id = $2`
	return scanReflection(r.pool.QueryRow(ctx, query, userID, sessionID))
}

func (r *ReflectionRepository) GetByID(ctx context.Context, id string) (models.Reflection, error) {
	query := `SELECT ` + reflectionColumns + ` FROM reflections WHERE id = $1`
	return scanReflection(r.pool.QueryRow(ctx, query, id))
}

func (r *ReflectionRepository) Create(ctx context.Context, reflection models.Reflection) error {
	const query = `
		INSERT INTO reflections (id, user_id, session_id, entries, replies, status, last_updated)
		VALUES ($1, $2, $3, COALESCE($4, '[]'::jsonb), COALESCE($5, '[]'::jsonb), $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		reflection.ID,
		reflection.UserID,
		reflection.SessionID,
		reflection.Entries,
		reflection.Replies,
		reflection.Status,
		reflection.LastUpdated,
	)
	return err
}

func (r *ReflectionRepository) Save(ctx context.Context, reflection models.Reflection) error {
	const query = `
		UPDATE reflections
		SET entries = COALESCE($2, '[]'::jsonb),
		    replies = COALESCE($3, '[]'::jsonb),
		    status = $4,
		    last_updated = $5
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		reflection.ID,
		reflection.Entries,
		reflection.Replies,
		reflection.Status,
		reflection.LastUpdated,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReflectionNotFound
	}
	return nil
}

func (r *ReflectionRepository) ListByUser(ctx context.Context, userID string) ([]models.Reflection, error) {
	query := `SELECT ` + reflectionColumns + ` FROM reflections WHERE user_id = $1 ORDER BY last_updated DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reflections []models.Reflection
	for rows.Next() {
		reflection, err := scanReflection(rows)
		if err != nil {
			return nil, err
		}
		reflections = append(reflections, reflection)
	}
	return reflections, rows.Err()
}

// ReflectionOverview joins the author and session identity onto a
// reflection for the coach dashboard.
type ReflectionOverview struct {
	models.Reflection
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail"`
	SessionTitle string `json:"sessionTitle"`
	DayNumber    int    `json:"dayNumber"`
}

func (r *ReflectionRepository) ListAll(ctx context.Context) ([]ReflectionOverview, error) {
	const query = `
		SELECT r.id, r.user_id, r.session_id, r.entries, r.replies, r.status, r.last_updated,
		       u.name, u.email, s.title, s.day_number
		FROM reflections r
		JOIN users u ON u.id = r.user_id
		JOIN course_sessions s ON s.id = r.session_id
		ORDER BY r.last_updated DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []ReflectionOverview
	for rows.Next() {
		var o ReflectionOverview
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.SessionID,
			&o.Entries,
			&o.Replies,
			&o.Status,
			&o.LastUpdated,
			&o.UserName,
			&o.UserEmail,
			&o.SessionTitle,
			&o.DayNumber,
		); err != nil {
			return nil, err
		}
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}
