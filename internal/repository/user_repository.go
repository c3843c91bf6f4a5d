package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifecourse/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrVersionConflict means the row changed between read and save;
	// the caller should reload and retry.
	ErrVersionConflict = errors.New("user modified concurrently")
)

const userColumns = `
	id, name, email, phone, password_hash, profile_picture, role, has_paid,
	completed_sessions, special_access, access_requests, notifications,
	version, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.ProfilePicture,
		&user.Role,
		&user.HasPaid,
		&user.CompletedSessions,
		&user.SpecialAccess,
		&user.AccessRequests,
		&user.Notifications,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, phone, password_hash, profile_picture, role, has_paid,
			completed_sessions, special_access, access_requests, notifications,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			COALESCE($9, '[]'::jsonb), COALESCE($10, '[]'::jsonb),
			COALESCE($11, '[]'::jsonb), COALESCE($12, '[]'::jsonb),
			0, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.ProfilePicture,
		user.Role,
		user.HasPaid,
		user.CompletedSessions,
		user.SpecialAccess,
		user.AccessRequests,
		user.Notifications,
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// List returns every user except excludeID, newest first.
func (r *UserRepository) List(ctx context.Context, excludeID string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id <> $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Save rewrites columns that the statements below also touch, guarded
// only by its version check. Every other UPDATE on one of those columns
// must therefore advance the version too, or an in-flight Save made
// against the older read would silently write the stale value back.
const saveUserSQL = `
	UPDATE users SET
		name = $2,
		phone = $3,
		profile_picture = $4,
		role = $5,
		has_paid = $6,
		completed_sessions = COALESCE($7, '[]'::jsonb),
		special_access = COALESCE($8, '[]'::jsonb),
		access_requests = COALESCE($9, '[]'::jsonb),
		notifications = COALESCE($10, '[]'::jsonb),
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $11
`

const updateRoleSQL = `
	UPDATE users SET role = $2, version = version + 1, updated_at = NOW() WHERE id = $1
`

const setHasPaidSQL = `
	UPDATE users SET has_paid = TRUE, version = version + 1, updated_at = NOW() WHERE id = $1
`

const markCompletedSQL = `
	UPDATE users
	SET completed_sessions = completed_sessions || to_jsonb($2::text),
	    version = version + 1,
	    updated_at = NOW()
	WHERE id = $1
	  AND jsonb_typeof(completed_sessions) = 'array'
	  AND NOT completed_sessions ? $2
`

const repairCompletedSQL = `
	UPDATE users
	SET completed_sessions = jsonb_build_array($2::text),
	    version = version + 1,
	    updated_at = NOW()
	WHERE id = $1
`

// Save writes the user's mutable fields in one statement, guarded by the
// version the caller read. The access-control sub-collections therefore
// commit together or not at all.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	cmd, err := r.pool.Exec(ctx, saveUserSQL,
		user.ID,
		user.Name,
		user.Phone,
		user.ProfilePicture,
		user.Role,
		user.HasPaid,
		user.CompletedSessions,
		user.SpecialAccess,
		user.AccessRequests,
		user.Notifications,
		user.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, user.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
		return ErrVersionConflict
	}
	user.Version++
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	cmd, err := r.pool.Exec(ctx, updateRoleSQL, id, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetHasPaid(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, setHasPaidSQL, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkSessionCompleted set-inserts sessionID into completed_sessions.
// When the column has been corrupted into a non-array shape the insert
// cannot apply, so it is repaired by overwriting with a singleton list;
// the caller is told a repair happened so it can log it.
func (r *UserRepository) MarkSessionCompleted(ctx context.Context, id string, sessionID string) (repaired bool, err error) {
	cmd, err := r.pool.Exec(ctx, markCompletedSQL, id, sessionID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return false, nil
	}

	// Either the id was already present, the user is gone, or the field
	// is not an array. Disambiguate before repairing.
	var exists bool
	var isArray bool
	const check = `
		SELECT TRUE, jsonb_typeof(completed_sessions) = 'array'
		FROM users WHERE id = $1
	`
	if err := r.pool.QueryRow(ctx, check, id).Scan(&exists, &isArray); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if isArray {
		// Already recorded; nothing to do.
		return false, nil
	}

	if _, err := r.pool.Exec(ctx, repairCompletedSQL, id, sessionID); err != nil {
		return false, fmt.Errorf("repair completed sessions: %w", err)
	}
	return true, nil
}

// ListWithSpecialAccess returns users carrying at least one grant, for
// the expiry sweep.
func (r *UserRepository) ListWithSpecialAccess(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE jsonb_typeof(special_access) = 'array' AND jsonb_array_length(special_access) > 0`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
