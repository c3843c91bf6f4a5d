package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			"day number collision",
			&pgconn.PgError{Code: "23505", ConstraintName: "course_sessions_day_number_key"},
			ErrDuplicateDay,
		},
		{
			"title collision",
			&pgconn.PgError{Code: "23505", ConstraintName: "course_sessions_title_key"},
			ErrDuplicateTitle,
		},
		{
			"wrapped violation",
			fmt.Errorf("insert session: %w", &pgconn.PgError{Code: "23505", ConstraintName: "course_sessions_title_key"}),
			ErrDuplicateTitle,
		},
		{
			"unrelated constraint",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			nil,
		},
		{
			"other pg error",
			&pgconn.PgError{Code: "23503", ConstraintName: "course_sessions_day_number_key"},
			nil,
		},
		{
			"plain error",
			errors.New("connection reset"),
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapUniqueViolation(tt.err)
			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
