package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, name, email, password_hash, preferred_weight_unit`

func (s *Store) UserByEmail(ctx context.Context, email string) (_ *workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.users.by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.user(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, email)
}

func (s *Store) User(ctx context.Context, userID int) (_ *workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.user(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
}

func (s *Store) user(ctx context.Context, query string, arg any) (*workout.User, error) {
	u := &workout.User{}
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PreferredWeightUnit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// AddUser creates the local user and returns its id.
func (s *Store) AddUser(ctx context.Context, user workout.User) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	unit := user.PreferredWeightUnit
	if !unit.IsValid() {
		unit = workout.UnitKg
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, preferred_weight_unit)
		VALUES (?, ?, ?, ?)
	`, user.Name, user.Email, user.PasswordHash, string(unit))
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return 0, workout.ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}
