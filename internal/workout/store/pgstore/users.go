package pgstore

import (
	"context"
	"errors"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const userColumns = `id, name, email, password_hash, preferred_weight_unit`

func (s *Store) UserByEmail(ctx context.Context, email string) (_ *workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.user(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *Store) User(ctx context.Context, userID int) (_ *workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	return s.user(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (s *Store) user(ctx context.Context, query string, arg any) (*workout.User, error) {
	u := &workout.User{}
	err := s.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PreferredWeightUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// AddUser creates the user and returns its id. Emails are unique.
func (s *Store) AddUser(ctx context.Context, user workout.User) (userID int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	unit := user.PreferredWeightUnit
	if !unit.IsValid() {
		unit = workout.UnitKg
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, preferred_weight_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Name, user.Email, user.PasswordHash, string(unit)).Scan(&userID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return 0, workout.ErrUserExists
		}
		return 0, err
	}
	return userID, nil
}
