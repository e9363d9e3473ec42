package pgstore

import (
	"context"
	"errors"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const exerciseColumns = `e.id, e.name, e.category, e.primary_muscle, e.secondary_muscles,
	e.equipment, e.difficulty_level, e.instructions, e.is_custom, e.user_id`

// scanExercise scans the leading columns into prefix, followed by exerciseColumns.
func scanExercise(row scanner, ex *workout.Exercise, prefix ...any) error {
	dest := append(prefix,
		&ex.ID, &ex.Name, &ex.Category, &ex.PrimaryMuscle, &ex.SecondaryMuscles,
		&ex.Equipment, &ex.Difficulty, &ex.Instructions, &ex.IsCustom, &ex.UserID,
	)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if ex.SecondaryMuscles == nil {
		ex.SecondaryMuscles = []string{}
	}
	return nil
}

func (s *Store) Exercise(ctx context.Context, id int) (_ *workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise-id", id))

	ex := &workout.Exercise{}
	row := s.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises e WHERE e.id = $1`, id)
	if err := scanExercise(row, ex); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}
	return ex, nil
}

func (s *Store) Exercises(ctx context.Context, filter workout.ExerciseFilter) (_ []workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("category", filter.Category),
		attribute.String("muscle", filter.Muscle),
		attribute.String("equipment", filter.Equipment),
	)

	rows, err := s.db.Query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises e
		WHERE ($1::text = '' OR e.category = $1)
		  AND ($2::text = '' OR e.primary_muscle = $2 OR $2 = ANY (e.secondary_muscles))
		  AND ($3::text = '' OR e.equipment = $3)
		  AND (NOT e.is_custom OR e.user_id = $4::int)
		ORDER BY e.name
	`,
		filter.Category,
		filter.Muscle,
		filter.Equipment,
		filter.UserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]workout.Exercise, 0)
	for rows.Next() {
		var ex workout.Exercise
		if err := scanExercise(rows, &ex); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}

	return exercises, rows.Err()
}
