package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

// secondary_muscles is a JSON array, filtered with json_each.
const exerciseColumns = `e.id, e.name, e.category, e.primary_muscle, e.secondary_muscles,
	e.equipment, e.difficulty_level, e.instructions, e.is_custom, e.user_id`

func scanExercise(row scanner, ex *workout.Exercise, prefix ...any) error {
	var secondary string
	dest := append(prefix,
		&ex.ID, &ex.Name, &ex.Category, &ex.PrimaryMuscle, &secondary,
		&ex.Equipment, &ex.Difficulty, &ex.Instructions, &ex.IsCustom, &ex.UserID,
	)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	ex.SecondaryMuscles = []string{}
	if secondary != "" {
		if err := json.Unmarshal([]byte(secondary), &ex.SecondaryMuscles); err != nil {
			return fmt.Errorf("secondary muscles of exercise %d: %w", ex.ID, err)
		}
	}
	return nil
}

func (s *Store) Exercise(ctx context.Context, id int) (_ *workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise-id", id))

	ex := &workout.Exercise{}
	row := s.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises e WHERE e.id = ?`, id)
	if err := scanExercise(row, ex); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}
	return ex, nil
}

func (s *Store) Exercises(ctx context.Context, filter workout.ExerciseFilter) (_ []workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises e
		WHERE (?1 = '' OR e.category = ?1)
		  AND (?2 = '' OR e.primary_muscle = ?2
		       OR EXISTS (SELECT 1 FROM json_each(e.secondary_muscles) m WHERE m.value = ?2))
		  AND (?3 = '' OR e.equipment = ?3)
		  AND (e.is_custom = 0 OR e.user_id = ?4)
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

// AddExercise inserts a catalog entry and returns its id.
func (s *Store) AddExercise(ctx context.Context, ex workout.Exercise) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	secondary := ex.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}
	secondaryJSON, err := json.Marshal(secondary)
	if err != nil {
		return 0, err
	}
	difficulty := ex.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (name, category, primary_muscle, secondary_muscles, equipment,
		                       difficulty_level, instructions, is_custom, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ex.Name, ex.Category, ex.PrimaryMuscle, string(secondaryJSON), ex.Equipment,
		difficulty, ex.Instructions, ex.IsCustom, ex.UserID,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}
