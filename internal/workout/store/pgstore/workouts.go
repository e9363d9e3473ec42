package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// Save writes the workout header, its exercises and sets in one transaction.
func (s *Store) Save(ctx context.Context, snapshot workout.Snapshot) (workoutID int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user-id", snapshot.UserID),
		attribute.Int("exercises", len(snapshot.Exercises)),
	)
	defer func() {
		if err == nil {
			return
		}
		span.SetAttributes(attribute.Bool("transient", pkg.IsTransientDBError(err)))
		// user or exercise vanished in the meantime, retrying will not help
		if pkg.IsForeignKeyViolationError(err) {
			err = fmt.Errorf("%w: %w", workout.ErrNotFound, err)
		}
	}()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			workoutID = 0
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = multierr.Append(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			workoutID = 0
			err = fmt.Errorf("commit: %w", commitErr)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO workouts (user_id, start_time, end_time, duration_seconds, total_volume, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		snapshot.UserID,
		snapshot.StartTime,
		snapshot.EndTime,
		snapshot.DurationSeconds(),
		snapshot.TotalVolume(),
		snapshot.Notes,
	).Scan(&workoutID)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}

	for i, exercise := range snapshot.Exercises {
		var workoutExerciseID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_id, order_index, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			workoutID,
			exercise.Exercise.ID,
			i,
			exercise.Notes,
		).Scan(&workoutExerciseID)
		if err != nil {
			return 0, fmt.Errorf("insert exercise %d: %w", exercise.Exercise.ID, err)
		}

		if len(exercise.Sets) == 0 {
			continue
		}

		rows := make([][]any, 0, len(exercise.Sets))
		for _, set := range exercise.Sets {
			rows = append(rows, []any{
				workoutExerciseID,
				set.Number,
				set.Reps,
				set.Weight,
				string(snapshot.SetUnit(set)),
				set.Completed,
				set.IsWarmup,
				set.RestSeconds,
				set.RPE,
				set.Notes,
			})
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"workout_sets"},
			[]string{
				"workout_exercise_id", "set_number", "reps", "weight", "weight_unit",
				"completed", "is_warmup", "rest_time_seconds", "rpe", "notes",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("insert sets of exercise %d: %w", exercise.Exercise.ID, err)
		}
	}

	return workoutID, nil
}

// Workouts lists workout headers of the user, newest first.
func (s *Store) Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) (_ []workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("limit", filter.Limit))

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds, total_volume, notes
		FROM workouts
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR start_time >= $2)
		  AND ($3::timestamptz IS NULL OR start_time <= $3)
		ORDER BY start_time DESC
		LIMIT $4
	`,
		userID,
		filter.From, filter.To,
		nullableLimit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]workout.Workout, 0)
	for rows.Next() {
		var w workout.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.StartTime, &w.EndTime, &w.DurationSeconds, &w.TotalVolume, &w.Notes); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

// Workout reads a single workout of the user with its exercises and sets.
func (s *Store) Workout(ctx context.Context, userID int, workoutID int64) (_ *workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int64("workout-id", workoutID))

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	w := &workout.Workout{}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds, total_volume, notes
		FROM workouts
		WHERE id = $1 AND user_id = $2
	`, workoutID, userID).
		Scan(&w.ID, &w.UserID, &w.StartTime, &w.EndTime, &w.DurationSeconds, &w.TotalVolume, &w.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT we.id, we.notes, `+exerciseColumns+`
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY we.order_index
	`, workoutID)
	if err != nil {
		return nil, err
	}

	byID := map[int64]int{}
	w.Exercises = make([]workout.ActiveExercise, 0)
	for rows.Next() {
		var (
			workoutExerciseID int64
			ae                workout.ActiveExercise
		)
		if err := scanExercise(rows, &ae.Exercise, &workoutExerciseID, &ae.Notes); err != nil {
			rows.Close()
			return nil, err
		}
		ae.Sets = make([]workout.Set, 0)
		byID[workoutExerciseID] = len(w.Exercises)
		w.Exercises = append(w.Exercises, ae)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	setRows, err := tx.Query(ctx, `
		SELECT ws.workout_exercise_id, ws.set_number, ws.reps, ws.weight, ws.weight_unit,
		       ws.completed, ws.is_warmup, ws.rest_time_seconds, ws.rpe, ws.notes
		FROM workout_sets ws
		JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		WHERE we.workout_id = $1
		ORDER BY we.order_index, ws.set_number
	`, workoutID)
	if err != nil {
		return nil, err
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			workoutExerciseID int64
			set               workout.Set
		)
		err := setRows.Scan(
			&workoutExerciseID, &set.Number, &set.Reps, &set.Weight, &set.Unit,
			&set.Completed, &set.IsWarmup, &set.RestSeconds, &set.RPE, &set.Notes,
		)
		if err != nil {
			return nil, err
		}
		idx, ok := byID[workoutExerciseID]
		if !ok {
			return nil, fmt.Errorf("set of unknown workout exercise %d", workoutExerciseID)
		}
		w.Exercises[idx].Sets = append(w.Exercises[idx].Sets, set)
	}

	return w, setRows.Err()
}
