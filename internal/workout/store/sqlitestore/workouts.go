package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

func (s *Store) Save(ctx context.Context, snapshot workout.Snapshot) (workoutID int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.workouts.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user-id", snapshot.UserID),
		attribute.Int("exercises", len(snapshot.Exercises)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			workoutID = 0
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = multierr.Append(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			workoutID = 0
			err = fmt.Errorf("commit: %w", commitErr)
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO workouts (user_id, start_time, end_time, duration_seconds, total_volume, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		snapshot.UserID,
		toMillis(snapshot.StartTime),
		toMillis(snapshot.EndTime),
		snapshot.DurationSeconds(),
		snapshot.TotalVolume(),
		snapshot.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	if workoutID, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("workout id: %w", err)
	}

	insertSet, err := tx.PrepareContext(ctx, `
		INSERT INTO workout_sets (workout_exercise_id, set_number, reps, weight, weight_unit,
		                          completed, is_warmup, rest_time_seconds, rpe, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare set insert: %w", err)
	}
	defer insertSet.Close()

	for i, exercise := range snapshot.Exercises {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_id, order_index, notes)
			VALUES (?, ?, ?, ?)
		`, workoutID, exercise.Exercise.ID, i, exercise.Notes)
		if err != nil {
			return 0, fmt.Errorf("insert exercise %d: %w", exercise.Exercise.ID, err)
		}
		var workoutExerciseID int64
		if workoutExerciseID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("workout exercise id: %w", err)
		}

		for _, set := range exercise.Sets {
			_, err = insertSet.ExecContext(ctx,
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
			)
			if err != nil {
				return 0, fmt.Errorf("insert set %d of exercise %d: %w", set.Number, exercise.Exercise.ID, err)
			}
		}
	}

	return workoutID, nil
}

func (s *Store) Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) (_ []workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("limit", filter.Limit))

	var from, to *int64
	if filter.From != nil {
		v := toMillis(*filter.From)
		from = &v
	}
	if filter.To != nil {
		v := toMillis(*filter.To)
		to = &v
	}
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds, total_volume, notes
		FROM workouts
		WHERE user_id = ?
		  AND (? IS NULL OR start_time >= ?)
		  AND (? IS NULL OR start_time <= ?)
		ORDER BY start_time DESC
		LIMIT ?
	`, userID, from, from, to, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]workout.Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}

	return workouts, rows.Err()
}

func (s *Store) Workout(ctx context.Context, userID int, workoutID int64) (_ *workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int64("workout-id", workoutID))

	w, err := scanWorkout(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds, total_volume, notes
		FROM workouts
		WHERE id = ? AND user_id = ?
	`, workoutID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workout.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT we.id, we.notes, `+exerciseColumns+`
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = ?
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
			_ = rows.Close()
			return nil, err
		}
		ae.Sets = make([]workout.Set, 0)
		byID[workoutExerciseID] = len(w.Exercises)
		w.Exercises = append(w.Exercises, ae)
	}
	if err := multierr.Combine(rows.Err(), rows.Close()); err != nil {
		return nil, err
	}

	setRows, err := s.db.QueryContext(ctx, `
		SELECT ws.workout_exercise_id, ws.set_number, ws.reps, ws.weight, ws.weight_unit,
		       ws.completed, ws.is_warmup, ws.rest_time_seconds, ws.rpe, ws.notes
		FROM workout_sets ws
		JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		WHERE we.workout_id = ?
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

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row scanner) (*workout.Workout, error) {
	var (
		w          workout.Workout
		start, end int64
	)
	err := row.Scan(&w.ID, &w.UserID, &start, &end, &w.DurationSeconds, &w.TotalVolume, &w.Notes)
	if err != nil {
		return nil, err
	}
	w.StartTime = fromMillis(start)
	w.EndTime = fromMillis(end)
	return &w, nil
}
