package pgstore

import (
	"context"
	"errors"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// GetRecord returns nil, nil if the user has no record of the type for the exercise.
func (s *Store) GetRecord(ctx context.Context, userID, exerciseID int, recordType workout.RecordType) (_ *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.Int("exercise-id", exerciseID),
		attribute.String("record-type", string(recordType)),
	)

	row := s.db.QueryRow(ctx, `
		SELECT pr.id, pr.user_id, pr.exercise_id, '', pr.record_type, pr.value, pr.reps, pr.weight,
		       COALESCE(pr.weight_unit, ''), pr.workout_id, pr.achieved_at
		FROM personal_records pr
		WHERE pr.user_id = $1 AND pr.exercise_id = $2 AND pr.record_type = $3
	`, userID, exerciseID, recordType)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// UpsertRecord stores the record, replacing the existing one only if the new value is strictly higher.
func (s *Store) UpsertRecord(ctx context.Context, record workout.PersonalRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user-id", record.UserID),
		attribute.Int("exercise-id", record.ExerciseID),
		attribute.String("record-type", string(record.Type)),
	)

	_, err = s.db.Exec(ctx, `
		INSERT INTO personal_records (user_id, exercise_id, record_type, value, reps, weight, weight_unit, workout_id, achieved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, exercise_id, record_type) DO UPDATE
		SET value       = EXCLUDED.value,
		    reps        = EXCLUDED.reps,
		    weight      = EXCLUDED.weight,
		    weight_unit = EXCLUDED.weight_unit,
		    workout_id  = EXCLUDED.workout_id,
		    achieved_at = EXCLUDED.achieved_at
		WHERE personal_records.value < EXCLUDED.value
	`,
		record.UserID,
		record.ExerciseID,
		record.Type,
		record.Value,
		record.Reps,
		record.Weight,
		nullableString(string(record.Unit)),
		record.WorkoutID,
		record.AchievedAt,
	)
	return err
}

// Records lists all personal records of the user, with exercise names.
func (s *Store) Records(ctx context.Context, userID int) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	rows, err := s.db.Query(ctx, `
		SELECT pr.id, pr.user_id, pr.exercise_id, e.name, pr.record_type, pr.value, pr.reps, pr.weight,
		       COALESCE(pr.weight_unit, ''), pr.workout_id, pr.achieved_at
		FROM personal_records pr
		JOIN exercises e ON e.id = pr.exercise_id
		WHERE pr.user_id = $1
		ORDER BY e.name, pr.record_type
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]workout.PersonalRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

func scanRecord(row scanner) (*workout.PersonalRecord, error) {
	r := &workout.PersonalRecord{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.ExerciseID, &r.ExerciseName, &r.Type, &r.Value, &r.Reps, &r.Weight,
		&r.Unit, &r.WorkoutID, &r.AchievedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
