package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Store) GetRecord(ctx context.Context, userID, exerciseID int, recordType workout.RecordType) (_ *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.Int("exercise-id", exerciseID),
		attribute.String("record-type", string(recordType)),
	)

	record, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT pr.id, pr.user_id, pr.exercise_id, '', pr.record_type, pr.value, pr.reps, pr.weight,
		       COALESCE(pr.weight_unit, ''), pr.workout_id, pr.achieved_at
		FROM personal_records pr
		WHERE pr.user_id = ? AND pr.exercise_id = ? AND pr.record_type = ?
	`, userID, exerciseID, string(recordType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// UpsertRecord stores the record, replacing the existing one only if the new value is strictly higher.
func (s *Store) UpsertRecord(ctx context.Context, record workout.PersonalRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO personal_records (user_id, exercise_id, record_type, value, reps, weight, weight_unit, workout_id, achieved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, exercise_id, record_type) DO UPDATE
		SET value       = excluded.value,
		    reps        = excluded.reps,
		    weight      = excluded.weight,
		    weight_unit = excluded.weight_unit,
		    workout_id  = excluded.workout_id,
		    achieved_at = excluded.achieved_at
		WHERE personal_records.value < excluded.value
	`,
		record.UserID,
		record.ExerciseID,
		string(record.Type),
		record.Value,
		record.Reps,
		record.Weight,
		nullableString(string(record.Unit)),
		record.WorkoutID,
		toMillis(record.AchievedAt),
	)
	return err
}

func (s *Store) Records(ctx context.Context, userID int) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.id, pr.user_id, pr.exercise_id, e.name, pr.record_type, pr.value, pr.reps, pr.weight,
		       COALESCE(pr.weight_unit, ''), pr.workout_id, pr.achieved_at
		FROM personal_records pr
		JOIN exercises e ON e.id = pr.exercise_id
		WHERE pr.user_id = ?
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
	var (
		r          workout.PersonalRecord
		achievedAt int64
	)
	err := row.Scan(
		&r.ID, &r.UserID, &r.ExerciseID, &r.ExerciseName, &r.Type, &r.Value, &r.Reps, &r.Weight,
		&r.Unit, &r.WorkoutID, &achievedAt,
	)
	if err != nil {
		return nil, err
	}
	r.AchievedAt = fromMillis(achievedAt)
	return &r, nil
}
