package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// EstimateOneRepMax is the Epley estimate: weight x (1 + reps/30).
func EstimateOneRepMax(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// Candidate is what a single exercise of a session could set as new records.
type Candidate struct {
	ExerciseID int
	// BestSet is the first completed working set with the highest weight.
	BestSet   workout.Set
	OneRepMax float64
	Volume    float64
}

// CandidateFor scans completed non warm-up sets of the exercise.
// Returns false when there are no such sets.
func CandidateFor(exercise workout.ActiveExercise) (Candidate, bool) {
	c := Candidate{ExerciseID: exercise.Exercise.ID}
	found := false
	for _, set := range exercise.Sets {
		if !set.Completed || set.IsWarmup {
			continue
		}
		c.Volume += set.Volume()
		if !found || set.Weight > c.BestSet.Weight {
			c.BestSet = set
		}
		found = true
	}
	if !found {
		return Candidate{}, false
	}
	c.OneRepMax = EstimateOneRepMax(c.BestSet.Weight, c.BestSet.Reps)
	return c, true
}

type Evaluator struct {
	store workout.RecordStore
}

func NewEvaluator(store workout.RecordStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate compares the session against stored records and upserts the ones strictly improved.
// Failures of single exercises do not stop evaluation of the others; all of them
// are returned combined in a *workout.PRComputationError, next to the records that did get saved.
func (e *Evaluator) Evaluate(ctx context.Context, snapshot workout.Snapshot, workoutID int64) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.evaluate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	newRecords := []workout.PersonalRecord{}
	var evalErr error
	for _, exercise := range snapshot.Exercises {
		candidate, ok := CandidateFor(exercise)
		if !ok {
			continue
		}

		oneRM, err := e.oneRepMaxRecord(ctx, snapshot, workoutID, candidate)
		if err != nil {
			evalErr = multierr.Append(evalErr, fmt.Errorf("exercise %d 1RM: %w", candidate.ExerciseID, err))
		} else if oneRM != nil {
			newRecords = append(newRecords, *oneRM)
		}

		volume, err := e.volumeRecord(ctx, snapshot, workoutID, candidate)
		if err != nil {
			evalErr = multierr.Append(evalErr, fmt.Errorf("exercise %d volume: %w", candidate.ExerciseID, err))
		} else if volume != nil {
			newRecords = append(newRecords, *volume)
		}
	}

	if evalErr != nil {
		log.Errorf("personal records [user %d, workout %d]: %s", snapshot.UserID, workoutID, evalErr)
		return newRecords, &workout.PRComputationError{WorkoutID: workoutID, Err: evalErr}
	}

	return newRecords, nil
}

func (e *Evaluator) oneRepMaxRecord(ctx context.Context, snapshot workout.Snapshot, workoutID int64, c Candidate) (*workout.PersonalRecord, error) {
	improved, err := e.improves(ctx, snapshot.UserID, c.ExerciseID, workout.RecordOneRepMax, c.OneRepMax)
	if err != nil || !improved {
		return nil, err
	}

	reps := c.BestSet.Reps
	weight := c.BestSet.Weight
	record := workout.PersonalRecord{
		UserID:     snapshot.UserID,
		ExerciseID: c.ExerciseID,
		Type:       workout.RecordOneRepMax,
		Value:      c.OneRepMax,
		Reps:       &reps,
		Weight:     &weight,
		Unit:       snapshot.SetUnit(c.BestSet),
		WorkoutID:  &workoutID,
		AchievedAt: snapshot.EndTime,
	}
	if err := e.store.UpsertRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return &record, nil
}

func (e *Evaluator) volumeRecord(ctx context.Context, snapshot workout.Snapshot, workoutID int64, c Candidate) (*workout.PersonalRecord, error) {
	improved, err := e.improves(ctx, snapshot.UserID, c.ExerciseID, workout.RecordVolume, c.Volume)
	if err != nil || !improved {
		return nil, err
	}

	record := workout.PersonalRecord{
		UserID:     snapshot.UserID,
		ExerciseID: c.ExerciseID,
		Type:       workout.RecordVolume,
		Value:      c.Volume,
		Unit:       snapshot.SetUnit(c.BestSet),
		WorkoutID:  &workoutID,
		AchievedAt: snapshot.EndTime,
	}
	if err := e.store.UpsertRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return &record, nil
}

// improves is true if there is no stored record yet, or the value is strictly greater.
func (e *Evaluator) improves(ctx context.Context, userID, exerciseID int, recordType workout.RecordType, value float64) (bool, error) {
	current, err := e.store.GetRecord(ctx, userID, exerciseID, recordType)
	if err != nil && !errors.Is(err, workout.ErrNotFound) {
		return false, fmt.Errorf("get current: %w", err)
	}
	if current == nil {
		return true, nil
	}
	return value > current.Value, nil
}
