package mcp

import (
	"context"
	"time"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/records"
	"github.com/2beens/gymsession/internal/workout/stats"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=mcp_test

const defaultProgressLimit = 50

// WorkoutsRepo is the read side of the workout store.
type WorkoutsRepo interface {
	Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error)
	Workout(ctx context.Context, userID int, workoutID int64) (*workout.Workout, error)
	Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error)
}

type exercisesLister interface {
	List(ctx context.Context, filter workout.ExerciseFilter) ([]workout.Exercise, error)
}

type profileStats interface {
	Profile(ctx context.Context, userID int, now time.Time) (*stats.Profile, error)
}

// historyService is what the tool handlers need, mocked in tests.
type historyService interface {
	Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error)
	Workout(ctx context.Context, userID int, workoutID int64) (*workout.Workout, error)
	Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error)
	Exercises(ctx context.Context, userID int, filter workout.ExerciseFilter) ([]workout.Exercise, error)
	Profile(ctx context.Context, userID int, now time.Time) (*stats.Profile, error)
	ExerciseProgress(ctx context.Context, userID, exerciseID int, filter workout.WorkoutFilter) ([]ProgressPoint, error)
}

// ProgressPoint is the best working set of one exercise within one workout.
type ProgressPoint struct {
	WorkoutID          int64              `json:"workoutId"`
	Date               time.Time          `json:"date"`
	BestWeight         float64            `json:"bestWeight"`
	BestReps           int                `json:"bestReps"`
	Unit               workout.WeightUnit `json:"unit"`
	EstimatedOneRepMax float64            `json:"estimatedOneRepMax"`
	Volume             float64            `json:"volume"`
}

type HistoryService struct {
	repo    WorkoutsRepo
	catalog exercisesLister
	stats   profileStats
}

func NewHistoryService(repo WorkoutsRepo, catalog exercisesLister, profileStats profileStats) *HistoryService {
	return &HistoryService{
		repo:    repo,
		catalog: catalog,
		stats:   profileStats,
	}
}

func (s *HistoryService) Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error) {
	return s.repo.Workouts(ctx, userID, filter)
}

func (s *HistoryService) Workout(ctx context.Context, userID int, workoutID int64) (*workout.Workout, error) {
	return s.repo.Workout(ctx, userID, workoutID)
}

func (s *HistoryService) Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error) {
	return s.repo.Records(ctx, userID)
}

// Exercises lists the catalog including the user's own custom exercises.
func (s *HistoryService) Exercises(ctx context.Context, userID int, filter workout.ExerciseFilter) ([]workout.Exercise, error) {
	filter.UserID = &userID
	return s.catalog.List(ctx, filter)
}

func (s *HistoryService) Profile(ctx context.Context, userID int, now time.Time) (*stats.Profile, error) {
	return s.stats.Profile(ctx, userID, now)
}

// ExerciseProgress returns one point per workout that has completed working sets of the exercise,
// oldest first.
func (s *HistoryService) ExerciseProgress(
	ctx context.Context,
	userID, exerciseID int,
	filter workout.WorkoutFilter,
) (_ []ProgressPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mcp.service.exercise_progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("exercise-id", exerciseID))

	if filter.Limit <= 0 {
		filter.Limit = defaultProgressLimit
	}
	headers, err := s.repo.Workouts(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	points := make([]ProgressPoint, 0)
	// headers come newest first
	for i := len(headers) - 1; i >= 0; i-- {
		w, err := s.repo.Workout(ctx, userID, headers[i].ID)
		if err != nil {
			return nil, err
		}
		for _, ex := range w.Exercises {
			if ex.Exercise.ID != exerciseID {
				continue
			}
			candidate, ok := records.CandidateFor(ex)
			if !ok {
				continue
			}
			points = append(points, ProgressPoint{
				WorkoutID:          w.ID,
				Date:               w.StartTime,
				BestWeight:         candidate.BestSet.Weight,
				BestReps:           candidate.BestSet.Reps,
				Unit:               candidate.BestSet.Unit,
				EstimatedOneRepMax: candidate.OneRepMax,
				Volume:             candidate.Volume,
			})
		}
	}

	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}
