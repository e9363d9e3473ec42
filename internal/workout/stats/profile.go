package stats

import (
	"context"
	"time"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

// Profile is the summary shown on the user's profile.
type Profile struct {
	TotalWorkouts        int        `json:"totalWorkouts"`
	TotalVolume          float64    `json:"totalVolume"`
	TotalDurationSeconds int        `json:"totalDurationSeconds"`
	WorkoutsThisWeek     int        `json:"workoutsThisWeek"`
	CurrentStreakDays    int        `json:"currentStreakDays"`
	PersonalRecords      int        `json:"personalRecords"`
	LastWorkoutAt        *time.Time `json:"lastWorkoutAt,omitempty"`
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

type workoutsRepo interface {
	Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error)
	Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error)
}

type Stats struct {
	repo workoutsRepo
}

func NewStats(repo workoutsRepo) *Stats {
	return &Stats{
		repo: repo,
	}
}

// Profile aggregates all stored workouts of the user. Week and day boundaries are
// taken in the location of now.
func (s *Stats) Profile(ctx context.Context, userID int, now time.Time) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	workouts, err := s.repo.Workouts(ctx, userID, workout.WorkoutFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Records(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		TotalWorkouts:   len(workouts),
		PersonalRecords: len(records),
	}

	weekStart := WeekStart(now)
	days := make([]time.Time, 0, len(workouts))
	for _, w := range workouts {
		profile.TotalVolume += w.TotalVolume
		profile.TotalDurationSeconds += w.DurationSeconds
		if !w.StartTime.Before(weekStart) && !w.StartTime.After(now) {
			profile.WorkoutsThisWeek++
		}
		if profile.LastWorkoutAt == nil || w.StartTime.After(*profile.LastWorkoutAt) {
			start := w.StartTime
			profile.LastWorkoutAt = &start
		}
		days = append(days, w.StartTime)
	}
	profile.CurrentStreakDays = Streak(days, now)

	return profile, nil
}

// WeekStart is Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, t.Location())
}

// Streak counts consecutive calendar days with at least one workout, ending today.
// A streak ending yesterday is still current, since today's workout may be yet to come.
func Streak(workoutTimes []time.Time, now time.Time) int {
	loc := now.Location()
	dayKey := func(t time.Time) time.Time {
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	days := make(map[time.Time]struct{}, len(workoutTimes))
	for _, t := range workoutTimes {
		days[dayKey(t)] = struct{}{}
	}

	day := dayKey(now)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
