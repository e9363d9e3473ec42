//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/engine"
	"github.com/2beens/gymsession/internal/workout/resttimer"
	"github.com/2beens/gymsession/internal/workout/session"
	"github.com/2beens/gymsession/internal/workout/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mutationRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type endResponse struct {
	WorkoutID int64                    `json:"workoutId"`
	Records   []workout.PersonalRecord `json:"prs"`
	PRWarning string                   `json:"prWarning"`
	Error     string                   `json:"error"`
	Confirm   bool                     `json:"confirmDiscard"`
}

// logSet fills the set and marks it completed.
func (s *IntegrationTestSuite) logSet(ctx context.Context, t *testing.T, token string, exIdx, setIdx, reps int, weight float64) {
	t.Helper()
	path := fmt.Sprintf("/session/exercises/%d/sets/%d", exIdx, setIdx)
	for _, m := range []mutationRequest{
		{Field: "reps", Value: reps},
		{Field: "weight", Value: weight},
		{Field: "completed", Value: true},
	} {
		require.Equal(t, http.StatusOK, s.do(ctx, t, "PATCH", path, token, m, nil), "%s %+v", path, m)
	}
}

func (s *IntegrationTestSuite) addExercise(ctx context.Context, t *testing.T, token string, exerciseID int) {
	t.Helper()
	body := map[string]int{"exerciseId": exerciseID}
	require.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/session/exercises", token, body, nil))
}

func (s *IntegrationTestSuite) TestWorkoutSession_EndAndRecords() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)

	var ended endResponse
	assert.Equal(t, http.StatusConflict, s.do(ctx, t, "POST", "/session/end", token, nil, &ended))

	var view engine.SessionView
	require.Equal(t, http.StatusCreated, s.do(ctx, t, "POST", "/session/start", token, nil, &view))
	assert.Equal(t, session.StateActive, view.State)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, http.StatusConflict, s.do(ctx, t, "POST", "/session/start", token, nil, nil))

	// nothing logged yet, client has to confirm a discard
	ended = endResponse{}
	require.Equal(t, http.StatusConflict, s.do(ctx, t, "POST", "/session/end", token, nil, &ended))
	assert.True(t, ended.Confirm)

	s.addExercise(ctx, t, token, s.benchPress)
	s.logSet(ctx, t, token, 0, 0, 5, 100)
	require.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/session/exercises/0/sets", token, nil, nil))
	// second set left incomplete, it does not count
	require.Equal(t, http.StatusOK, s.do(ctx, t, "PATCH", "/session/exercises/0/sets/1", token, mutationRequest{Field: "weight", Value: 200}, nil))

	s.addExercise(ctx, t, token, s.squat)
	s.logSet(ctx, t, token, 1, 0, 5, 140)

	// out of range index
	assert.Equal(t, http.StatusBadRequest, s.do(ctx, t, "PATCH", "/session/exercises/5/sets/0", token, mutationRequest{Field: "reps", Value: 1}, nil))
	// invalid value
	assert.Equal(t, http.StatusBadRequest, s.do(ctx, t, "PATCH", "/session/exercises/0/sets/0", token, mutationRequest{Field: "reps", Value: -1}, nil))

	require.Equal(t, http.StatusOK, s.do(ctx, t, "PUT", "/session/notes", token, map[string]string{"notes": "felt strong"}, nil))

	ended = endResponse{}
	require.Equal(t, http.StatusCreated, s.do(ctx, t, "POST", "/session/end", token, nil, &ended))
	assert.Positive(t, ended.WorkoutID)
	assert.Empty(t, ended.PRWarning)
	require.Len(t, ended.Records, 4)

	oneRepMax := map[int]float64{}
	for _, pr := range ended.Records {
		if pr.Type == workout.RecordOneRepMax {
			oneRepMax[pr.ExerciseID] = pr.Value
		}
	}
	assert.InDelta(t, 116.667, oneRepMax[s.benchPress], 0.001)
	assert.InDelta(t, 163.333, oneRepMax[s.squat], 0.001)

	view = engine.SessionView{}
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/session", token, nil, &view))
	assert.Equal(t, session.StateIdle, view.State)

	var saved workout.Workout
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", fmt.Sprintf("/workouts/%d", ended.WorkoutID), token, nil, &saved))
	assert.Equal(t, "felt strong", saved.Notes)
	assert.Equal(t, 1200.0, saved.TotalVolume)
	require.Len(t, saved.Exercises, 2)
	assert.Equal(t, "Bench Press", saved.Exercises[0].Exercise.Name)
	assert.Equal(t, "Squat", saved.Exercises[1].Exercise.Name)

	// a lighter session sets no records
	require.Equal(t, http.StatusCreated, s.do(ctx, t, "POST", "/session/start", token, nil, nil))
	s.addExercise(ctx, t, token, s.benchPress)
	s.logSet(ctx, t, token, 0, 0, 5, 95)
	ended = endResponse{}
	require.Equal(t, http.StatusCreated, s.do(ctx, t, "POST", "/session/end", token, nil, &ended))
	assert.NotNil(t, ended.Records)
	assert.Empty(t, ended.Records)

	var workouts []workout.Workout
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/workouts", token, nil, &workouts))
	assert.Len(t, workouts, 2)

	var records []workout.PersonalRecord
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/records", token, nil, &records))
	assert.Len(t, records, 4)

	var profile stats.Profile
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/stats", token, nil, &profile))
	assert.Equal(t, 2, profile.TotalWorkouts)
	assert.Equal(t, 1, profile.CurrentStreakDays)
	assert.Equal(t, 1675.0, profile.TotalVolume)
}

func (s *IntegrationTestSuite) TestWorkoutSession_TemplateRestAndDiscard() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var templateID int
	require.NoError(t, s.DB.QueryRowContext(ctx, `
		INSERT INTO workout_templates (user_id, name) VALUES ($1, 'Push day') RETURNING id
	`, s.userID).Scan(&templateID))
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO template_exercises (template_id, exercise_id, order_index, default_sets, default_reps, default_weight, rest_time_seconds)
		VALUES ($1, $2, 0, 3, 8, 80, 120)
	`, templateID, s.benchPress)
	require.NoError(t, err)

	token := s.doLogin(ctx, t)

	var templates []workout.Template
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/templates", token, nil, &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "Push day", templates[0].Name)

	var view engine.SessionView
	require.Equal(t, http.StatusCreated, s.do(ctx, t, "POST", "/session/start", token, map[string]int{"templateId": templateID}, &view))
	require.Len(t, view.Exercises, 1)
	require.Len(t, view.Exercises[0].Sets, 3)
	assert.Equal(t, 8, view.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 80.0, view.Exercises[0].Sets[0].Weight)
	assert.Equal(t, workout.UnitKg, view.Exercises[0].Sets[0].Unit)

	// completing a set with rest time starts the rest timer
	require.Equal(t, http.StatusOK, s.do(ctx, t, "PATCH", "/session/exercises/0/sets/0", token, mutationRequest{Field: "completed", Value: true}, nil))
	var rest engine.RestView
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/session/rest", token, nil, &rest))
	assert.Equal(t, resttimer.Running, rest.State)
	assert.Equal(t, 120, rest.Selected)

	require.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/session/rest/pause", token, nil, &rest))
	assert.Equal(t, resttimer.Paused, rest.State)
	require.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/session/rest/reset", token, nil, &rest))
	assert.Equal(t, resttimer.Stopped, rest.State)

	require.Equal(t, http.StatusOK, s.do(ctx, t, "DELETE", "/session/exercises/0/sets/1", token, nil, &view))
	assert.Len(t, view.Exercises[0].Sets, 2)
	assert.Equal(t, 2, view.Exercises[0].Sets[1].Number)

	var discarded map[string]bool
	require.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/session/discard", token, nil, &discarded))
	assert.True(t, discarded["discarded"])

	view = engine.SessionView{}
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/session", token, nil, &view))
	assert.Equal(t, session.StateIdle, view.State)

	var workouts []workout.Workout
	require.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/workouts", token, nil, &workouts))
	assert.Empty(t, workouts)
}
