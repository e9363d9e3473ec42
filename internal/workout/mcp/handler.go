package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/gymsession/internal/workout"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

const defaultWorkoutsLimit = 20

// Handler turns MCP tool calls into history service calls and formats the results.
type Handler struct {
	service historyService
	now     func() time.Time
}

func NewHandler(service historyService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func parseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// workoutFilter reads the optional from_date, to_date and limit arguments.
func workoutFilter(req mcp.CallToolRequest, defaultLimit int) (workout.WorkoutFilter, error) {
	filter := workout.WorkoutFilter{
		Limit: req.GetInt("limit", defaultLimit),
	}
	if from := req.GetString("from_date", ""); from != "" {
		t, err := parseFlexTime(from)
		if err != nil {
			return filter, errors.New("invalid from_date: use YYYY-MM-DD")
		}
		filter.From = &t
	}
	if to := req.GetString("to_date", ""); to != "" {
		t, err := parseFlexTime(to)
		if err != nil {
			return filter, errors.New("invalid to_date: use YYYY-MM-DD")
		}
		// the whole day when only a date is given
		if len(to) == len(time.DateOnly) {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		filter.To = &t
	}
	if filter.Limit < 0 {
		return filter, errors.New("limit must not be negative")
	}
	return filter, nil
}

func jsonResult[T any](tool string, data T) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		log.Errorf("mcp %s: %s", tool, err)
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func queryFailed(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, workout.ErrNotFound) {
		return mcp.NewToolResultError("not found")
	}
	log.Errorf("mcp %s: %s", tool, err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func (h *Handler) ListWorkoutsTool() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter, err := workoutFilter(req, defaultWorkoutsLimit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		workouts, err := h.service.Workouts(ctx, UserIDFromContext(ctx), filter)
		if err != nil {
			return queryFailed("list_workouts", err), nil
		}
		return jsonResult("list_workouts", workouts)
	}
}

func (h *Handler) GetWorkoutTool() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("workout_id")
		if err != nil {
			return mcp.NewToolResultError("workout_id parameter is required"), nil
		}
		w, err := h.service.Workout(ctx, UserIDFromContext(ctx), int64(id))
		if err != nil {
			return queryFailed("get_workout", err), nil
		}
		return jsonResult("get_workout", w)
	}
}

func (h *Handler) PersonalRecordsTool() server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prs, err := h.service.Records(ctx, UserIDFromContext(ctx))
		if err != nil {
			return queryFailed("get_personal_records", err), nil
		}
		return jsonResult("get_personal_records", prs)
	}
}

func (h *Handler) ListExercisesTool() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		exercises, err := h.service.Exercises(ctx, UserIDFromContext(ctx), workout.ExerciseFilter{
			Category:  req.GetString("category", ""),
			Muscle:    req.GetString("muscle", ""),
			Equipment: req.GetString("equipment", ""),
		})
		if err != nil {
			return queryFailed("list_exercises", err), nil
		}
		return jsonResult("list_exercises", exercises)
	}
}

func (h *Handler) ProfileStatsTool() server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profile, err := h.service.Profile(ctx, UserIDFromContext(ctx), h.now())
		if err != nil {
			return queryFailed("get_profile_stats", err), nil
		}
		return jsonResult("get_profile_stats", profile)
	}
}

func (h *Handler) ExerciseProgressTool() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		exerciseID, err := req.RequireInt("exercise_id")
		if err != nil {
			return mcp.NewToolResultError("exercise_id parameter is required"), nil
		}
		filter, err := workoutFilter(req, defaultProgressLimit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		points, err := h.service.ExerciseProgress(ctx, UserIDFromContext(ctx), exerciseID, filter)
		if err != nil {
			return queryFailed("get_exercise_progress", err), nil
		}
		return jsonResult("get_exercise_progress", points)
	}
}
