// Package mcp serves read-only workout history tools to MCP clients.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type userIDCtxKey struct{}

// WithUserID scopes the tool calls made with ctx to one user.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

// UserIDFromContext returns the user set by WithUserID, or 0 when none is set.
// No user has id 0, so unscoped calls see no data.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDCtxKey{}).(int); ok {
		return id
	}
	return 0
}

// NewServer builds the MCP server with all workout history tools registered.
// Used both over stdio (cmd/workout_mcp) and mounted on the backend at /mcp.
func NewServer(service historyService, version string) *server.MCPServer {
	h := NewHandler(service)
	s := server.NewMCPServer("gymsession-history", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Workout history of the authenticated user: finished workouts with their sets, personal records, exercise catalog and profile stats. Read only."),
	)

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.ListWorkoutsTool()},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.GetWorkoutTool()},
		server.ServerTool{Tool: toolPersonalRecords, Handler: h.PersonalRecordsTool()},
		server.ServerTool{Tool: toolListExercises, Handler: h.ListExercisesTool()},
		server.ServerTool{Tool: toolProfileStats, Handler: h.ProfileStatsTool()},
		server.ServerTool{Tool: toolExerciseProgress, Handler: h.ExerciseProgressTool()},
	)

	return s
}

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("Lists finished workouts, newest first: start/end time, duration, total volume and notes. Use get_workout for the sets."),
	mcp.WithString("from_date", mcp.Description("Start date (YYYY-MM-DD or RFC 3339).")),
	mcp.WithString("to_date", mcp.Description("End date (YYYY-MM-DD or RFC 3339), inclusive.")),
	mcp.WithNumber("limit", mcp.Description("Max workouts to return. Defaults to 20, 0 means all.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Returns one workout with all its exercises and sets (reps, weight, unit, warm-up flag, RPE)."),
	mcp.WithNumber("workout_id", mcp.Required(), mcp.Description("Workout id, as returned by list_workouts.")),
)

var toolPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Returns the personal records per exercise: estimated 1RM (Epley) and best single-workout volume."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Lists the exercise catalog, including the user's custom exercises."),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. strength, cardio).")),
	mcp.WithString("muscle", mcp.Description("Filter by primary or secondary muscle (e.g. chest).")),
	mcp.WithString("equipment", mcp.Description("Filter by equipment (e.g. barbell).")),
)

var toolProfileStats = mcp.NewTool("get_profile_stats",
	mcp.WithDescription("Returns total workouts, total volume, workouts this week and the current streak of consecutive training days."),
)

var toolExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Returns per-workout best working set, estimated 1RM and volume of one exercise, oldest first. Use to see how a lift progressed."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise id, as returned by list_exercises.")),
	mcp.WithString("from_date", mcp.Description("Start date (YYYY-MM-DD or RFC 3339).")),
	mcp.WithString("to_date", mcp.Description("End date (YYYY-MM-DD or RFC 3339), inclusive.")),
)
