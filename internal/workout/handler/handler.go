// Package handler exposes the workout engine over HTTP/JSON.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymsession/internal/middleware"
	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/engine"
	"github.com/2beens/gymsession/internal/workout/session"
	"github.com/2beens/gymsession/internal/workout/stats"
	"github.com/2beens/gymsession/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=handler_test

type sessionEngine interface {
	Start(ctx context.Context, userID int, templateID *int) (*engine.SessionView, error)
	Session(userID int) (*engine.SessionView, error)
	Elapsed(userID int) time.Duration
	AddExercise(ctx context.Context, userID, exerciseID int) error
	RemoveExercise(userID, exIdx int) error
	SetExerciseNotes(userID, exIdx int, notes string) error
	SetNotes(userID int, notes string) error
	AddSet(userID, exIdx int) error
	RemoveSet(userID, exIdx, setIdx int) error
	UpdateSet(userID, exIdx, setIdx int, mutation session.Mutation) error
	End(ctx context.Context, userID int) (*session.EndResult, error)
	Discard(userID int) bool
	Rest(userID int) engine.RestView
	PauseRest(userID int) (engine.RestView, error)
	ResumeRest(userID int) (engine.RestView, error)
	ResetRest(userID int) (engine.RestView, error)
}

type exerciseCatalog interface {
	Get(ctx context.Context, id int) (*workout.Exercise, error)
	List(ctx context.Context, filter workout.ExerciseFilter) ([]workout.Exercise, error)
}

type templateLister interface {
	List(ctx context.Context, userID int) ([]workout.Template, error)
}

type historyRepo interface {
	Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error)
	Workout(ctx context.Context, userID int, workoutID int64) (*workout.Workout, error)
	Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error)
}

type profileStats interface {
	Profile(ctx context.Context, userID int, now time.Time) (*stats.Profile, error)
}

type NewHandlerParams struct {
	Engine    sessionEngine
	Catalog   exerciseCatalog
	Templates templateLister
	History   historyRepo
	Stats     profileStats
	Now       func() time.Time
}

type Handler struct {
	engine    sessionEngine
	catalog   exerciseCatalog
	templates templateLister
	history   historyRepo
	stats     profileStats
	now       func() time.Time
}

func NewHandler(params NewHandlerParams) *Handler {
	h := &Handler{
		engine:    params.Engine,
		catalog:   params.Catalog,
		templates: params.Templates,
		history:   params.History,
		stats:     params.Stats,
		now:       params.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", h.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/{id}", h.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/templates", h.HandleListTemplates).Methods("GET", "OPTIONS").Name("list-templates")

	r.HandleFunc("/session/start", h.HandleStart).Methods("POST", "OPTIONS").Name("session-start")
	r.HandleFunc("/session", h.HandleGetSession).Methods("GET", "OPTIONS").Name("session")
	r.HandleFunc("/session/elapsed", h.HandleElapsed).Methods("GET", "OPTIONS").Name("session-elapsed")
	r.HandleFunc("/session/notes", h.HandleSetNotes).Methods("PUT", "OPTIONS").Name("session-notes")
	r.HandleFunc("/session/exercises", h.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/session/exercises/{ex}", h.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-exercise")
	r.HandleFunc("/session/exercises/{ex}/notes", h.HandleSetExerciseNotes).Methods("PUT", "OPTIONS").Name("exercise-notes")
	r.HandleFunc("/session/exercises/{ex}/sets", h.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
	r.HandleFunc("/session/exercises/{ex}/sets/{set}", h.HandleRemoveSet).Methods("DELETE", "OPTIONS").Name("remove-set")
	r.HandleFunc("/session/exercises/{ex}/sets/{set}", h.HandleUpdateSet).Methods("PATCH", "OPTIONS").Name("update-set")
	r.HandleFunc("/session/end", h.HandleEnd).Methods("POST", "OPTIONS").Name("session-end")
	r.HandleFunc("/session/discard", h.HandleDiscard).Methods("POST", "OPTIONS").Name("session-discard")

	r.HandleFunc("/session/rest", h.HandleRest).Methods("GET", "OPTIONS").Name("rest")
	r.HandleFunc("/session/rest/{action:pause|resume|reset}", h.HandleRestAction).Methods("POST", "OPTIONS").Name("rest-action")

	r.HandleFunc("/workouts", h.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", h.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/records", h.HandleRecords).Methods("GET", "OPTIONS").Name("records")
	r.HandleFunc("/stats", h.HandleStats).Methods("GET", "OPTIONS").Name("stats")
}

type errorResponse struct {
	Error          string `json:"error"`
	ConfirmDiscard bool   `json:"confirmDiscard,omitempty"`
}

type endResponse struct {
	WorkoutID int64                    `json:"workoutId"`
	Records   []workout.PersonalRecord `json:"prs"`
	PRWarning string                   `json:"prWarning,omitempty"`
}

// writeError maps engine errors to status codes.
func writeError(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case workout.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, workout.ErrConfirmDiscard):
		status = http.StatusConflict
		resp.ConfirmDiscard = true
	case errors.Is(err, workout.ErrNotActive), errors.Is(err, workout.ErrAlreadyActive):
		status = http.StatusConflict
	case workout.IsPersistenceError(err):
		status = http.StatusServiceUnavailable
	case errors.Is(err, workout.ErrNotFound):
		status = http.StatusNotFound
	default:
		log.Errorf("workout handler: %s", err)
		resp.Error = "internal error"
	}

	pkg.WriteJSONResponse(w, resp, status)
}

func writeBadRequest(w http.ResponseWriter, span trace.Span, msg string) {
	span.SetStatus(codes.Error, msg)
	pkg.WriteJSONResponse(w, errorResponse{Error: msg}, http.StatusBadRequest)
}

// requestUser starts the handler span and resolves the logged user set by the auth middleware.
func requestUser(w http.ResponseWriter, r *http.Request, spanName string) (context.Context, trace.Span, int, bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "no-user")
		http.Error(w, "no can do", http.StatusUnauthorized)
		return ctx, span, 0, false
	}
	span.SetAttributes(attribute.Int("user.id", userID))
	return ctx, span, userID, true
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, workout.NewValidationError(name, workout.ErrInvalidValue)
	}
	return value, nil
}

func decodeBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return workout.NewValidationError("body", err)
	}
	return nil
}

// writeSession responds with the current session after a successful mutation.
func (h *Handler) writeSession(w http.ResponseWriter, span trace.Span, userID int) {
	view, err := h.engine.Session(userID)
	if err != nil {
		writeError(w, span, err)
		return
	}
	pkg.WriteJSONResponseOK(w, view)
}

func (h *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.exercises.list")
	defer span.End()
	if !ok {
		return
	}

	query := r.URL.Query()
	exercises, err := h.catalog.List(ctx, workout.ExerciseFilter{
		Category:  query.Get("category"),
		Muscle:    query.Get("muscle"),
		Equipment: query.Get("equipment"),
		UserID:    &userID,
	})
	if err != nil {
		writeError(w, span, err)
		return
	}
	if exercises == nil {
		exercises = []workout.Exercise{}
	}
	pkg.WriteJSONResponseOK(w, exercises)
}

func (h *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.exercises.get")
	defer span.End()
	if !ok {
		return
	}

	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, span, err)
		return
	}

	exercise, err := h.catalog.Get(ctx, id)
	if err != nil {
		writeError(w, span, err)
		return
	}
	if exercise.IsCustom && (exercise.UserID == nil || *exercise.UserID != userID) {
		writeError(w, span, workout.ErrNotFound)
		return
	}
	pkg.WriteJSONResponseOK(w, exercise)
}

func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.templates.list")
	defer span.End()
	if !ok {
		return
	}

	list, err := h.templates.List(ctx, userID)
	if err != nil {
		writeError(w, span, err)
		return
	}
	if list == nil {
		list = []workout.Template{}
	}
	pkg.WriteJSONResponseOK(w, list)
}

type startRequest struct {
	TemplateID *int `json:"templateId"`
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.session.start")
	defer span.End()
	if !ok {
		return
	}

	// the body is optional, an empty one starts a blank session
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, span, workout.NewValidationError("body", err))
		return
	}

	view, err := h.engine.Start(ctx, userID, req.TemplateID)
	if err != nil {
		writeError(w, span, err)
		return
	}
	pkg.WriteJSONResponse(w, view, http.StatusCreated)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.get")
	defer span.End()
	if !ok {
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleElapsed(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.elapsed")
	defer span.End()
	if !ok {
		return
	}

	elapsed := h.engine.Elapsed(userID)
	pkg.WriteJSONResponseOK(w, map[string]int{"elapsedSeconds": int(elapsed.Seconds())})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) HandleSetNotes(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.notes")
	defer span.End()
	if !ok {
		return
	}

	var req notesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, span, err)
		return
	}
	if err := h.engine.SetNotes(userID, req.Notes); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

type addExerciseRequest struct {
	ExerciseID int `json:"exerciseId"`
}

func (h *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.session.exercises.add")
	defer span.End()
	if !ok {
		return
	}

	var req addExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, span, err)
		return
	}
	if req.ExerciseID <= 0 {
		writeBadRequest(w, span, "error, exercise id missing")
		return
	}

	if err := h.engine.AddExercise(ctx, userID, req.ExerciseID); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.exercises.remove")
	defer span.End()
	if !ok {
		return
	}

	exIdx, err := pathInt(r, "ex")
	if err != nil {
		writeError(w, span, err)
		return
	}
	if err := h.engine.RemoveExercise(userID, exIdx); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleSetExerciseNotes(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.exercises.notes")
	defer span.End()
	if !ok {
		return
	}

	exIdx, err := pathInt(r, "ex")
	if err != nil {
		writeError(w, span, err)
		return
	}
	var req notesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, span, err)
		return
	}
	if err := h.engine.SetExerciseNotes(userID, exIdx, req.Notes); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.sets.add")
	defer span.End()
	if !ok {
		return
	}

	exIdx, err := pathInt(r, "ex")
	if err != nil {
		writeError(w, span, err)
		return
	}
	if err := h.engine.AddSet(userID, exIdx); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.sets.remove")
	defer span.End()
	if !ok {
		return
	}

	exIdx, err := pathInt(r, "ex")
	if err != nil {
		writeError(w, span, err)
		return
	}
	setIdx, err := pathInt(r, "set")
	if err != nil {
		writeError(w, span, err)
		return
	}
	if err := h.engine.RemoveSet(userID, exIdx, setIdx); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

type updateSetRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.sets.update")
	defer span.End()
	if !ok {
		return
	}

	exIdx, err := pathInt(r, "ex")
	if err != nil {
		writeError(w, span, err)
		return
	}
	setIdx, err := pathInt(r, "set")
	if err != nil {
		writeError(w, span, err)
		return
	}

	var req updateSetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, span, err)
		return
	}
	mutation, err := session.ParseMutation(req.Field, req.Value)
	if err != nil {
		writeError(w, span, err)
		return
	}
	span.SetAttributes(attribute.String("set.field", mutation.Field()))

	if err := h.engine.UpdateSet(userID, exIdx, setIdx, mutation); err != nil {
		writeError(w, span, err)
		return
	}
	h.writeSession(w, span, userID)
}

func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.session.end")
	defer span.End()
	if !ok {
		return
	}

	result, err := h.engine.End(ctx, userID)
	if err != nil {
		writeError(w, span, err)
		return
	}

	resp := endResponse{
		WorkoutID: result.WorkoutID,
		Records:   result.Records,
	}
	if resp.Records == nil {
		resp.Records = []workout.PersonalRecord{}
	}
	if result.RecordsErr != nil {
		resp.PRWarning = "workout saved, but personal records could not be updated"
	}
	span.SetAttributes(attribute.Int64("workout.id", result.WorkoutID))
	pkg.WriteJSONResponse(w, resp, http.StatusCreated)
}

func (h *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.discard")
	defer span.End()
	if !ok {
		return
	}

	pkg.WriteJSONResponseOK(w, map[string]bool{"discarded": h.engine.Discard(userID)})
}

func (h *Handler) HandleRest(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.rest")
	defer span.End()
	if !ok {
		return
	}
	pkg.WriteJSONResponseOK(w, h.engine.Rest(userID))
}

func (h *Handler) HandleRestAction(w http.ResponseWriter, r *http.Request) {
	_, span, userID, ok := requestUser(w, r, "handler.session.rest.action")
	defer span.End()
	if !ok {
		return
	}

	action := mux.Vars(r)["action"]
	span.SetAttributes(attribute.String("rest.action", action))

	var (
		view engine.RestView
		err  error
	)
	switch action {
	case "pause":
		view, err = h.engine.PauseRest(userID)
	case "resume":
		view, err = h.engine.ResumeRest(userID)
	case "reset":
		view, err = h.engine.ResetRest(userID)
	default:
		writeBadRequest(w, span, "error, unknown rest action")
		return
	}
	if err != nil {
		writeError(w, span, err)
		return
	}
	pkg.WriteJSONResponseOK(w, view)
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.workouts.list")
	defer span.End()
	if !ok {
		return
	}

	query := r.URL.Query()
	var filter workout.WorkoutFilter
	from, err := parseDate(query.Get("from"))
	if err != nil {
		writeBadRequest(w, span, "error, invalid from date")
		return
	}
	to, err := parseDate(query.Get("to"))
	if err != nil {
		writeBadRequest(w, span, "error, invalid to date")
		return
	}
	filter.From, filter.To = from, to
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeBadRequest(w, span, "error, invalid limit")
			return
		}
		filter.Limit = limit
	}

	workouts, err := h.history.Workouts(ctx, userID, filter)
	if err != nil {
		writeError(w, span, err)
		return
	}
	if workouts == nil {
		workouts = []workout.Workout{}
	}
	pkg.WriteJSONResponseOK(w, workouts)
}

func (h *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.workouts.get")
	defer span.End()
	if !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, span, "error, id NaN")
		return
	}

	wo, err := h.history.Workout(ctx, userID, id)
	if err != nil {
		writeError(w, span, err)
		return
	}
	pkg.WriteJSONResponseOK(w, wo)
}

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.records")
	defer span.End()
	if !ok {
		return
	}

	records, err := h.history.Records(ctx, userID)
	if err != nil {
		writeError(w, span, err)
		return
	}
	if records == nil {
		records = []workout.PersonalRecord{}
	}
	pkg.WriteJSONResponseOK(w, records)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span, userID, ok := requestUser(w, r, "handler.stats")
	defer span.End()
	if !ok {
		return
	}

	profile, err := h.stats.Profile(ctx, userID, h.now())
	if err != nil {
		writeError(w, span, err)
		return
	}
	pkg.WriteJSONResponseOK(w, profile)
}
