// Package engine keeps one workout session per user, together with the user's rest timer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/records"
	"github.com/2beens/gymsession/internal/workout/resttimer"
	"github.com/2beens/gymsession/internal/workout/session"
	"github.com/2beens/gymsession/internal/workout/templates"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=engine_mocks_test.go -package=engine_test

type exerciseCatalog interface {
	Get(ctx context.Context, id int) (*workout.Exercise, error)
}

type templateLoader interface {
	Load(ctx context.Context, userID, templateID int) ([]workout.TemplateEntry, error)
}

type usersRepo interface {
	User(ctx context.Context, userID int) (*workout.User, error)
}

type NewEngineParams struct {
	Writer         workout.Writer
	RecordStore    workout.RecordStore
	Catalog        exerciseCatalog
	Templates      templateLoader
	Users          usersRepo
	MetricsManager *metrics.Manager
	SaveAttempts   int
	SaveBackoff    time.Duration
	// Now and TickerFactory are replaced in tests.
	Now           func() time.Time
	TickerFactory resttimer.TickerFactory
}

// SessionView is the session of a user as rendered to clients.
type SessionView struct {
	ID string `json:"id,omitempty"`
	session.View
	Rest RestView `json:"rest"`
}

type RestView struct {
	State     resttimer.State `json:"state"`
	Remaining int             `json:"remainingSeconds"`
	Selected  int             `json:"selectedSeconds"`
}

type userSession struct {
	id      uuid.UUID
	machine *session.Machine
	timer   *resttimer.Timer
}

type Engine struct {
	mu       sync.Mutex
	sessions map[int]*userSession

	writer         workout.Writer
	evaluator      *records.Evaluator
	catalog        exerciseCatalog
	templates      templateLoader
	users          usersRepo
	metricsManager *metrics.Manager
	saveAttempts   int
	saveBackoff    time.Duration
	now            func() time.Time
	tickerFactory  resttimer.TickerFactory
}

func New(params NewEngineParams) (*Engine, error) {
	if params.Writer == nil {
		return nil, errors.New("workout writer is nil")
	}
	if params.Catalog == nil {
		return nil, errors.New("exercise catalog is nil")
	}
	if params.Users == nil {
		return nil, errors.New("users repo is nil")
	}

	e := &Engine{
		sessions:       map[int]*userSession{},
		writer:         params.Writer,
		catalog:        params.Catalog,
		templates:      params.Templates,
		users:          params.Users,
		metricsManager: params.MetricsManager,
		saveAttempts:   params.SaveAttempts,
		saveBackoff:    params.SaveBackoff,
		now:            params.Now,
		tickerFactory:  params.TickerFactory,
	}
	if params.RecordStore != nil {
		e.evaluator = records.NewEvaluator(params.RecordStore)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.metricsManager == nil {
		e.metricsManager = metrics.NewTestManager()
	}

	return e, nil
}

// userSession returns the user's session holder, creating an idle one on first use.
func (e *Engine) userSession(ctx context.Context, userID int) (*userSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if us, ok := e.sessions[userID]; ok {
		return us, nil
	}

	user, err := e.users.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	timerOpts := []resttimer.Option{
		resttimer.WithOnComplete(func() {
			log.Debugf("engine [user %d]: rest finished", userID)
		}),
	}
	if e.tickerFactory != nil {
		timerOpts = append(timerOpts, resttimer.WithTickerFactory(e.tickerFactory))
	}
	timer := resttimer.New(timerOpts...)

	machineParams := session.NewMachineParams{
		UserID: userID,
		Unit:   user.PreferredWeightUnit,
		Writer: e.writer,
		RestSignal: func(seconds int) {
			if err := timer.Start(seconds); err != nil {
				log.Errorf("engine [user %d]: start rest timer: %s", userID, err)
			}
		},
		Now:          e.now,
		SaveAttempts: e.saveAttempts,
		SaveBackoff:  e.saveBackoff,
	}
	if e.evaluator != nil {
		machineParams.Evaluator = e.evaluator
	}
	machine, err := session.NewMachine(machineParams)
	if err != nil {
		timer.Close()
		return nil, err
	}

	us := &userSession{machine: machine, timer: timer}
	e.sessions[userID] = us
	return us, nil
}

// activeSession returns the user's session only if one was ever created.
func (e *Engine) activeSession(userID int) (*userSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	us, ok := e.sessions[userID]
	if !ok {
		return nil, workout.ErrNotActive
	}
	return us, nil
}

// Start begins a session, seeded from the template when templateID is set.
func (e *Engine) Start(ctx context.Context, userID int, templateID *int) (_ *SessionView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	us, err := e.userSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if us.machine.State() == session.StateActive {
		return nil, workout.ErrAlreadyActive
	}

	var seed []workout.ActiveExercise
	if templateID != nil {
		if e.templates == nil {
			return nil, errors.New("templates are not available")
		}
		span.SetAttributes(attribute.Int("template-id", *templateID))
		entries, err := e.templates.Load(ctx, userID, *templateID)
		if err != nil {
			return nil, err
		}
		seed = templates.Expand(entries, us.machine.Unit())
	}

	if err := us.machine.Start(seed); err != nil {
		return nil, err
	}
	e.mu.Lock()
	us.id = uuid.New()
	e.mu.Unlock()
	us.timer.Reset()

	e.metricsManager.CounterSessionsStarted.Inc()
	e.metricsManager.GaugeActiveSessions.Inc()
	log.Debugf("engine [user %d]: session %s started", userID, us.id)

	view := e.view(us)
	return &view, nil
}

func (e *Engine) Session(userID int) (*SessionView, error) {
	us, err := e.activeSession(userID)
	if err != nil {
		return &SessionView{
			View: session.View{State: session.StateIdle, Exercises: []workout.ActiveExercise{}},
		}, nil
	}
	view := e.view(us)
	return &view, nil
}

func (e *Engine) Elapsed(userID int) time.Duration {
	us, err := e.activeSession(userID)
	if err != nil {
		return 0
	}
	return us.machine.Elapsed()
}

func (e *Engine) AddExercise(ctx context.Context, userID, exerciseID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.add_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("exercise-id", exerciseID))

	us, err := e.activeSession(userID)
	if err != nil {
		return err
	}
	if us.machine.State() != session.StateActive {
		return workout.ErrNotActive
	}

	exercise, err := e.catalog.Get(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, workout.ErrNotFound) {
			return workout.NewValidationError("exerciseId", fmt.Errorf("%w: exercise %d", workout.ErrNotFound, exerciseID))
		}
		return err
	}
	if exercise.IsCustom && (exercise.UserID == nil || *exercise.UserID != userID) {
		return workout.NewValidationError("exerciseId", fmt.Errorf("%w: exercise %d", workout.ErrNotFound, exerciseID))
	}

	return us.machine.AddExercise(*exercise)
}

func (e *Engine) RemoveExercise(userID, exIdx int) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.RemoveExercise(exIdx)
	})
}

func (e *Engine) SetExerciseNotes(userID, exIdx int, notes string) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.SetExerciseNotes(exIdx, notes)
	})
}

func (e *Engine) SetNotes(userID int, notes string) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.SetNotes(notes)
	})
}

func (e *Engine) AddSet(userID, exIdx int) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.AddSet(exIdx)
	})
}

func (e *Engine) RemoveSet(userID, exIdx, setIdx int) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.RemoveSet(exIdx, setIdx)
	})
}

func (e *Engine) UpdateSet(userID, exIdx, setIdx int, mutation session.Mutation) error {
	return e.withMachine(userID, func(m *session.Machine) error {
		return m.UpdateSet(exIdx, setIdx, mutation)
	})
}

func (e *Engine) withMachine(userID int, f func(m *session.Machine) error) error {
	us, err := e.activeSession(userID)
	if err != nil {
		return err
	}
	return f(us.machine)
}

// End persists the user's session. On a *workout.PersistenceError the session stays active.
func (e *Engine) End(ctx context.Context, userID int) (_ *session.EndResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.end")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	us, err := e.activeSession(userID)
	if err != nil {
		return nil, err
	}

	saveStart := time.Now()
	result, err := us.machine.End(ctx)
	if err != nil {
		if workout.IsPersistenceError(err) {
			e.metricsManager.CounterWorkoutSaveErrors.Inc()
			log.Errorf("engine [user %d]: end session: %s", userID, err)
		}
		return nil, err
	}

	e.metricsManager.HistogramWorkoutSaveDelay.Observe(time.Since(saveStart).Seconds())
	e.metricsManager.CounterWorkoutsSaved.Inc()
	e.metricsManager.GaugeActiveSessions.Dec()
	e.metricsManager.HistogramWorkoutDuration.Observe(result.Snapshot.Duration().Minutes())
	for _, pr := range result.Records {
		e.metricsManager.CounterPersonalRecords.WithLabelValues(string(pr.Type)).Inc()
	}
	if result.RecordsErr != nil {
		e.metricsManager.CounterPRErrors.Inc()
	}

	us.timer.Reset()
	e.mu.Lock()
	us.id = uuid.Nil
	e.mu.Unlock()

	span.SetAttributes(attribute.Int64("workout-id", result.WorkoutID))
	log.Infof("engine [user %d]: workout %d saved, %d new record(s)", userID, result.WorkoutID, len(result.Records))
	return result, nil
}

// Discard drops the user's active session. Returns false if there was none.
func (e *Engine) Discard(userID int) bool {
	us, err := e.activeSession(userID)
	if err != nil {
		return false
	}
	if !us.machine.Discard() {
		return false
	}

	us.timer.Reset()
	e.mu.Lock()
	us.id = uuid.Nil
	e.mu.Unlock()

	e.metricsManager.CounterSessionsDiscarded.Inc()
	e.metricsManager.GaugeActiveSessions.Dec()
	return true
}

func (e *Engine) Rest(userID int) RestView {
	us, err := e.activeSession(userID)
	if err != nil {
		return RestView{State: resttimer.Stopped}
	}
	return restView(us.timer)
}

func (e *Engine) PauseRest(userID int) (RestView, error) {
	return e.withTimer(userID, func(t *resttimer.Timer) {
		t.Pause()
	})
}

func (e *Engine) ResumeRest(userID int) (RestView, error) {
	return e.withTimer(userID, func(t *resttimer.Timer) {
		t.Resume()
	})
}

func (e *Engine) ResetRest(userID int) (RestView, error) {
	return e.withTimer(userID, func(t *resttimer.Timer) {
		t.Reset()
	})
}

func (e *Engine) withTimer(userID int, f func(t *resttimer.Timer)) (RestView, error) {
	us, err := e.activeSession(userID)
	if err != nil {
		return RestView{}, err
	}
	if us.machine.State() != session.StateActive {
		return RestView{}, workout.ErrNotActive
	}
	f(us.timer)
	return restView(us.timer), nil
}

// Close stops all rest timers. Active sessions are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for userID, us := range e.sessions {
		if us.machine.State() == session.StateActive {
			log.Warnf("engine [user %d]: dropping active session %s on shutdown", userID, us.id)
		}
		us.timer.Close()
	}
	e.sessions = map[int]*userSession{}
}

func (e *Engine) view(us *userSession) SessionView {
	e.mu.Lock()
	id := us.id
	e.mu.Unlock()

	v := SessionView{
		View: us.machine.View(),
		Rest: restView(us.timer),
	}
	if id != uuid.Nil && v.State == session.StateActive {
		v.ID = id.String()
	}
	return v
}

func restView(t *resttimer.Timer) RestView {
	return RestView{
		State:     t.State(),
		Remaining: t.Remaining(),
		Selected:  t.Selected(),
	}
}
