package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	log "github.com/sirupsen/logrus"
)

type State int

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "active":
		*s = StateActive
	default:
		return fmt.Errorf("unknown session state: %s", text)
	}
	return nil
}

const (
	defaultSaveAttempts = 3
	defaultSaveBackoff  = 100 * time.Millisecond
)

// RecordEvaluator computes personal records of a freshly committed workout.
type RecordEvaluator interface {
	Evaluate(ctx context.Context, snapshot workout.Snapshot, workoutID int64) ([]workout.PersonalRecord, error)
}

type NewMachineParams struct {
	UserID    int
	Unit      workout.WeightUnit
	Writer    workout.Writer
	Evaluator RecordEvaluator
	// RestSignal is called, outside the machine lock, when a set with rest seconds gets completed.
	RestSignal   func(seconds int)
	Now          func() time.Time
	SaveAttempts int
	SaveBackoff  time.Duration
}

// EndResult is the outcome of a successfully ended session.
// RecordsErr is set when the workout was saved, but record evaluation failed.
type EndResult struct {
	WorkoutID  int64                    `json:"workoutId"`
	Snapshot   workout.Snapshot         `json:"-"`
	Records    []workout.PersonalRecord `json:"prs"`
	RecordsErr error                    `json:"-"`
}

// View is a read-only copy of the session state.
type View struct {
	State     State                    `json:"state"`
	StartTime *time.Time               `json:"startTime,omitempty"`
	Elapsed   int                      `json:"elapsedSeconds"`
	Exercises []workout.ActiveExercise `json:"exercises"`
	Notes     string                   `json:"notes,omitempty"`
}

// Machine is the in-memory workout session of one user. It is either idle,
// or active and holding the exercises and sets logged so far.
type Machine struct {
	mu        sync.Mutex
	userID    int
	unit      workout.WeightUnit
	state     State
	startTime time.Time
	exercises []workout.ActiveExercise
	notes     string

	writer       workout.Writer
	evaluator    RecordEvaluator
	restSignal   func(seconds int)
	now          func() time.Time
	saveAttempts int
	saveBackoff  time.Duration
}

func NewMachine(params NewMachineParams) (*Machine, error) {
	if params.Writer == nil {
		return nil, errors.New("workout writer is nil")
	}

	m := &Machine{
		userID:       params.UserID,
		unit:         params.Unit,
		state:        StateIdle,
		writer:       params.Writer,
		evaluator:    params.Evaluator,
		restSignal:   params.RestSignal,
		now:          params.Now,
		saveAttempts: params.SaveAttempts,
		saveBackoff:  params.SaveBackoff,
	}
	if !m.unit.IsValid() {
		m.unit = workout.UnitKg
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.saveAttempts <= 0 {
		m.saveAttempts = defaultSaveAttempts
	}
	if m.saveBackoff <= 0 {
		m.saveBackoff = defaultSaveBackoff
	}

	return m, nil
}

func (m *Machine) UserID() int {
	return m.userID
}

// Unit is the user's preferred weight unit, used for new sets.
func (m *Machine) Unit() workout.WeightUnit {
	return m.unit
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start activates the session, optionally seeded with exercises (e.g. from a template).
// The first set of each seeded exercise is marked as a warm-up.
func (m *Machine) Start(seed []workout.ActiveExercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateActive {
		return workout.ErrAlreadyActive
	}

	exercises := workout.CloneExercises(seed)
	if exercises == nil {
		exercises = []workout.ActiveExercise{}
	}
	for i := range exercises {
		if len(exercises[i].Sets) == 0 {
			exercises[i].Sets = []workout.Set{m.defaultSet()}
		}
		for j := range exercises[i].Sets {
			exercises[i].Sets[j].Number = j + 1
			exercises[i].Sets[j].IsWarmup = j == 0
			if !exercises[i].Sets[j].Unit.IsValid() {
				exercises[i].Sets[j].Unit = m.unit
			}
		}
	}

	m.state = StateActive
	m.startTime = m.now()
	m.exercises = exercises
	m.notes = ""

	log.Debugf("session [user %d]: started with %d exercise(s)", m.userID, len(exercises))
	return nil
}

// AddExercise appends an exercise with one default warm-up set.
func (m *Machine) AddExercise(exercise workout.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return workout.ErrNotActive
	}

	m.exercises = append(m.exercises, workout.ActiveExercise{
		Exercise: exercise,
		Sets:     []workout.Set{m.defaultSet()},
	})
	return nil
}

func (m *Machine) RemoveExercise(exIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkExerciseLocked(exIdx); err != nil {
		return err
	}

	m.exercises = append(m.exercises[:exIdx], m.exercises[exIdx+1:]...)
	return nil
}

func (m *Machine) SetExerciseNotes(exIdx int, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkExerciseLocked(exIdx); err != nil {
		return err
	}

	m.exercises[exIdx].Notes = notes
	return nil
}

func (m *Machine) SetNotes(notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return workout.ErrNotActive
	}

	m.notes = notes
	return nil
}

// AddSet appends a set copying reps, weight, unit and rest from the last set of the exercise.
func (m *Machine) AddSet(exIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkExerciseLocked(exIdx); err != nil {
		return err
	}

	sets := m.exercises[exIdx].Sets
	newSet := m.defaultSet()
	newSet.IsWarmup = false
	if len(sets) > 0 {
		prev := sets[len(sets)-1]
		newSet.Number = prev.Number + 1
		newSet.Reps = prev.Reps
		newSet.Weight = prev.Weight
		if prev.Unit.IsValid() {
			newSet.Unit = prev.Unit
		}
		if prev.RestSeconds != nil {
			rest := *prev.RestSeconds
			newSet.RestSeconds = &rest
		}
	}

	m.exercises[exIdx].Sets = append(sets, newSet)
	return nil
}

// RemoveSet removes the set and renumbers the remaining sets 1..N.
func (m *Machine) RemoveSet(exIdx, setIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSetLocked(exIdx, setIdx); err != nil {
		return err
	}

	sets := m.exercises[exIdx].Sets
	sets = append(sets[:setIdx], sets[setIdx+1:]...)
	for i := range sets {
		sets[i].Number = i + 1
	}
	m.exercises[exIdx].Sets = sets
	return nil
}

// UpdateSet applies a single field mutation. Completing a set which has
// rest seconds set triggers the rest signal.
func (m *Machine) UpdateSet(exIdx, setIdx int, mutation Mutation) error {
	if mutation == nil {
		return workout.NewValidationError("mutation", fmt.Errorf("%w: nil mutation", workout.ErrInvalidValue))
	}

	restSeconds, err := m.updateSet(exIdx, setIdx, mutation)
	if err != nil {
		return err
	}

	if restSeconds > 0 && m.restSignal != nil {
		m.restSignal(restSeconds)
	}
	return nil
}

func (m *Machine) updateSet(exIdx, setIdx int, mutation Mutation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSetLocked(exIdx, setIdx); err != nil {
		return 0, err
	}

	current := &m.exercises[exIdx].Sets[setIdx]
	updated := *current
	if err := mutation.apply(&updated); err != nil {
		return 0, err
	}

	justCompleted := !current.Completed && updated.Completed
	*current = updated

	if justCompleted && updated.RestSeconds != nil && *updated.RestSeconds > 0 {
		return *updated.RestSeconds, nil
	}
	return 0, nil
}

// Elapsed returns the time since the session started, zero when idle.
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsedLocked()
}

func (m *Machine) elapsedLocked() time.Duration {
	if m.state != StateActive {
		return 0
	}
	elapsed := m.now().Sub(m.startTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:     m.state,
		Elapsed:   int(m.elapsedLocked() / time.Second),
		Exercises: workout.CloneExercises(m.exercises),
		Notes:     m.notes,
	}
	if v.Exercises == nil {
		v.Exercises = []workout.ActiveExercise{}
	}
	if m.state == StateActive {
		start := m.startTime
		v.StartTime = &start
	}
	return v
}

// Discard drops the active session without persisting anything.
// Returns false if there was no active session.
func (m *Machine) Discard() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return false
	}
	m.clearLocked()
	log.Debugf("session [user %d]: discarded", m.userID)
	return true
}

// End persists the session and returns to idle. A session without exercises
// is not persisted, ErrConfirmDiscard is returned instead. If the write fails
// after all attempts, the session stays active and a *PersistenceError is returned.
func (m *Machine) End(ctx context.Context) (_ *EndResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.end")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot, workoutID, err := m.persist(ctx)
	if err != nil {
		return nil, err
	}

	result := &EndResult{
		WorkoutID: workoutID,
		Snapshot:  snapshot,
		Records:   []workout.PersonalRecord{},
	}

	if m.evaluator == nil {
		return result, nil
	}

	records, evalErr := m.evaluator.Evaluate(ctx, snapshot, workoutID)
	if records != nil {
		result.Records = records
	}
	if evalErr != nil {
		var prErr *workout.PRComputationError
		if !errors.As(evalErr, &prErr) {
			evalErr = &workout.PRComputationError{WorkoutID: workoutID, Err: evalErr}
		}
		result.RecordsErr = evalErr
		log.Warnf("session [user %d]: workout %d saved, records evaluation failed: %s", m.userID, workoutID, evalErr)
	}

	return result, nil
}

// persist holds the lock for the whole save, so no mutation can interleave
// between taking the snapshot and clearing the session.
func (m *Machine) persist(ctx context.Context) (workout.Snapshot, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return workout.Snapshot{}, 0, workout.ErrNotActive
	}
	if len(m.exercises) == 0 {
		return workout.Snapshot{}, 0, workout.ErrConfirmDiscard
	}

	endTime := m.now()
	if endTime.Before(m.startTime) {
		endTime = m.startTime
	}
	snapshot := workout.Snapshot{
		UserID:    m.userID,
		StartTime: m.startTime,
		EndTime:   endTime,
		Exercises: workout.CloneExercises(m.exercises),
		Notes:     m.notes,
		Unit:      m.unit,
	}

	workoutID, err := m.saveWithRetry(ctx, snapshot)
	if err != nil {
		return workout.Snapshot{}, 0, err
	}

	m.clearLocked()
	log.Debugf("session [user %d]: ended, saved as workout %d", m.userID, workoutID)
	return snapshot, workoutID, nil
}

func (m *Machine) saveWithRetry(ctx context.Context, snapshot workout.Snapshot) (int64, error) {
	var lastErr error
	backoff := m.saveBackoff
	attempt := 0
	for attempt < m.saveAttempts {
		attempt++
		workoutID, err := m.writer.Save(ctx, snapshot)
		if err == nil {
			return workoutID, nil
		}
		lastErr = err
		log.Warnf("session [user %d]: save attempt %d/%d failed: %s", m.userID, attempt, m.saveAttempts, err)

		if attempt == m.saveAttempts || ctx.Err() != nil || errors.Is(err, workout.ErrNotFound) {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, &workout.PersistenceError{Attempts: attempt, Err: errors.Join(lastErr, ctx.Err())}
		case <-timer.C:
		}
		backoff *= 2
	}

	return 0, &workout.PersistenceError{Attempts: attempt, Err: lastErr}
}

func (m *Machine) clearLocked() {
	m.state = StateIdle
	m.startTime = time.Time{}
	m.exercises = nil
	m.notes = ""
}

func (m *Machine) defaultSet() workout.Set {
	return workout.Set{
		Number:   1,
		Unit:     m.unit,
		IsWarmup: true,
	}
}

func (m *Machine) checkExerciseLocked(exIdx int) error {
	if m.state != StateActive {
		return workout.ErrNotActive
	}
	if exIdx < 0 || exIdx >= len(m.exercises) {
		return workout.NewValidationError("exercise", fmt.Errorf("%w: exercise index %d", workout.ErrOutOfRange, exIdx))
	}
	return nil
}

func (m *Machine) checkSetLocked(exIdx, setIdx int) error {
	if err := m.checkExerciseLocked(exIdx); err != nil {
		return err
	}
	if setIdx < 0 || setIdx >= len(m.exercises[exIdx].Sets) {
		return workout.NewValidationError("set", fmt.Errorf("%w: set index %d", workout.ErrOutOfRange, setIdx))
	}
	return nil
}
