package session

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/2beens/gymsession/internal/workout"
)

// Mutation is a single-field change of a set. Each concrete type validates its own value.
type Mutation interface {
	Field() string
	apply(set *workout.Set) error
}

type SetReps struct{ Reps int }

type SetWeight struct{ Weight float64 }

type SetUnit struct{ Unit workout.WeightUnit }

type SetCompleted struct{ Completed bool }

type SetWarmup struct{ IsWarmup bool }

// SetRestSeconds with a nil Seconds clears the rest period.
type SetRestSeconds struct{ Seconds *int }

// SetRPE with a nil RPE clears the rating.
type SetRPE struct{ RPE *int }

type SetNotes struct{ Notes string }

func (SetReps) Field() string        { return "reps" }
func (SetWeight) Field() string      { return "weight" }
func (SetUnit) Field() string        { return "unit" }
func (SetCompleted) Field() string   { return "completed" }
func (SetWarmup) Field() string      { return "isWarmup" }
func (SetRestSeconds) Field() string { return "restSeconds" }
func (SetRPE) Field() string         { return "rpe" }
func (SetNotes) Field() string       { return "notes" }

func (m SetReps) apply(set *workout.Set) error {
	if m.Reps < 0 {
		return workout.NewValidationError(m.Field(), fmt.Errorf("%w: reps %d < 0", workout.ErrInvalidValue, m.Reps))
	}
	set.Reps = m.Reps
	return nil
}

func (m SetWeight) apply(set *workout.Set) error {
	if m.Weight < 0 || math.IsNaN(m.Weight) || math.IsInf(m.Weight, 0) {
		return workout.NewValidationError(m.Field(), fmt.Errorf("%w: weight %v", workout.ErrInvalidValue, m.Weight))
	}
	set.Weight = m.Weight
	return nil
}

func (m SetUnit) apply(set *workout.Set) error {
	if !m.Unit.IsValid() {
		return workout.NewValidationError(m.Field(), fmt.Errorf("%w: unit %q", workout.ErrInvalidValue, m.Unit))
	}
	set.Unit = m.Unit
	return nil
}

func (m SetCompleted) apply(set *workout.Set) error {
	set.Completed = m.Completed
	return nil
}

func (m SetWarmup) apply(set *workout.Set) error {
	set.IsWarmup = m.IsWarmup
	return nil
}

func (m SetRestSeconds) apply(set *workout.Set) error {
	if m.Seconds == nil {
		set.RestSeconds = nil
		return nil
	}
	if *m.Seconds < 0 {
		return workout.NewValidationError(m.Field(), fmt.Errorf("%w: rest seconds %d < 0", workout.ErrInvalidValue, *m.Seconds))
	}
	v := *m.Seconds
	set.RestSeconds = &v
	return nil
}

func (m SetRPE) apply(set *workout.Set) error {
	if m.RPE == nil {
		set.RPE = nil
		return nil
	}
	if *m.RPE < 1 || *m.RPE > 10 {
		return workout.NewValidationError(m.Field(), fmt.Errorf("%w: rpe %d not in 1..10", workout.ErrInvalidValue, *m.RPE))
	}
	v := *m.RPE
	set.RPE = &v
	return nil
}

func (m SetNotes) apply(set *workout.Set) error {
	set.Notes = m.Notes
	return nil
}

// ParseMutation decodes a wire level {"field": ..., "value": ...} pair into a Mutation.
func ParseMutation(field string, value json.RawMessage) (Mutation, error) {
	invalid := func(err error) error {
		return workout.NewValidationError(field, fmt.Errorf("%w: %s", workout.ErrInvalidValue, err))
	}

	switch field {
	case "reps":
		var v int
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetReps{Reps: v}, nil
	case "weight":
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetWeight{Weight: v}, nil
	case "unit":
		var v workout.WeightUnit
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetUnit{Unit: v}, nil
	case "completed":
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetCompleted{Completed: v}, nil
	case "isWarmup":
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetWarmup{IsWarmup: v}, nil
	case "restSeconds":
		var v *int
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetRestSeconds{Seconds: v}, nil
	case "rpe":
		var v *int
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetRPE{RPE: v}, nil
	case "notes":
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, invalid(err)
		}
		return SetNotes{Notes: v}, nil
	default:
		return nil, workout.NewValidationError("field", fmt.Errorf("%w: unknown set field %q", workout.ErrInvalidValue, field))
	}
}
