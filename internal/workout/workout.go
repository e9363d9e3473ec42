//go:generate mockgen -source=$GOFILE -destination=mocks/workout_mocks.go -package=mocks

package workout

import (
	"context"
	"time"
)

type WeightUnit string

const (
	UnitKg  WeightUnit = "kg"
	UnitLbs WeightUnit = "lbs"
)

func (u WeightUnit) IsValid() bool {
	return u == UnitKg || u == UnitLbs
}

func (u WeightUnit) String() string {
	return string(u)
}

// Exercise is a catalog entry. Sessions reference it by ID.
type Exercise struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	PrimaryMuscle    string   `json:"primaryMuscle"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Equipment        string   `json:"equipment"`
	Difficulty       int      `json:"difficulty"`
	Instructions     string   `json:"instructions"`
	IsCustom         bool     `json:"isCustom"`
	UserID           *int     `json:"userId,omitempty"`
}

// Set is a single workout set. Number is 1-based and contiguous within its exercise.
type Set struct {
	Number      int        `json:"number"`
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Unit        WeightUnit `json:"unit"`
	Completed   bool       `json:"completed"`
	IsWarmup    bool       `json:"isWarmup"`
	RestSeconds *int       `json:"restSeconds,omitempty"`
	RPE         *int       `json:"rpe,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Volume is weight x reps of the set, regardless of its completion.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

type ActiveExercise struct {
	Exercise Exercise `json:"exercise"`
	Sets     []Set    `json:"sets"`
	Notes    string   `json:"notes,omitempty"`
}

func (ae ActiveExercise) clone() ActiveExercise {
	c := ae
	c.Sets = make([]Set, len(ae.Sets))
	for i, s := range ae.Sets {
		c.Sets[i] = s.clone()
	}
	c.Exercise.SecondaryMuscles = append([]string(nil), ae.Exercise.SecondaryMuscles...)
	return c
}

func (s Set) clone() Set {
	c := s
	if s.RestSeconds != nil {
		v := *s.RestSeconds
		c.RestSeconds = &v
	}
	if s.RPE != nil {
		v := *s.RPE
		c.RPE = &v
	}
	return c
}

// CloneExercises deep copies exercises, so the copy shares no set slices or pointers.
func CloneExercises(exercises []ActiveExercise) []ActiveExercise {
	if exercises == nil {
		return nil
	}
	c := make([]ActiveExercise, len(exercises))
	for i, ex := range exercises {
		c[i] = ex.clone()
	}
	return c
}

// Snapshot is the immutable, final state of a session handed over for persistence.
type Snapshot struct {
	UserID    int              `json:"userId"`
	StartTime time.Time        `json:"startTime"`
	EndTime   time.Time        `json:"endTime"`
	Exercises []ActiveExercise `json:"exercises"`
	Notes     string           `json:"notes,omitempty"`
	Unit      WeightUnit       `json:"unit"`
}

func (s Snapshot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// DurationSeconds is the whole-second duration stored on the workout header.
func (s Snapshot) DurationSeconds() int {
	return int(s.Duration() / time.Second)
}

// TotalVolume sums weight x reps over all completed sets, warm-ups included.
func (s Snapshot) TotalVolume() float64 {
	var total float64
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.Completed {
				total += set.Volume()
			}
		}
	}
	return total
}

// SetUnit returns the unit stored with a set: its own if set, else the snapshot's.
func (s Snapshot) SetUnit(set Set) WeightUnit {
	if set.Unit.IsValid() {
		return set.Unit
	}
	if s.Unit.IsValid() {
		return s.Unit
	}
	return UnitKg
}

type RecordType string

const (
	RecordOneRepMax RecordType = "1RM"
	RecordVolume    RecordType = "volume"
)

type PersonalRecord struct {
	ID         int `json:"id,omitempty"`
	UserID     int `json:"userId"`
	ExerciseID int `json:"exerciseId"`
	// ExerciseName is only filled by listings.
	ExerciseName string     `json:"exerciseName,omitempty"`
	Type         RecordType `json:"type"`
	Value        float64    `json:"value"`
	Reps         *int       `json:"reps,omitempty"`
	Weight       *float64   `json:"weight,omitempty"`
	Unit         WeightUnit `json:"unit,omitempty"`
	WorkoutID    *int64     `json:"workoutId,omitempty"`
	AchievedAt   time.Time  `json:"achievedAt"`
}

// TemplateEntry is one exercise of a stored workout template with its default prescription.
type TemplateEntry struct {
	Exercise      Exercise `json:"exercise"`
	DefaultSets   int      `json:"defaultSets"`
	DefaultReps   int      `json:"defaultReps"`
	DefaultWeight float64  `json:"defaultWeight"`
	RestSeconds   int      `json:"restSeconds"`
	Notes         string   `json:"notes,omitempty"`
}

// Writer durably stores a completed session. Save is all-or-nothing.
type Writer interface {
	Save(ctx context.Context, snapshot Snapshot) (workoutID int64, err error)
}

// RecordStore reads and upserts the best known personal records.
type RecordStore interface {
	// GetRecord returns nil, nil when there is no record for the key yet.
	GetRecord(ctx context.Context, userID, exerciseID int, recordType RecordType) (*PersonalRecord, error)
	UpsertRecord(ctx context.Context, record PersonalRecord) error
}

// Workout is a persisted session. Exercises are only filled when a single workout is read.
type Workout struct {
	ID              int64            `json:"id"`
	UserID          int              `json:"userId"`
	StartTime       time.Time        `json:"startTime"`
	EndTime         time.Time        `json:"endTime"`
	DurationSeconds int              `json:"durationSeconds"`
	TotalVolume     float64          `json:"totalVolume"`
	Notes           string           `json:"notes,omitempty"`
	Exercises       []ActiveExercise `json:"exercises,omitempty"`
}

// ExerciseFilter narrows catalog listings. Empty fields match everything.
// Custom exercises are only listed for their owner.
type ExerciseFilter struct {
	Category  string
	Muscle    string
	Equipment string
	UserID    *int
}

type WorkoutFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type Template struct {
	ID          int    `json:"id"`
	UserID      int    `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsFavorite  bool   `json:"isFavorite"`
}

type User struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	PreferredWeightUnit WeightUnit `json:"preferredWeightUnit"`
}
