package templates

import (
	"context"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=loader_mocks_test.go -package=templates_test

type templatesRepo interface {
	Templates(ctx context.Context, userID int) ([]workout.Template, error)
	TemplateEntries(ctx context.Context, userID, templateID int) ([]workout.TemplateEntry, error)
}

type Loader struct {
	repo templatesRepo
}

func NewLoader(repo templatesRepo) *Loader {
	return &Loader{repo: repo}
}

func (l *Loader) List(ctx context.Context, userID int) ([]workout.Template, error) {
	return l.repo.Templates(ctx, userID)
}

// Load returns the ordered exercises of the user's template with their defaults.
func (l *Loader) Load(ctx context.Context, userID, templateID int) (_ []workout.TemplateEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("template-id", templateID))

	entries, err := l.repo.TemplateEntries(ctx, userID, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template %d: %w", templateID, err)
	}
	return entries, nil
}

// Expand turns template entries into session exercises, each with DefaultSets
// sets of the default reps, weight and rest. Set warm-up flags are left to the session.
func Expand(entries []workout.TemplateEntry, unit workout.WeightUnit) []workout.ActiveExercise {
	exercises := make([]workout.ActiveExercise, 0, len(entries))
	for _, entry := range entries {
		setsCount := entry.DefaultSets
		if setsCount < 1 {
			setsCount = 1
		}

		sets := make([]workout.Set, setsCount)
		for i := range sets {
			sets[i] = workout.Set{
				Number: i + 1,
				Reps:   entry.DefaultReps,
				Weight: entry.DefaultWeight,
				Unit:   unit,
			}
			if entry.RestSeconds > 0 {
				rest := entry.RestSeconds
				sets[i].RestSeconds = &rest
			}
		}

		exercises = append(exercises, workout.ActiveExercise{
			Exercise: entry.Exercise,
			Sets:     sets,
			Notes:    entry.Notes,
		})
	}
	return exercises
}
