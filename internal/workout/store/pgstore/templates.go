package pgstore

import (
	"context"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Store) Templates(ctx context.Context, userID int) (_ []workout.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, description, is_favorite
		FROM workout_templates
		WHERE user_id = $1
		ORDER BY is_favorite DESC, name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]workout.Template, 0)
	for rows.Next() {
		var t workout.Template
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.IsFavorite); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// TemplateEntries returns the exercises of the user's template, in template order.
// workout.ErrNotFound is returned if the template does not exist or belongs to someone else.
func (s *Store) TemplateEntries(ctx context.Context, userID, templateID int) (_ []workout.TemplateEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.entries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("template-id", templateID))

	var exists bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM workout_templates WHERE id = $1 AND user_id = $2)
	`, templateID, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, workout.ErrNotFound
	}

	rows, err := s.db.Query(ctx, `
		SELECT te.default_sets, te.default_reps, te.default_weight, te.rest_time_seconds, te.notes,
		       `+exerciseColumns+`
		FROM template_exercises te
		JOIN exercises e ON e.id = te.exercise_id
		WHERE te.template_id = $1
		ORDER BY te.order_index
	`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]workout.TemplateEntry, 0)
	for rows.Next() {
		var entry workout.TemplateEntry
		err := scanExercise(rows, &entry.Exercise,
			&entry.DefaultSets, &entry.DefaultReps, &entry.DefaultWeight, &entry.RestSeconds, &entry.Notes,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
