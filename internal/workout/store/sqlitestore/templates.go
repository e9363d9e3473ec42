package sqlitestore

import (
	"context"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Store) Templates(ctx context.Context, userID int) (_ []workout.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, is_favorite
		FROM workout_templates
		WHERE user_id = ?
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

func (s *Store) TemplateEntries(ctx context.Context, userID, templateID int) (_ []workout.TemplateEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.templates.entries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID), attribute.Int("template-id", templateID))

	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM workout_templates WHERE id = ? AND user_id = ?)
	`, templateID, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, workout.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT te.default_sets, te.default_reps, te.default_weight, te.rest_time_seconds, te.notes,
		       `+exerciseColumns+`
		FROM template_exercises te
		JOIN exercises e ON e.id = te.exercise_id
		WHERE te.template_id = ?
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

// AddTemplate stores a template with its entries, in the given order, and returns its id.
func (s *Store) AddTemplate(ctx context.Context, template workout.Template, entries []workout.TemplateEntry) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO workout_templates (user_id, name, description, is_favorite)
		VALUES (?, ?, ?, ?)
	`, template.UserID, template.Name, template.Description, template.IsFavorite)
	if err != nil {
		return 0, fmt.Errorf("insert template: %w", err)
	}
	templateID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, entry := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO template_exercises (template_id, exercise_id, order_index, default_sets,
			                                default_reps, default_weight, rest_time_seconds, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			templateID, entry.Exercise.ID, i, entry.DefaultSets,
			entry.DefaultReps, entry.DefaultWeight, entry.RestSeconds, entry.Notes,
		)
		if err != nil {
			return 0, fmt.Errorf("insert template entry %d: %w", i, err)
		}
	}

	return int(templateID), nil
}
