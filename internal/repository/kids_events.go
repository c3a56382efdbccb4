package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/homehub/internal/models"
)

const kidsEventColumns = `id, title, event_date, event_time, child_name, location, description,
	source, source_id, reminder_enabled, created_at`

// PostgresKidsEventRepository stores child events, listed by event date.
type PostgresKidsEventRepository struct {
	*PostgresRepository[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
}

// NewPostgresKidsEventRepository creates the kids-event repository using the provided *sql.DB.
func NewPostgresKidsEventRepository(db *sql.DB) *PostgresKidsEventRepository {
	return &PostgresKidsEventRepository{&PostgresRepository[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]{
		DB:      db,
		table:   "kids_events",
		columns: kidsEventColumns,
		orderBy: "event_date DESC, id DESC",
		scan:    scanKidsEvent,
		insert: func(in models.KidsEventInput) []column {
			reminder := true
			if in.ReminderEnabled != nil {
				reminder = *in.ReminderEnabled
			}
			return []column{
				{"title", in.Title},
				{"event_date", in.EventDate},
				{"event_time", in.EventTime},
				{"child_name", in.ChildName},
				{"location", in.Location},
				{"description", in.Description},
				{"source", in.Source},
				{"source_id", in.SourceID},
				{"reminder_enabled", reminder},
			}
		},
		patch: func(p models.KidsEventPatch) []column {
			var cols []column
			cols = set(cols, "title", p.Title)
			cols = set(cols, "event_date", p.EventDate)
			cols = setOptional(cols, "event_time", p.EventTime)
			cols = setOptional(cols, "child_name", p.ChildName)
			cols = setOptional(cols, "location", p.Location)
			cols = setOptional(cols, "description", p.Description)
			cols = set(cols, "source", p.Source)
			cols = setOptional(cols, "source_id", p.SourceID)
			cols = set(cols, "reminder_enabled", p.ReminderEnabled)
			return cols
		},
	}}
}

// GetBySource finds an event imported from an external calendar.
func (r *PostgresKidsEventRepository) GetBySource(ctx context.Context, source, sourceID string) (*models.KidsEvent, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+kidsEventColumns+` FROM kids_events WHERE source = $1 AND source_id = $2 ORDER BY id LIMIT 1`,
		source, sourceID)
	event, err := scanKidsEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kids event by source: %w", err)
	}
	return &event, nil
}

func scanKidsEvent(s scanner) (models.KidsEvent, error) {
	var e models.KidsEvent
	var source sql.NullString
	var reminder sql.NullBool
	err := s.Scan(&e.ID, &e.Title, &e.EventDate, &e.EventTime, &e.ChildName, &e.Location,
		&e.Description, &source, &e.SourceID, &reminder, &e.CreatedAt)
	e.Source = source.String
	e.ReminderEnabled = !reminder.Valid || reminder.Bool
	return e, err
}
