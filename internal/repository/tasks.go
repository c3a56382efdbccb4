package repository

import (
	"database/sql"

	"github.com/atinyakov/homehub/internal/models"
)

const taskColumns = `id, title, category, due_date, completed, priority, created_at`

// PostgresTaskRepository is the PostgreSQL task table.
type PostgresTaskRepository = PostgresRepository[models.Task, models.TaskInput, models.TaskPatch]

// NewPostgresTaskRepository creates the task repository using the provided *sql.DB.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{
		DB:      db,
		table:   "tasks",
		columns: taskColumns,
		orderBy: "created_at DESC, id DESC",
		scan:    scanTask,
		insert: func(in models.TaskInput) []column {
			return []column{
				{"title", in.Title},
				{"category", in.Category},
				{"due_date", in.DueDate},
				{"completed", in.Completed},
				{"priority", in.Priority},
			}
		},
		patch: func(p models.TaskPatch) []column {
			var cols []column
			cols = set(cols, "title", p.Title)
			cols = set(cols, "category", p.Category)
			cols = set(cols, "due_date", p.DueDate)
			cols = set(cols, "completed", p.Completed)
			cols = set(cols, "priority", p.Priority)
			return cols
		},
	}
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	err := s.Scan(&t.ID, &t.Title, &t.Category, &t.DueDate, &t.Completed, &t.Priority, &t.CreatedAt)
	return t, err
}
