package repository

import (
	"database/sql"

	"github.com/atinyakov/homehub/internal/models"
)

// PostgresGroceryRepository is the PostgreSQL groceries table.
type PostgresGroceryRepository = PostgresRepository[models.Grocery, models.GroceryInput, models.GroceryPatch]

// NewPostgresGroceryRepository creates the grocery repository using the provided *sql.DB.
func NewPostgresGroceryRepository(db *sql.DB) *PostgresGroceryRepository {
	return &PostgresGroceryRepository{
		DB:      db,
		table:   "groceries",
		columns: `id, name, checked, created_at`,
		orderBy: "created_at DESC, id DESC",
		scan: func(s scanner) (models.Grocery, error) {
			var g models.Grocery
			err := s.Scan(&g.ID, &g.Name, &g.Checked, &g.CreatedAt)
			return g, err
		},
		insert: func(in models.GroceryInput) []column {
			return []column{{"name", in.Name}, {"checked", in.Checked}}
		},
		patch: func(p models.GroceryPatch) []column {
			var cols []column
			cols = set(cols, "name", p.Name)
			cols = set(cols, "checked", p.Checked)
			return cols
		},
	}
}
