package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/homehub/internal/models"
)

const billColumns = `id, provider, amount, due_date, status, last_paid, attachment_url, source, created_at`

// PostgresBillRepository stores bills and answers due-date range queries.
type PostgresBillRepository struct {
	*PostgresRepository[models.Bill, models.BillInput, models.BillPatch]
}

// NewPostgresBillRepository creates the bill repository using the provided *sql.DB.
func NewPostgresBillRepository(db *sql.DB) *PostgresBillRepository {
	return &PostgresBillRepository{&PostgresRepository[models.Bill, models.BillInput, models.BillPatch]{
		DB:      db,
		table:   "bills",
		columns: billColumns,
		orderBy: "created_at DESC, id DESC",
		scan:    scanBill,
		insert: func(in models.BillInput) []column {
			var amount models.Money
			if in.Amount != nil {
				amount = *in.Amount
			}
			return []column{
				{"provider", in.Provider},
				{"amount", amount},
				{"due_date", in.DueDate},
				{"status", in.Status},
				{"last_paid", in.LastPaid},
				{"attachment_url", in.AttachmentURL},
				{"source", in.Source},
			}
		},
		patch: func(p models.BillPatch) []column {
			var cols []column
			cols = set(cols, "provider", p.Provider)
			cols = set(cols, "amount", p.Amount)
			cols = set(cols, "due_date", p.DueDate)
			cols = set(cols, "status", p.Status)
			cols = setOptional(cols, "last_paid", p.LastPaid)
			cols = setOptional(cols, "attachment_url", p.AttachmentURL)
			cols = set(cols, "source", p.Source)
			return cols
		},
	}}
}

// ListDueBetween returns bills with start <= due_date <= end, earliest first.
func (r *PostgresBillRepository) ListDueBetween(ctx context.Context, start, end models.Date) ([]models.Bill, error) {
	return r.queryOrdered(ctx, "due_date >= $1 AND due_date <= $2", "due_date ASC, id ASC",
		"list bills due between", start, end)
}

func scanBill(s scanner) (models.Bill, error) {
	var b models.Bill
	var source sql.NullString
	err := s.Scan(&b.ID, &b.Provider, &b.Amount, &b.DueDate, &b.Status,
		&b.LastPaid, &b.AttachmentURL, &source, &b.CreatedAt)
	b.Source = source.String
	return b, err
}
