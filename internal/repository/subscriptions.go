package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/homehub/internal/models"
)

const subscriptionColumns = `id, name, cost, cycle, renewal_date, logo, created_at`

// PostgresSubscriptionRepository stores subscriptions and answers renewal range queries.
type PostgresSubscriptionRepository struct {
	*PostgresRepository[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
}

// NewPostgresSubscriptionRepository creates the subscription repository using the provided *sql.DB.
func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{&PostgresRepository[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]{
		DB:      db,
		table:   "subscriptions",
		columns: subscriptionColumns,
		orderBy: "created_at DESC, id DESC",
		scan:    scanSubscription,
		insert: func(in models.SubscriptionInput) []column {
			var cost models.Money
			if in.Cost != nil {
				cost = *in.Cost
			}
			return []column{
				{"name", in.Name},
				{"cost", cost},
				{"cycle", in.Cycle},
				{"renewal_date", in.RenewalDate},
				{"logo", in.Logo},
			}
		},
		patch: func(p models.SubscriptionPatch) []column {
			var cols []column
			cols = set(cols, "name", p.Name)
			cols = set(cols, "cost", p.Cost)
			cols = set(cols, "cycle", p.Cycle)
			cols = set(cols, "renewal_date", p.RenewalDate)
			cols = setOptional(cols, "logo", p.Logo)
			return cols
		},
	}}
}

// ListRenewingBetween returns subscriptions with start <= renewal_date <= end, earliest first.
func (r *PostgresSubscriptionRepository) ListRenewingBetween(ctx context.Context, start, end models.Date) ([]models.Subscription, error) {
	return r.queryOrdered(ctx, "renewal_date >= $1 AND renewal_date <= $2", "renewal_date ASC, id ASC",
		"list subscriptions renewing between", start, end)
}

func scanSubscription(s scanner) (models.Subscription, error) {
	var sub models.Subscription
	err := s.Scan(&sub.ID, &sub.Name, &sub.Cost, &sub.Cycle, &sub.RenewalDate, &sub.Logo, &sub.CreatedAt)
	return sub, err
}
