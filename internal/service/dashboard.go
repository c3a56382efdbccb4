package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atinyakov/homehub/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultUpcomingDays is the payment window used when none is requested.
const DefaultUpcomingDays = 14

// BillRangeRepository lists bills by due date.
type BillRangeRepository interface {
	ListDueBetween(ctx context.Context, start, end models.Date) ([]models.Bill, error)
}

// SubscriptionRangeRepository lists subscriptions by renewal date.
type SubscriptionRangeRepository interface {
	ListRenewingBetween(ctx context.Context, start, end models.Date) ([]models.Subscription, error)
}

// DashboardService builds the upcoming-payments feed.
type DashboardService struct {
	bills         BillRangeRepository
	subscriptions SubscriptionRangeRepository

	// Now is the clock "today" is read from.
	Now func() time.Time
	// Location is the time zone "today" is computed in.
	Location *time.Location
}

// NewDashboardService constructs a DashboardService using the wall clock
// in the local time zone.
func NewDashboardService(bills BillRangeRepository, subscriptions SubscriptionRangeRepository) *DashboardService {
	return &DashboardService{
		bills:         bills,
		subscriptions: subscriptions,
		Now:           time.Now,
		Location:      time.Local,
	}
}

// Today returns the current calendar date in the service's time zone.
func (s *DashboardService) Today() models.Date {
	now := s.Now()
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return models.DateOf(now)
}

// UpcomingPayments returns bills due and subscriptions renewing within
// [reference, reference+windowDays], both ends inclusive, ordered by date.
// Bills come before subscriptions on the same date. A negative window
// yields an empty feed. If either lookup fails no partial result is
// returned.
func (s *DashboardService) UpcomingPayments(ctx context.Context, windowDays int, reference models.Date) ([]models.UpcomingPayment, error) {
	if windowDays < 0 {
		return []models.UpcomingPayment{}, nil
	}
	start := reference
	end := reference.AddDays(windowDays)

	var bills []models.Bill
	var subs []models.Subscription
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bills, err = s.bills.ListDueBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("list bills due: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		subs, err = s.subscriptions.ListRenewingBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("list subscription renewals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payments := make([]models.UpcomingPayment, 0, len(bills)+len(subs))
	for i := range bills {
		payments = append(payments, models.UpcomingPayment{Type: models.PaymentBill, Bill: &bills[i]})
	}
	for i := range subs {
		payments = append(payments, models.UpcomingPayment{Type: models.PaymentSubscription, Subscription: &subs[i]})
	}
	slices.SortStableFunc(payments, func(a, b models.UpcomingPayment) int {
		return strings.Compare(string(a.Date()), string(b.Date()))
	})
	return payments, nil
}
