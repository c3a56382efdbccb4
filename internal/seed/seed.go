// Package seed fills an empty store with sample household data for demos
// and local development.
package seed

import (
	"context"
	"fmt"

	"github.com/atinyakov/homehub/internal/models"
	"github.com/atinyakov/homehub/internal/service"
	"go.uber.org/zap"
)

// Run inserts the sample data relative to today. It does nothing when any
// task already exists, so it is safe to call on every start.
func Run(ctx context.Context, svcs *service.Services, today models.Date, log *zap.Logger) error {
	existing, err := svcs.Tasks.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: check tasks: %w", err)
	}
	if len(existing) > 0 {
		log.Info("seed skipped, store not empty", zap.Int("tasks", len(existing)))
		return nil
	}

	for _, in := range tasks(today) {
		if _, err := svcs.Tasks.Create(ctx, in); err != nil {
			return fmt.Errorf("seed task %q: %w", in.Title, err)
		}
	}
	for _, in := range bills(today) {
		if _, err := svcs.Bills.Create(ctx, in); err != nil {
			return fmt.Errorf("seed bill %q: %w", in.Provider, err)
		}
	}
	for _, in := range subscriptions(today) {
		if _, err := svcs.Subscriptions.Create(ctx, in); err != nil {
			return fmt.Errorf("seed subscription %q: %w", in.Name, err)
		}
	}
	for _, in := range carServices(today) {
		if _, err := svcs.CarServices.Create(ctx, in); err != nil {
			return fmt.Errorf("seed car service %q: %w", in.Type, err)
		}
	}

	log.Info("store seeded", zap.String("today", today.String()))
	return nil
}

func tasks(today models.Date) []models.TaskInput {
	return []models.TaskInput{
		{Title: "Review quarterly budget", Category: models.CategoryWork, DueDate: today, Priority: models.PriorityHigh},
		{Title: "Buy groceries for dinner", Category: models.CategoryHome, DueDate: today, Priority: models.PriorityMedium},
		{Title: "Call insurance company", Category: models.CategoryCar, DueDate: today.AddDays(1), Priority: models.PriorityMedium},
		{Title: "Cancel Netflix subscription", Category: models.CategoryBills, DueDate: today.AddDays(2), Completed: true, Priority: models.PriorityLow},
		{Title: "Prepare presentation slides", Category: models.CategoryBusiness, DueDate: today.AddDays(3), Priority: models.PriorityHigh},
	}
}

func bills(today models.Date) []models.BillInput {
	lastPaid := today.AddDays(-15)
	return []models.BillInput{
		{Provider: "Electric Company", Amount: money(14550), DueDate: today.AddDays(2), Status: models.BillDue},
		{Provider: "Water Corp", Amount: money(8920), DueDate: today.AddDays(-2), Status: models.BillOverdue},
		{Provider: "Internet Provider", Amount: money(7999), DueDate: today.AddDays(15), Status: models.BillPaid, LastPaid: &lastPaid},
	}
}

func subscriptions(today models.Date) []models.SubscriptionInput {
	return []models.SubscriptionInput{
		{Name: "Netflix", Cost: money(1599), Cycle: models.CycleMonthly, RenewalDate: today.AddDays(5)},
		{Name: "Spotify", Cost: money(999), Cycle: models.CycleMonthly, RenewalDate: today.AddDays(12)},
		{Name: "Adobe Creative Cloud", Cost: money(5499), Cycle: models.CycleMonthly, RenewalDate: today.AddDays(20)},
		{Name: "Amazon Prime", Cost: money(13900), Cycle: models.CycleYearly, RenewalDate: today.AddDays(120)},
	}
}

func carServices(today models.Date) []models.CarServiceInput {
	upcoming := today.AddDays(30)
	tyres := today.AddDays(-60)
	rego := today.AddDays(15)
	km := 45000
	serviceNotes := "Standard annual service"
	tyreNotes := "Check tyre pressure and tread"
	return []models.CarServiceInput{
		{Type: models.ServiceRoutine, Km: &km, Notes: &serviceNotes, Status: models.ServiceUpcoming, Date: &upcoming},
		{Type: models.ServiceTyres, Notes: &tyreNotes, Status: models.ServiceCompleted, Date: &tyres},
		{Type: models.ServiceRegistration, Status: models.ServiceUpcoming, Date: &rego},
	}
}

func money(cents int64) *models.Money {
	m := models.Money(cents)
	return &m
}
