package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atinyakov/homehub/internal/models"
	"github.com/atinyakov/homehub/internal/repository"
	"github.com/atinyakov/homehub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func newServices(t *testing.T) *service.Services {
	t.Helper()
	store := repository.NewMemoryStore(func() time.Time { return fixedNow })
	svcs := service.NewServices(store, zap.NewNop())
	svcs.Dashboard.Now = func() time.Time { return fixedNow }
	svcs.Dashboard.Location = time.UTC
	return svcs
}

func ptr[T any](v T) *T { return &v }

func TestResource_RoundTrip(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()
	today := models.DateOf(fixedNow)

	created, err := svcs.Bills.Create(ctx, models.BillInput{
		Provider:      "Electric Company",
		Amount:        ptr(models.Money(14550)),
		DueDate:       today.AddDays(2),
		Status:        models.BillDue,
		AttachmentURL: ptr("https://example.com/bill.pdf"),
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)

	got, err := svcs.Bills.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)
	assert.Equal(t, "Electric Company", got.Provider)
	assert.Equal(t, models.Money(14550), got.Amount)
	assert.Equal(t, today.AddDays(2), got.DueDate)
	assert.Equal(t, models.BillDue, got.Status)
	assert.Equal(t, "https://example.com/bill.pdf", *got.AttachmentURL)
	assert.Nil(t, got.LastPaid)
	assert.Equal(t, models.DefaultSource, got.Source)
}

func TestResource_PartialUpdatePreservesFields(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	before, err := svcs.Bills.Create(ctx, models.BillInput{
		Provider: "Water Corp",
		Amount:   ptr(models.Money(8920)),
		DueDate:  "2025-03-08",
		Status:   models.BillOverdue,
	})
	require.NoError(t, err)

	after, err := svcs.Bills.Update(ctx, before.ID, models.BillPatch{Status: ptr(models.BillPaid)})
	require.NoError(t, err)
	require.NotNil(t, after)

	assert.Equal(t, models.BillPaid, after.Status)
	assert.Equal(t, before.Provider, after.Provider)
	assert.Equal(t, before.Amount, after.Amount)
	assert.Equal(t, before.DueDate, after.DueDate)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestResource_UpdateClearsNullableField(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	sub, err := svcs.Subscriptions.Create(ctx, models.SubscriptionInput{
		Name: "Spotify", Cost: ptr(models.Money(999)), Cycle: models.CycleMonthly,
		RenewalDate: "2025-03-22", Logo: ptr("spotify.png"),
	})
	require.NoError(t, err)

	updated, err := svcs.Subscriptions.Update(ctx, sub.ID, models.SubscriptionPatch{Logo: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.Logo)
	assert.Equal(t, "Spotify", updated.Name)
}

func TestResource_UpdateMissing(t *testing.T) {
	svcs := newServices(t)
	got, err := svcs.Groceries.Update(context.Background(), 42, models.GroceryPatch{Checked: ptr(true)})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResource_DeleteIsIdempotent(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	item, err := svcs.Groceries.Create(ctx, models.GroceryInput{Name: "Milk"})
	require.NoError(t, err)

	require.NoError(t, svcs.Groceries.Delete(ctx, item.ID))
	require.NoError(t, svcs.Groceries.Delete(ctx, item.ID))

	got, err := svcs.Groceries.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResource_CreateRejectsInvalidInput(t *testing.T) {
	svcs := newServices(t)
	_, err := svcs.Tasks.Create(context.Background(), models.TaskInput{
		Title:    "",
		Category: "Garden",
		DueDate:  "10/03/2025",
		Priority: models.PriorityHigh,
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 3)

	items, err := svcs.Tasks.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResource_UpdateRejectsInvalidPatch(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()
	task, err := svcs.Tasks.Create(ctx, models.TaskInput{
		Title: "Pay rego", Category: models.CategoryCar, DueDate: "2025-03-11", Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	_, err = svcs.Tasks.Update(ctx, task.ID, models.TaskPatch{Priority: ptr(models.TaskPriority("Urgent"))})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := svcs.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, got.Priority)
}

func TestResource_TaskScenario(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()
	tomorrow := models.DateOf(fixedNow).AddDays(1)

	_, err := svcs.Tasks.Create(ctx, models.TaskInput{
		Title:     "Call insurance company",
		Category:  models.CategoryCar,
		DueDate:   tomorrow,
		Completed: false,
		Priority:  models.PriorityMedium,
	})
	require.NoError(t, err)

	tasks, err := svcs.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.GreaterOrEqual(t, task.ID, int64(1))
	assert.Equal(t, "Call insurance company", task.Title)
	assert.Equal(t, models.CategoryCar, task.Category)
	assert.Equal(t, tomorrow, task.DueDate)
	assert.False(t, task.Completed)
	assert.Equal(t, models.PriorityMedium, task.Priority)
}

func TestResource_KidsEventDefaults(t *testing.T) {
	svcs := newServices(t)
	ev, err := svcs.KidsEvents.Create(context.Background(), models.KidsEventInput{
		Title: "Swimming", EventDate: "2025-03-15",
	})
	require.NoError(t, err)
	assert.True(t, ev.ReminderEnabled)
	assert.Equal(t, models.DefaultSource, ev.Source)
}

type failingRepo struct{}

var errStore = errors.New("connection reset")

func (failingRepo) List(context.Context) ([]models.Grocery, error) { return nil, errStore }
func (failingRepo) Get(context.Context, int64) (*models.Grocery, error) {
	return nil, errStore
}
func (failingRepo) Create(context.Context, models.GroceryInput) (models.Grocery, error) {
	return models.Grocery{}, errStore
}
func (failingRepo) Update(context.Context, int64, models.GroceryPatch) (*models.Grocery, error) {
	return nil, errStore
}
func (failingRepo) Delete(context.Context, int64) error { return errStore }

func TestResource_WrapsStoreErrors(t *testing.T) {
	svc := service.NewResource[models.Grocery, models.GroceryInput, models.GroceryPatch]("grocery", failingRepo{})
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, errStore)
	assert.Contains(t, err.Error(), "list grocery")

	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, errStore)

	_, err = svc.Create(ctx, models.GroceryInput{Name: "Bread"})
	assert.ErrorIs(t, err, errStore)
	assert.Contains(t, err.Error(), "create grocery")

	_, err = svc.Update(ctx, 1, models.GroceryPatch{})
	assert.ErrorIs(t, err, errStore)

	err = svc.Delete(ctx, 1)
	assert.ErrorIs(t, err, errStore)
}

func TestNoteService_Singleton(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	first, err := svcs.Notes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.NoteID, first.ID)
	assert.Equal(t, "", first.Content)

	second, err := svcs.Notes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNoteService_ConcurrentFirstAccess(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			note, err := svcs.Notes.Get(ctx)
			assert.NoError(t, err)
			ids[i] = note.ID
		}()
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, models.NoteID, id)
	}
}

func TestNoteService_Update(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	updated, err := svcs.Notes.Update(ctx, "Pick up dry cleaning")
	require.NoError(t, err)
	assert.Equal(t, models.NoteID, updated.ID)
	assert.Equal(t, "Pick up dry cleaning", updated.Content)

	got, err := svcs.Notes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pick up dry cleaning", got.Content)
}

type brokenNotes struct{}

func (brokenNotes) Ensure(context.Context) (models.Note, error) { return models.Note{}, errStore }
func (brokenNotes) SetContent(context.Context, int64, string) (*models.Note, error) {
	return nil, errStore
}

func TestNoteService_StoreError(t *testing.T) {
	svc := service.NewNoteService(brokenNotes{})
	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, errStore)
	_, err = svc.Update(context.Background(), "x")
	assert.ErrorIs(t, err, errStore)
}

func TestUserService(t *testing.T) {
	store := repository.NewMemoryStore(time.Now)
	svc := service.NewUserService(store.Users)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "  alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)

	exists, err := svc.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.RegisterUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)

	_, err = svc.RegisterUser(ctx, "", "secret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	got, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}
