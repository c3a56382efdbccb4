package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/homehub/internal/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "category", "due_date", "completed", "priority", "created_at"})
}

func TestPostgresTasks_List(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(taskRows().
			AddRow(int64(2), "Call insurer", "Car", created, false, "Medium", created).
			AddRow(int64(1), "Pay rent", "Bills", "2025-03-12", true, "High", created))

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, models.Date("2025-03-10"), tasks[0].DueDate)
	assert.Equal(t, models.CategoryCar, tasks[0].Category)
	assert.Equal(t, models.Date("2025-03-12"), tasks[1].DueDate)
	assert.True(t, tasks[1].Completed)
}

func TestPostgresTasks_ListEmptyIsNotNil(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectQuery(`SELECT .* FROM tasks`).WillReturnRows(taskRows())

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestPostgresTasks_ListError(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectQuery(`SELECT .* FROM tasks`).WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list tasks")
}

func TestPostgresTasks_Get(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	query := regexp.QuoteMeta(`SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`)

	mock.ExpectQuery(query).WithArgs(int64(1)).
		WillReturnRows(taskRows().AddRow(int64(1), "Pay rent", "Bills", created, false, "High", created))
	mock.ExpectQuery(query).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	task, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Pay rent", task.Title)

	task, err = repo.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestPostgresTasks_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO tasks (title, category, due_date, completed, priority) VALUES ($1, $2, $3, $4, $5) RETURNING `+taskColumns)).
		WithArgs("Pay rent", "Bills", "2025-03-12", false, "High").
		WillReturnRows(taskRows().AddRow(int64(7), "Pay rent", "Bills", "2025-03-12", false, "High", created))

	task, err := repo.Create(context.Background(), models.TaskInput{
		Title: "Pay rent", Category: models.CategoryBills, DueDate: "2025-03-12", Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, task.ID)
	assert.Equal(t, created, task.CreatedAt)
}

func TestPostgresTasks_UpdateOnlySuppliedColumns(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	done := true

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tasks SET completed = $1 WHERE id = $2 RETURNING ` + taskColumns)).
		WithArgs(true, int64(3)).
		WillReturnRows(taskRows().AddRow(int64(3), "Pay rent", "Bills", "2025-03-12", true, "High", created))

	task, err := repo.Update(context.Background(), 3, models.TaskPatch{Completed: &done})
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.True(t, task.Completed)
	assert.Equal(t, "Pay rent", task.Title)
}

func TestPostgresTasks_UpdateMissingRow(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	title := "x"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tasks SET title = $1 WHERE id = $2`)).
		WithArgs("x", int64(404)).
		WillReturnError(sql.ErrNoRows)

	task, err := repo.Update(context.Background(), 404, models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestPostgresTasks_EmptyPatchReadsRow(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(taskRows().AddRow(int64(1), "Pay rent", "Bills", created, false, "High", created))

	task, err := repo.Update(context.Background(), 1, models.TaskPatch{})
	require.NoError(t, err)
	require.NotNil(t, task)
}

func TestPostgresTasks_Delete(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(int64(6)).
		WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Delete(context.Background(), 5))
	err := repo.Delete(context.Background(), 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete tasks 6")
}

func billRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "provider", "amount", "due_date", "status", "last_paid", "attachment_url", "source", "created_at"})
}

func TestPostgresBills_CreateWritesExactAmount(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresBillRepository(db)
	amount := models.Money(14550)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bills (provider, amount, due_date, status, last_paid, attachment_url, source)`)).
		WithArgs("Electric Company", "145.50", "2025-03-12", "Due", nil, nil, "manual").
		WillReturnRows(billRows().AddRow(int64(1), "Electric Company", []byte("145.50"), created, "Due", nil, nil, "manual", created))

	bill, err := repo.Create(context.Background(), models.BillInput{
		Provider: "Electric Company", Amount: &amount, DueDate: "2025-03-12", Status: models.BillDue, Source: "manual",
	})
	require.NoError(t, err)
	assert.Equal(t, amount, bill.Amount)
	assert.Nil(t, bill.LastPaid)
	assert.Nil(t, bill.AttachmentURL)
}

func TestPostgresBills_PatchClearsNullable(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresBillRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE bills SET attachment_url = $1 WHERE id = $2 RETURNING ` + billColumns)).
		WithArgs(nil, int64(2)).
		WillReturnRows(billRows().AddRow(int64(2), "Water Corp", "89.20", created, "Overdue", created, nil, "manual", created))

	bill, err := repo.Update(context.Background(), 2, models.BillPatch{AttachmentURL: models.Null[string]()})
	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Nil(t, bill.AttachmentURL)
	require.NotNil(t, bill.LastPaid)
	assert.Equal(t, models.Date("2025-03-10"), *bill.LastPaid)
}

func TestPostgresBills_ListDueBetween(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresBillRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT `+billColumns+` FROM bills WHERE due_date >= $1 AND due_date <= $2 ORDER BY due_date ASC, id ASC`)).
		WithArgs("2025-03-10", "2025-03-24").
		WillReturnRows(billRows().AddRow(int64(1), "Electric Company", "145.50", "2025-03-12", "Due", nil, nil, "manual", created))

	bills, err := repo.ListDueBetween(context.Background(), "2025-03-10", "2025-03-24")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, models.Date("2025-03-12"), bills[0].DueDate)
}

func TestPostgresSubscriptions_ListRenewingBetween(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresSubscriptionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE renewal_date >= $1 AND renewal_date <= $2 ORDER BY renewal_date ASC, id ASC`)).
		WithArgs("2025-03-10", "2025-03-24").
		WillReturnError(errors.New("timeout"))

	_, err := repo.ListRenewingBetween(context.Background(), "2025-03-10", "2025-03-24")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list subscriptions renewing between")
}

func TestPostgresKidsEvents_GetBySourceMissing(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresKidsEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM kids_events WHERE source = $1 AND source_id = $2 ORDER BY id LIMIT 1`)).
		WithArgs("ical", "uid-1@school").
		WillReturnError(sql.ErrNoRows)

	ev, err := repo.GetBySource(context.Background(), "ical", "uid-1@school")
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestPostgresNotes_Ensure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresNoteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notes (id, content) VALUES ($1, '') ON CONFLICT (id) DO NOTHING`)).
		WithArgs(models.NoteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, content, updated_at FROM notes WHERE id = $1`)).
		WithArgs(models.NoteID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "updated_at"}).AddRow(int64(1), "", created))

	note, err := repo.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.NoteID, note.ID)
	assert.Empty(t, note.Content)
}

func TestPostgresNotes_SetContent(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresNoteRepository(db)
	query := regexp.QuoteMeta(`UPDATE notes SET content = $1, updated_at = now() WHERE id = $2 RETURNING id, content, updated_at`)

	mock.ExpectQuery(query).WithArgs("milk", models.NoteID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "updated_at"}).AddRow(int64(1), "milk", created))
	mock.ExpectQuery(query).WithArgs("milk", int64(2)).WillReturnError(sql.ErrNoRows)

	note, err := repo.SetContent(context.Background(), models.NoteID, "milk")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "milk", note.Content)

	note, err = repo.SetContent(context.Background(), 2, "milk")
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestPostgresUsers(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, username, password) VALUES ($1, $2, $3)`)).
		WithArgs(sqlmock.AnyArg(), "bob", "secret").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), "alice", "pw").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password FROM users WHERE username = $1`)).
		WithArgs("carol").
		WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	exists, err := repo.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	user, err := repo.Create(ctx, "bob", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, err = repo.Create(ctx, "alice", "pw")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	missing, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func ptr[T any](v T) *T { return &v }

func carRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "make", "model", "year", "license_plate", "vin", "notes", "created_at"})
}

func TestPostgresCars_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresCarRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO cars (name, make, model, year, license_plate, vin, notes) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+carColumns)).
		WithArgs("Family SUV", "Toyota", "RAV4", 2019, "ABC-123", nil, nil).
		WillReturnRows(carRows().AddRow(int64(1), "Family SUV", "Toyota", "RAV4", int64(2019), "ABC-123", nil, nil, created))

	car, err := repo.Create(context.Background(), models.CarInput{
		Name: "Family SUV", Make: ptr("Toyota"), Model: ptr("RAV4"), Year: ptr(2019), LicensePlate: ptr("ABC-123"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, car.ID)
	require.NotNil(t, car.Year)
	assert.Equal(t, 2019, *car.Year)
	assert.Nil(t, car.VIN)
	assert.Nil(t, car.Notes)
}

func TestPostgresCars_PatchSetsAndClears(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresCarRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE cars SET name = $1, year = $2, notes = $3 WHERE id = $4 RETURNING ` + carColumns)).
		WithArgs("Old SUV", 2018, nil, int64(1)).
		WillReturnRows(carRows().AddRow(int64(1), "Old SUV", "Toyota", "RAV4", int64(2018), "ABC-123", nil, nil, created))

	car, err := repo.Update(context.Background(), 1, models.CarPatch{
		Name: ptr("Old SUV"), Year: models.Some(2018), Notes: models.Null[string](),
	})
	require.NoError(t, err)
	require.NotNil(t, car)
	assert.Equal(t, "Old SUV", car.Name)
	assert.Equal(t, 2018, *car.Year)
	assert.Nil(t, car.Notes)
}

func carServiceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "car_id", "type", "date", "km", "notes", "status", "created_at"})
}

func TestPostgresCarServices_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresCarServiceRepository(db)
	date := models.Date("2025-04-01")

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO car_services (car_id, type, date, km, notes, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+carServiceColumns)).
		WithArgs(int64(1), "Tyres", "2025-04-01", 45000, nil, "Upcoming").
		WillReturnRows(carServiceRows().AddRow(int64(3), int64(1), "Tyres", created, int64(45000), nil, "Upcoming", created))

	cs, err := repo.Create(context.Background(), models.CarServiceInput{
		CarID: ptr(int64(1)), Type: models.ServiceTyres, Date: &date, Km: ptr(45000), Status: models.ServiceUpcoming,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, cs.ID)
	require.NotNil(t, cs.CarID)
	assert.EqualValues(t, 1, *cs.CarID)
	require.NotNil(t, cs.Date)
	assert.Equal(t, models.Date("2025-03-10"), *cs.Date)
	assert.Equal(t, 45000, *cs.Km)
	assert.Nil(t, cs.Notes)
}

func TestPostgresCarServices_PatchNullCarID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresCarServiceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE car_services SET car_id = $1, status = $2 WHERE id = $3 RETURNING ` + carServiceColumns)).
		WithArgs(nil, "Completed", int64(3)).
		WillReturnRows(carServiceRows().AddRow(int64(3), nil, "Tyres", "2025-04-01", int64(45000), nil, "Completed", created))

	cs, err := repo.Update(context.Background(), 3, models.CarServicePatch{
		CarID: models.Null[int64](), Status: ptr(models.ServiceCompleted),
	})
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Nil(t, cs.CarID)
	assert.Equal(t, models.ServiceCompleted, cs.Status)
	assert.Equal(t, models.Date("2025-04-01"), *cs.Date)
}

func groceryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "checked", "created_at"})
}

func TestPostgresGroceries_Create(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresGroceryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO groceries (name, checked) VALUES ($1, $2) RETURNING id, name, checked, created_at`)).
		WithArgs("Milk", false).
		WillReturnRows(groceryRows().AddRow(int64(4), "Milk", false, created))

	g, err := repo.Create(context.Background(), models.GroceryInput{Name: "Milk"})
	require.NoError(t, err)
	assert.Equal(t, models.Grocery{ID: 4, Name: "Milk", CreatedAt: created}, g)
}

func TestPostgresGroceries_PatchChecked(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresGroceryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE groceries SET checked = $1 WHERE id = $2 RETURNING id, name, checked, created_at`)).
		WithArgs(true, int64(4)).
		WillReturnRows(groceryRows().AddRow(int64(4), "Milk", true, created))

	g, err := repo.Update(context.Background(), 4, models.GroceryPatch{Checked: ptr(true)})
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.True(t, g.Checked)
}
