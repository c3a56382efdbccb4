package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/homehub/internal/models"
	"github.com/google/uuid"
)

// patcher merges a partial update into an entity.
type patcher[E any] interface {
	Apply(E) E
}

// MemoryRepository is an in-process table. Identifiers start at 1 and are
// never reused.
type MemoryRepository[E any, I any, P patcher[E]] struct {
	mu     sync.RWMutex
	rows   map[int64]E
	nextID int64

	now   func() time.Time
	build func(id int64, createdAt time.Time, in I) E
	// compare orders List output.
	compare func(a, b E) int
}

func newMemoryRepository[E any, I any, P patcher[E]](
	now func() time.Time,
	build func(int64, time.Time, I) E,
	compare func(a, b E) int,
) *MemoryRepository[E, I, P] {
	return &MemoryRepository[E, I, P]{
		rows:    make(map[int64]E),
		now:     now,
		build:   build,
		compare: compare,
	}
}

// List returns every row in display order.
func (r *MemoryRepository[E, I, P]) List(_ context.Context) ([]E, error) {
	return r.filter(func(E) bool { return true }, r.compare), nil
}

// Get returns a copy of the row, or nil.
func (r *MemoryRepository[E, I, P]) Get(_ context.Context, id int64) (*E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// Create stores a new row.
func (r *MemoryRepository[E, I, P]) Create(_ context.Context, in I) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item := r.build(r.nextID, r.now(), in)
	r.rows[r.nextID] = item
	return item, nil
}

// Update merges the patch into an existing row, or returns nil.
func (r *MemoryRepository[E, I, P]) Update(_ context.Context, id int64, p P) (*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	item = p.Apply(item)
	r.rows[id] = item
	return &item, nil
}

// Delete removes the row if present.
func (r *MemoryRepository[E, I, P]) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository[E, I, P]) filter(keep func(E) bool, compare func(a, b E) int) []E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]E, 0, len(r.rows))
	for _, item := range r.rows {
		if keep(item) {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, compare)
	return items
}

// newestFirst orders by creation time, then id, both descending.
func newestFirst(createdA, createdB time.Time, idA, idB int64) int {
	if c := createdB.Compare(createdA); c != 0 {
		return c
	}
	return compareInt(idB, idA)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MemoryBillRepository adds due-date range queries to the bill table.
type MemoryBillRepository struct {
	*MemoryRepository[models.Bill, models.BillInput, models.BillPatch]
}

// ListDueBetween returns bills with start <= dueDate <= end, earliest first.
func (r *MemoryBillRepository) ListDueBetween(_ context.Context, start, end models.Date) ([]models.Bill, error) {
	return r.filter(
		func(b models.Bill) bool { return b.DueDate.Between(start, end) },
		func(a, b models.Bill) int {
			if c := strings.Compare(string(a.DueDate), string(b.DueDate)); c != 0 {
				return c
			}
			return compareInt(a.ID, b.ID)
		},
	), nil
}

// MemorySubscriptionRepository adds renewal range queries to the subscription table.
type MemorySubscriptionRepository struct {
	*MemoryRepository[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
}

// ListRenewingBetween returns subscriptions with start <= renewalDate <= end, earliest first.
func (r *MemorySubscriptionRepository) ListRenewingBetween(_ context.Context, start, end models.Date) ([]models.Subscription, error) {
	return r.filter(
		func(s models.Subscription) bool { return s.RenewalDate.Between(start, end) },
		func(a, b models.Subscription) int {
			if c := strings.Compare(string(a.RenewalDate), string(b.RenewalDate)); c != 0 {
				return c
			}
			return compareInt(a.ID, b.ID)
		},
	), nil
}

// MemoryKidsEventRepository adds source lookups to the kids-event table.
type MemoryKidsEventRepository struct {
	*MemoryRepository[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
}

// GetBySource finds an event imported from an external calendar.
func (r *MemoryKidsEventRepository) GetBySource(_ context.Context, source, sourceID string) (*models.KidsEvent, error) {
	matches := r.filter(
		func(e models.KidsEvent) bool {
			return e.Source == source && e.SourceID != nil && *e.SourceID == sourceID
		},
		func(a, b models.KidsEvent) int { return compareInt(a.ID, b.ID) },
	)
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// MemoryNoteRepository keeps the scratch pad in memory.
type MemoryNoteRepository struct {
	mu   sync.Mutex
	note *models.Note
	now  func() time.Time
}

// Ensure creates the note on first use and returns it.
func (r *MemoryNoteRepository) Ensure(_ context.Context) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.note == nil {
		r.note = &models.Note{ID: models.NoteID, UpdatedAt: r.now()}
	}
	return *r.note, nil
}

// SetContent replaces the note text, or returns nil when the id does not match.
func (r *MemoryNoteRepository) SetContent(_ context.Context, id int64, content string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.note == nil || r.note.ID != id {
		return nil, nil
	}
	r.note.Content = content
	r.note.UpdatedAt = r.now()
	note := *r.note
	return &note, nil
}

// MemoryUserRepository keeps users in memory with unique usernames.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// UserExists reports whether the username is registered.
func (r *MemoryUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	user, err := r.GetByUsername(ctx, username)
	return user != nil, err
}

// Create stores a user under a new UUID.
func (r *MemoryUserRepository) Create(_ context.Context, username, password string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return models.User{}, ErrUsernameTaken
		}
	}
	user := models.User{ID: uuid.NewString(), Username: username, Password: password}
	r.users[user.ID] = user
	return user, nil
}

// Get returns the user with the given id, or nil.
func (r *MemoryUserRepository) Get(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetByUsername returns the user with the given username, or nil.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}
