package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/homehub/internal/db"
	"github.com/atinyakov/homehub/internal/models"
	"go.uber.org/zap"
)

// Store drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// CRUD is the uniform contract every entity table offers.
type CRUD[E any, I any, P any] interface {
	List(ctx context.Context) ([]E, error)
	Get(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, in I) (E, error)
	Update(ctx context.Context, id int64, p P) (*E, error)
	Delete(ctx context.Context, id int64) error
}

// BillStore adds the due-date range query used by the dashboard.
type BillStore interface {
	CRUD[models.Bill, models.BillInput, models.BillPatch]
	ListDueBetween(ctx context.Context, start, end models.Date) ([]models.Bill, error)
}

// SubscriptionStore adds the renewal-date range query used by the dashboard.
type SubscriptionStore interface {
	CRUD[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
	ListRenewingBetween(ctx context.Context, start, end models.Date) ([]models.Subscription, error)
}

// KidsEventStore adds lookups by external calendar identity.
type KidsEventStore interface {
	CRUD[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
	GetBySource(ctx context.Context, source, sourceID string) (*models.KidsEvent, error)
}

// NoteStore keeps the singleton note.
type NoteStore interface {
	Ensure(ctx context.Context) (models.Note, error)
	SetContent(ctx context.Context, id int64, content string) (*models.Note, error)
}

// UserStore keeps application users.
type UserStore interface {
	UserExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, password string) (models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store bundles one repository per entity. Both strategies fill every field.
type Store struct {
	Driver        string
	Tasks         CRUD[models.Task, models.TaskInput, models.TaskPatch]
	Bills         BillStore
	Subscriptions SubscriptionStore
	Cars          CRUD[models.Car, models.CarInput, models.CarPatch]
	CarServices   CRUD[models.CarService, models.CarServiceInput, models.CarServicePatch]
	KidsEvents    KidsEventStore
	Groceries     CRUD[models.Grocery, models.GroceryInput, models.GroceryPatch]
	Notes         NoteStore
	Users         UserStore

	// DB is the underlying connection for the postgres driver, nil otherwise.
	DB *sql.DB
}

// Close releases the database connection, if any.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Open builds the store selected by driver. It is called once at startup.
func Open(driver, dsn string, log *zap.Logger) (*Store, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres:
		conn, err := db.InitPostgres(dsn)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres store")
		return NewPostgresStore(conn), nil
	case DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemoryStore(time.Now), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// NewPostgresStore wires every PostgreSQL repository to conn.
func NewPostgresStore(conn *sql.DB) *Store {
	return &Store{
		Driver:        DriverPostgres,
		Tasks:         NewPostgresTaskRepository(conn),
		Bills:         NewPostgresBillRepository(conn),
		Subscriptions: NewPostgresSubscriptionRepository(conn),
		Cars:          NewPostgresCarRepository(conn),
		CarServices:   NewPostgresCarServiceRepository(conn),
		KidsEvents:    NewPostgresKidsEventRepository(conn),
		Groceries:     NewPostgresGroceryRepository(conn),
		Notes:         NewPostgresNoteRepository(conn),
		Users:         NewPostgresUserRepository(conn),
		DB:            conn,
	}
}

// NewMemoryStore builds an empty in-process store using now for timestamps.
func NewMemoryStore(now func() time.Time) *Store {
	return &Store{
		Driver: DriverMemory,
		Tasks: newMemoryRepository[models.Task, models.TaskInput, models.TaskPatch](now,
			func(id int64, created time.Time, in models.TaskInput) models.Task {
				return models.Task{
					ID: id, Title: in.Title, Category: in.Category, DueDate: in.DueDate,
					Completed: in.Completed, Priority: in.Priority, CreatedAt: created,
				}
			},
			func(a, b models.Task) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }),
		Bills: &MemoryBillRepository{newMemoryRepository[models.Bill, models.BillInput, models.BillPatch](now,
			func(id int64, created time.Time, in models.BillInput) models.Bill {
				b := models.Bill{
					ID: id, Provider: in.Provider, DueDate: in.DueDate, Status: in.Status,
					LastPaid: in.LastPaid, AttachmentURL: in.AttachmentURL, Source: in.Source, CreatedAt: created,
				}
				if in.Amount != nil {
					b.Amount = *in.Amount
				}
				return b
			},
			func(a, b models.Bill) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })},
		Subscriptions: &MemorySubscriptionRepository{newMemoryRepository[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch](now,
			func(id int64, created time.Time, in models.SubscriptionInput) models.Subscription {
				s := models.Subscription{
					ID: id, Name: in.Name, Cycle: in.Cycle, RenewalDate: in.RenewalDate,
					Logo: in.Logo, CreatedAt: created,
				}
				if in.Cost != nil {
					s.Cost = *in.Cost
				}
				return s
			},
			func(a, b models.Subscription) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })},
		Cars: newMemoryRepository[models.Car, models.CarInput, models.CarPatch](now,
			func(id int64, created time.Time, in models.CarInput) models.Car {
				return models.Car{
					ID: id, Name: in.Name, Make: in.Make, Model: in.Model, Year: in.Year,
					LicensePlate: in.LicensePlate, VIN: in.VIN, Notes: in.Notes, CreatedAt: created,
				}
			},
			func(a, b models.Car) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }),
		CarServices: newMemoryRepository[models.CarService, models.CarServiceInput, models.CarServicePatch](now,
			func(id int64, created time.Time, in models.CarServiceInput) models.CarService {
				return models.CarService{
					ID: id, CarID: in.CarID, Type: in.Type, Date: in.Date, Km: in.Km,
					Notes: in.Notes, Status: in.Status, CreatedAt: created,
				}
			},
			func(a, b models.CarService) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }),
		KidsEvents: &MemoryKidsEventRepository{newMemoryRepository[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch](now,
			func(id int64, created time.Time, in models.KidsEventInput) models.KidsEvent {
				return models.KidsEvent{
					ID: id, Title: in.Title, EventDate: in.EventDate, EventTime: in.EventTime,
					ChildName: in.ChildName, Location: in.Location, Description: in.Description,
					Source: in.Source, SourceID: in.SourceID,
					ReminderEnabled: in.ReminderEnabled == nil || *in.ReminderEnabled,
					CreatedAt:       created,
				}
			},
			func(a, b models.KidsEvent) int {
				if c := strings.Compare(string(b.EventDate), string(a.EventDate)); c != 0 {
					return c
				}
				return compareInt(b.ID, a.ID)
			})},
		Groceries: newMemoryRepository[models.Grocery, models.GroceryInput, models.GroceryPatch](now,
			func(id int64, created time.Time, in models.GroceryInput) models.Grocery {
				return models.Grocery{ID: id, Name: in.Name, Checked: in.Checked, CreatedAt: created}
			},
			func(a, b models.Grocery) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }),
		Notes: &MemoryNoteRepository{now: now},
		Users: &MemoryUserRepository{users: make(map[string]models.User)},
	}
}
