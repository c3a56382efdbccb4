package service

import (
	"github.com/atinyakov/homehub/internal/models"
	"github.com/atinyakov/homehub/internal/repository"
	"go.uber.org/zap"
)

type (
	TaskResource         = Resource[models.Task, models.TaskInput, models.TaskPatch]
	BillResource         = Resource[models.Bill, models.BillInput, models.BillPatch]
	SubscriptionResource = Resource[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
	CarResource          = Resource[models.Car, models.CarInput, models.CarPatch]
	CarServiceResource   = Resource[models.CarService, models.CarServiceInput, models.CarServicePatch]
	KidsEventResource    = Resource[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
	GroceryResource      = Resource[models.Grocery, models.GroceryInput, models.GroceryPatch]
)

// Services bundles every service built over one store.
type Services struct {
	Tasks         *TaskResource
	Bills         *BillResource
	Subscriptions *SubscriptionResource
	Cars          *CarResource
	CarServices   *CarServiceResource
	KidsEvents    *KidsEventResource
	Groceries     *GroceryResource

	Dashboard *DashboardService
	Notes     *NoteService
	Calendar  *CalendarService
	Users     *UserService
}

// NewServices wires the services to store.
func NewServices(store *repository.Store, log *zap.Logger) *Services {
	return &Services{
		Tasks:         NewResource[models.Task, models.TaskInput, models.TaskPatch]("task", store.Tasks),
		Bills:         NewResource[models.Bill, models.BillInput, models.BillPatch]("bill", store.Bills),
		Subscriptions: NewResource[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]("subscription", store.Subscriptions),
		Cars:          NewResource[models.Car, models.CarInput, models.CarPatch]("car", store.Cars),
		CarServices:   NewResource[models.CarService, models.CarServiceInput, models.CarServicePatch]("car service", store.CarServices),
		KidsEvents:    NewResource[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]("kids event", store.KidsEvents),
		Groceries:     NewResource[models.Grocery, models.GroceryInput, models.GroceryPatch]("grocery", store.Groceries),

		Dashboard: NewDashboardService(store.Bills, store.Subscriptions),
		Notes:     NewNoteService(store.Notes),
		Calendar:  NewCalendarService(store.KidsEvents, log),
		Users:     NewUserService(store.Users),
	}
}
