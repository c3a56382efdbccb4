package http

import (
	"net/http"

	"github.com/atinyakov/homehub/internal/camera"
	"github.com/atinyakov/homehub/internal/middleware"
	"github.com/atinyakov/homehub/internal/models"
	"github.com/atinyakov/homehub/internal/service"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every handler mounted by NewRouter.
type Handlers struct {
	Tasks         *ResourceHandler[models.Task, models.TaskInput, models.TaskPatch]
	Bills         *ResourceHandler[models.Bill, models.BillInput, models.BillPatch]
	Subscriptions *ResourceHandler[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
	Cars          *ResourceHandler[models.Car, models.CarInput, models.CarPatch]
	CarServices   *ResourceHandler[models.CarService, models.CarServiceInput, models.CarServicePatch]
	KidsEvents    *ResourceHandler[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
	Groceries     *ResourceHandler[models.Grocery, models.GroceryInput, models.GroceryPatch]

	Dashboard *DashboardHandler
	Note      *NoteHandler
	Calendar  *CalendarHandler
	Camera    *CameraHandler
}

// NewHandlers builds the handlers over svcs. defaultDays is the payment
// window used when a request does not specify one.
func NewHandlers(svcs *service.Services, cam camera.Provider, defaultDays int, log *zap.Logger) *Handlers {
	return &Handlers{
		Tasks:         NewResourceHandler[models.Task, models.TaskInput, models.TaskPatch]("task", svcs.Tasks, log),
		Bills:         NewResourceHandler[models.Bill, models.BillInput, models.BillPatch]("bill", svcs.Bills, log),
		Subscriptions: NewResourceHandler[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]("subscription", svcs.Subscriptions, log),
		Cars:          NewResourceHandler[models.Car, models.CarInput, models.CarPatch]("car", svcs.Cars, log),
		CarServices:   NewResourceHandler[models.CarService, models.CarServiceInput, models.CarServicePatch]("car service", svcs.CarServices, log),
		KidsEvents:    NewResourceHandler[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]("kids event", svcs.KidsEvents, log),
		Groceries:     NewResourceHandler[models.Grocery, models.GroceryInput, models.GroceryPatch]("grocery", svcs.Groceries, log),

		Dashboard: &DashboardHandler{Service: svcs.Dashboard, DefaultDays: defaultDays, Log: log},
		Note:      &NoteHandler{Service: svcs.Notes, Log: log},
		Calendar:  &CalendarHandler{Service: svcs.Calendar, Log: log},
		Camera:    &CameraHandler{Provider: cam},
	}
}

// NewRouter constructs and returns an HTTP handler that serves the
// HomeHub API.
//
// Routes:
//
//	GET    /health
//	GET    /api/dashboard/upcoming-payments?days=N
//	GET    /api/{resource}         POST /api/{resource}
//	GET    /api/{resource}/{id}    PATCH /api/{resource}/{id}    DELETE /api/{resource}/{id}
//	GET    /api/note               PUT  /api/note
//	GET    /api/kids-events/calendar.ics
//	POST   /api/kids-events/import
//	GET    /api/unifi/status
//	GET    /api/unifi/cameras
//	GET    /api/unifi/cameras/{id}/snapshot
//
// Middleware chain (applied in order):
//  1. Recoverer                          - turns panics into 500s
//  2. WithRequestLogging(logger)         - request id and access log
//  3. AllowContentType("application/json") - rejects non-JSON bodies
func NewRouter(h *Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard/upcoming-payments", h.Dashboard.UpcomingPayments)

		r.Route("/tasks", h.Tasks.Mount)
		r.Route("/bills", h.Bills.Mount)
		r.Route("/subscriptions", h.Subscriptions.Mount)
		r.Route("/cars", h.Cars.Mount)
		r.Route("/car-services", h.CarServices.Mount)
		r.Route("/groceries", h.Groceries.Mount)
		r.Route("/kids-events", func(r chi.Router) {
			r.Get("/calendar.ics", h.Calendar.Export)
			r.Post("/import", h.Calendar.Import)
			h.KidsEvents.Mount(r)
		})

		r.Get("/note", h.Note.Get)
		r.Put("/note", h.Note.Update)

		r.Route("/unifi", func(r chi.Router) {
			r.Get("/status", h.Camera.Status)
			r.Get("/cameras", h.Camera.Cameras)
			r.Get("/cameras/{id}/snapshot", h.Camera.Snapshot)
		})
	})

	return r
}
