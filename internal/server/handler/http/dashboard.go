package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atinyakov/homehub/internal/models"
	"go.uber.org/zap"
)

// DashboardService defines the operations required by DashboardHandler.
type DashboardService interface {
	Today() models.Date
	UpcomingPayments(ctx context.Context, windowDays int, reference models.Date) ([]models.UpcomingPayment, error)
}

// DashboardHandler serves the dashboard rollups.
type DashboardHandler struct {
	Service DashboardService
	// DefaultDays is used when ?days is absent or not an integer.
	DefaultDays int
	Log         *zap.Logger
}

// UpcomingPayments handles GET /api/dashboard/upcoming-payments?days=N.
func (h *DashboardHandler) UpcomingPayments(w http.ResponseWriter, r *http.Request) {
	days := h.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			days = n
		}
	}

	payments, err := h.Service.UpcomingPayments(r.Context(), days, h.Service.Today())
	if err != nil {
		nopIfNil(h.Log).Error("Failed to fetch upcoming payments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch upcoming payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
