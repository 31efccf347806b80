// Package health provides health checking functionality for the bulario API.
package health

import (
	"net/http"
	"time"

	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/scheduler"
)

// HealthChecker reports service health from the dataset snapshot state.
type HealthChecker struct {
	dataStore interfaces.DataStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore) *HealthChecker {
	return &HealthChecker{
		dataStore: dataStore,
	}
}

// HealthCheck returns the current status, response payload and HTTP code.
//
// An empty dataset is reported unhealthy: the service still answers (with
// empty results), but an operator should look at the source file. Stale
// data degrades before it goes unhealthy.
func (h *HealthChecker) HealthCheck() (status string, data map[string]any, httpStatus int) {
	medications := h.dataStore.GetMedications()
	lastLoaded := h.dataStore.GetLastLoaded()
	report := h.dataStore.GetLoadReport()
	reloading := h.dataStore.IsReloading()

	dataAge := time.Since(lastLoaded)

	switch {
	case len(medications) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 25*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"status":         status,
		"record_count":   len(medications),
		"rows_seen":      report.RowsSeen,
		"rows_dropped":   report.RowsDropped,
		"last_load":      lastLoaded.Format(time.RFC3339),
		"data_age_hours": dataAge.Hours(),
		"next_reload":    scheduler.CalculateNextUpdate().Format(time.RFC3339),
		"is_reloading":   reloading,
	}

	return status, data, httpStatus
}
