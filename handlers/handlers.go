// Package handlers provides the HTTP boundary of the bulario API. It
// validates and clamps external input shapes before calling the query
// engine, which assumes validated primitives, and formats JSON responses.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pbarbosa/bulario-api/export"
	"github.com/pbarbosa/bulario-api/health"
	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/query"
)

// Input bounds, enforced here so the engine never sees out-of-contract values.
const (
	defaultPage        = 1
	defaultLimit       = 10
	maxLimit           = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 20
	defaultRecentDays  = 7
	maxRecentDays      = 180
	maxDateRangeDays   = 180
)

// Handler bundles the query engine with its boundary collaborators.
type Handler struct {
	engine    *query.Engine
	validator interfaces.DataValidator
	checker   *health.HealthChecker
}

// NewHandler creates the HTTP handler set with injected dependencies.
func NewHandler(engine *query.Engine, validator interfaces.DataValidator, checker *health.HealthChecker) *Handler {
	return &Handler{
		engine:    engine,
		validator: validator,
		checker:   checker,
	}
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ListMedications handles GET /medications with the filters of the main
// listing: page, limit, search, category, status, dateRange.
func (h *Handler) ListMedications(w http.ResponseWriter, r *http.Request) {
	page, limit, filters, ok := h.listParams(w, r)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, h.engine.List(page, limit, filters))
}

// SearchMedications handles GET /medications/search?q=...&limit=...
func (h *Handler) SearchMedications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing search query")
		return
	}
	if err := h.validator.ValidateInput(q); err != nil {
		logging.Warn("Unusual user input", "query", q)
		RespondWithError(w, http.StatusBadRequest, "Invalid search query")
		return
	}

	limit, ok := boundedIntParam(w, r, "limit", defaultSearchLimit, 1, maxSearchLimit)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, h.engine.Search(q, limit))
}

// MedicationStats handles GET /medications/stats
func (h *Handler) MedicationStats(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.engine.GetStats())
}

// RecentUpdates handles GET /medications/recent?days=...
func (h *Handler) RecentUpdates(w http.ResponseWriter, r *http.Request) {
	days, ok := boundedIntParam(w, r, "days", defaultRecentDays, 1, maxRecentDays)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, h.engine.RecentUpdates(days))
}

// FindMedicationByID handles GET /medications/{id}. An unknown id is a
// defined not-found result, not an engine error.
func (h *Handler) FindMedicationByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		logging.Warn("Unusual user input", "id", idStr)
		RespondWithError(w, http.StatusBadRequest, "Invalid medication id")
		return
	}

	medication, found := h.engine.GetByID(id)
	if !found {
		RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, medication)
}

// ExportMedications handles GET /medications/export?format=csv|json|tsv
// plus the same filters as the listing. The whole filtered result is
// exported, not a single page.
func (h *Handler) ExportMedications(w http.ResponseWriter, r *http.Request) {
	_, _, filters, ok := h.listParams(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	result := h.engine.List(1, maxExportLimit, filters)

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		body = export.AsCSV(result.Items)
		contentType = "text/csv; charset=utf-8"
	case "tsv", "excel":
		body = export.AsTSV(result.Items)
		contentType = "text/tab-separated-values; charset=utf-8"
	case "json":
		body, err = export.AsJSON(result.Items)
		contentType = "application/json; charset=utf-8"
		if err != nil {
			logging.Error("Failed to serialize export", "error", err)
			RespondWithError(w, http.StatusInternalServerError, "Export failed")
			return
		}
	default:
		RespondWithError(w, http.StatusBadRequest, "Unknown export format")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Warn("Failed to write export", "error", err)
	}
}

// maxExportLimit bounds a full filtered export.
const maxExportLimit = 100000

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	_, data, httpStatus := h.checker.HealthCheck()
	RespondWithJSON(w, httpStatus, data)
}

// listParams validates and defaults the shared listing parameters.
func (h *Handler) listParams(w http.ResponseWriter, r *http.Request) (page, limit int, filters query.Filters, ok bool) {
	page, ok = boundedIntParam(w, r, "page", defaultPage, 1, 1<<30)
	if !ok {
		return 0, 0, query.Filters{}, false
	}

	limit, ok = boundedIntParam(w, r, "limit", defaultLimit, 1, maxLimit)
	if !ok {
		return 0, 0, query.Filters{}, false
	}

	q := r.URL.Query()
	filters = query.Filters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	for _, input := range []string{filters.Search, filters.Category, filters.Status} {
		if err := h.validator.ValidateInput(input); err != nil {
			logging.Warn("Unusual user input", "input", input)
			RespondWithError(w, http.StatusBadRequest, "Invalid filter value")
			return 0, 0, query.Filters{}, false
		}
	}

	if raw := q.Get("dateRange"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 || days > maxDateRangeDays {
			RespondWithError(w, http.StatusBadRequest, "dateRange must be between 0 and 180")
			return 0, 0, query.Filters{}, false
		}
		filters.DateRangeDays = &days
	}

	return page, limit, filters, true
}

// boundedIntParam parses an optional positive integer query parameter,
// rejecting values outside [minValue, maxValue].
func boundedIntParam(w http.ResponseWriter, r *http.Request, name string, defaultValue, minValue, maxValue int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < minValue || value > maxValue {
		logging.Warn("Unusual user input", "param", name, "value", raw)
		RespondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}

	return value, true
}
