// Package query implements the read operations over the in-memory dataset:
// filtered listing with pagination, quick search, point lookup, statistics
// and the recent updates feed. All operations are pure reads over the
// current snapshot and never error for validated inputs; an empty dataset
// degrades to empty results and zeroed statistics.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/registry/entities"
)

// MaxRecentUpdates caps the recent updates feed.
const MaxRecentUpdates = 20

// Filters are the optional list filters. All of them compose with AND.
// DateRangeDays is a pointer because 0 is a meaningful value (bulletin
// updated today).
type Filters struct {
	Search        string
	Category      string
	Status        string
	DateRangeDays *int
}

// ListResult is the paginated response shape of List.
type ListResult struct {
	Items      []MedicationView `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// Stats summarizes the dataset. The three window counts are computed from
// the same instant so they are consistent within one call.
type Stats struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Inactive          int `json:"inactive"`
	Updated           int `json:"updated"`
	UpdatedLast7Days  int `json:"updatedLast7Days"`
	UpdatedLast30Days int `json:"updatedLast30Days"`
	UpdatedLast90Days int `json:"updatedLast90Days"`
}

// Engine answers queries against the dataset snapshot in a DataStore.
// It assumes its primitive inputs were validated at the HTTP boundary.
type Engine struct {
	store interfaces.DataStore
}

// NewEngine creates a query engine reading from store.
func NewEngine(store interfaces.DataStore) *Engine {
	return &Engine{store: store}
}

// List returns the filtered, paginated dataset. Filters apply in order:
// free-text search across name, registration number and holder, then exact
// category, then exact status, then the bulletin date window. Pages are
// 1-based; a page past the end returns empty items with the correct total.
func (e *Engine) List(page, limit int, filters Filters) ListResult {
	medications := e.store.GetMedications()
	now := time.Now()

	matched := make([]entities.Medication, 0, len(medications))
	for _, m := range medications {
		if !matchesFilters(m, filters, now) {
			continue
		}
		matched = append(matched, m)
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]MedicationView, 0, end-start)
	for _, m := range matched[start:end] {
		items = append(items, ProjectMedication(m))
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Search is the quick lookup used by autocomplete: a case-insensitive
// substring match on name or registration number only. Unlike List's search
// it does not match on holder; the two are intentionally different.
// Results come back in dataset order, at most limit of them.
func (e *Engine) Search(query string, limit int) []MedicationView {
	q := strings.ToLower(query)

	results := make([]MedicationView, 0, limit)
	for _, m := range e.store.GetMedications() {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.RegistrationNumber), q) {
			results = append(results, ProjectMedication(m))
		}
	}

	return results
}

// GetByID looks a record up by its product id. Source data may carry
// duplicate ids; only the first record in dataset order is reachable.
func (e *Engine) GetByID(id int) (MedicationView, bool) {
	m, exists := e.store.GetMedicationsByID()[id]
	if !exists {
		return MedicationView{}, false
	}
	return ProjectMedication(m), true
}

// GetStats computes dataset statistics. "Updated" means the record carries
// a bulletin update date; the window counts measure it against now.
func (e *Engine) GetStats() Stats {
	now := time.Now()
	last7 := now.AddDate(0, 0, -7)
	last30 := now.AddDate(0, 0, -30)
	last90 := now.AddDate(0, 0, -90)

	var stats Stats
	for _, m := range e.store.GetMedications() {
		stats.Total++
		if m.Status == entities.StatusAtivo {
			stats.Active++
		} else {
			stats.Inactive++
		}

		if m.BulletinUpdatedAt == nil {
			continue
		}
		stats.Updated++
		if !m.BulletinUpdatedAt.Before(last7) {
			stats.UpdatedLast7Days++
		}
		if !m.BulletinUpdatedAt.Before(last30) {
			stats.UpdatedLast30Days++
		}
		if !m.BulletinUpdatedAt.Before(last90) {
			stats.UpdatedLast90Days++
		}
	}

	return stats
}

// RecentUpdates returns the records whose bulletin was updated within the
// last days days, most recent first. Ties keep dataset order; the feed is
// capped at MaxRecentUpdates.
func (e *Engine) RecentUpdates(days int) []MedicationView {
	since := time.Now().AddDate(0, 0, -days)

	var recent []entities.Medication
	for _, m := range e.store.GetMedications() {
		if m.BulletinUpdatedAt != nil && !m.BulletinUpdatedAt.Before(since) {
			recent = append(recent, m)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].BulletinUpdatedAt.After(*recent[j].BulletinUpdatedAt)
	})

	if len(recent) > MaxRecentUpdates {
		recent = recent[:MaxRecentUpdates]
	}

	items := make([]MedicationView, 0, len(recent))
	for _, m := range recent {
		items = append(items, ProjectMedication(m))
	}
	return items
}

// matchesFilters applies the List filters to one record.
func matchesFilters(m entities.Medication, filters Filters, now time.Time) bool {
	if filters.Search != "" {
		q := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.RegistrationNumber), q) &&
			!strings.Contains(strings.ToLower(m.Holder), q) {
			return false
		}
	}

	if filters.Category != "" && m.Category != filters.Category {
		return false
	}

	if filters.Status != "" && m.Status != filters.Status {
		return false
	}

	if filters.DateRangeDays != nil {
		since := now.AddDate(0, 0, -*filters.DateRangeDays)
		if m.BulletinUpdatedAt == nil || m.BulletinUpdatedAt.Before(since) {
			return false
		}
	}

	return true
}
