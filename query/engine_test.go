package query

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/pbarbosa/bulario-api/data"
	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry/entities"
)

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}

func newStore(t *testing.T, medications []entities.Medication) interfaces.DataStore {
	t.Helper()
	logging.InitLogger("")

	byID := make(map[int]entities.Medication)
	for _, m := range medications {
		if m.ID <= 0 {
			continue
		}
		if _, exists := byID[m.ID]; !exists {
			byID[m.ID] = m
		}
	}

	store := data.NewContainer()
	store.UpdateData(medications, byID, &interfaces.LoadReport{RowsLoaded: len(medications)})
	return store
}

func sampleMedications(n int) []entities.Medication {
	medications := make([]entities.Medication, 0, n)
	for i := 1; i <= n; i++ {
		medications = append(medications, entities.Medication{
			ID:                 i,
			RegistrationNumber: fmt.Sprintf("1%04d", i),
			Name:               fmt.Sprintf("Produto %d", i),
			Holder:             "Laboratorio Nacional",
			Category:           entities.CategoryMedicamento,
			Status:             entities.StatusAtivo,
			BulletinUpdatedAt:  daysAgo(i),
		})
	}
	return medications
}

func TestListPagination(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(25)))

	result := engine.List(3, 10, Filters{})

	if len(result.Items) != 5 {
		t.Errorf("Expected 5 items on the last page, got %d", len(result.Items))
	}
	if result.Total != 25 {
		t.Errorf("Expected total 25, got %d", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", result.TotalPages)
	}
	if result.Page != 3 || result.Limit != 10 {
		t.Errorf("Expected page/limit echoed back, got %d/%d", result.Page, result.Limit)
	}
	if result.Items[0].Name != "Produto 21" {
		t.Errorf("Expected dataset order preserved, got %q first", result.Items[0].Name)
	}
}

func TestListPageBeyondEnd(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(25)))

	result := engine.List(10, 10, Filters{})

	if len(result.Items) != 0 {
		t.Errorf("Expected empty page past the end, got %d items", len(result.Items))
	}
	if result.Total != 25 || result.TotalPages != 3 {
		t.Errorf("Expected total 25 and 3 pages, got %d/%d", result.Total, result.TotalPages)
	}
}

func TestListNoMatches(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(25)))

	result := engine.List(1, 10, Filters{Category: "vacina"})

	if len(result.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(result.Items))
	}
	if result.Total != 0 {
		t.Errorf("Expected total 0, got %d", result.Total)
	}
	if result.TotalPages != 1 {
		t.Errorf("Expected totalPages floor of 1, got %d", result.TotalPages)
	}
}

func TestListFiltersCompose(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Dipirona Sodica", Holder: "Lab A", Category: entities.CategoryMedicamento, Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(2)},
		{ID: 2, RegistrationNumber: "200", Name: "Dipirona Gotas", Holder: "Lab B", Category: entities.CategoryMedicamento, Status: entities.StatusInativo, BulletinUpdatedAt: daysAgo(2)},
		{ID: 3, RegistrationNumber: "300", Name: "Dipirona Comprimido", Holder: "Lab C", Category: entities.CategoryMedicamento, Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(40)},
		{ID: 4, RegistrationNumber: "400", Name: "Paracetamol", Holder: "Lab D", Category: entities.CategoryMedicamento, Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(2)},
	}
	engine := NewEngine(newStore(t, medications))

	window := 7
	result := engine.List(1, 10, Filters{
		Search:        "dipirona",
		Status:        entities.StatusAtivo,
		DateRangeDays: &window,
	})

	if result.Total != 1 {
		t.Fatalf("Expected AND composition to leave 1 record, got %d", result.Total)
	}
	if result.Items[0].Name != "Dipirona Sodica" {
		t.Errorf("Expected Dipirona Sodica, got %q", result.Items[0].Name)
	}
}

func TestListSearchMatchesHolder(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A", Holder: "Quimica Industrial", Status: entities.StatusAtivo},
		{ID: 2, RegistrationNumber: "200", Name: "Produto B", Holder: "Lab Comum", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	result := engine.List(1, 10, Filters{Search: "quimica"})
	if result.Total != 1 || result.Items[0].ID != 1 {
		t.Errorf("Expected the list search to match on holder, got %+v", result)
	}

	// The quick search deliberately does not look at the holder.
	if found := engine.Search("quimica", 10); len(found) != 0 {
		t.Errorf("Expected quick search to ignore holder, got %d results", len(found))
	}
}

func TestListDateRangeZeroDistinctFromUnset(t *testing.T) {
	recent := time.Now().Add(-1 * time.Hour)
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A", Status: entities.StatusAtivo, BulletinUpdatedAt: &recent},
		{ID: 2, RegistrationNumber: "200", Name: "Produto B", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(3)},
		{ID: 3, RegistrationNumber: "300", Name: "Produto C", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	// No window set: everything passes, dated or not.
	if result := engine.List(1, 10, Filters{}); result.Total != 3 {
		t.Errorf("Expected no date filtering without a window, got %+v", result)
	}

	// A zero-day window cuts at the call instant, so even an hour-old
	// record is outside it. Zero and unset must behave differently.
	window := 0
	if result := engine.List(1, 10, Filters{DateRangeDays: &window}); result.Total != 0 {
		t.Errorf("Expected nothing inside a zero-day window, got %+v", result)
	}

	window = 7
	result := engine.List(1, 10, Filters{DateRangeDays: &window})
	if result.Total != 2 {
		t.Errorf("Expected dated records inside a 7-day window, got %+v", result)
	}
}

func TestListIdempotent(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(25)))

	first := engine.List(2, 10, Filters{Search: "produto"})
	second := engine.List(2, 10, Filters{Search: "produto"})

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for repeated identical queries")
	}
}

func TestSearch(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "1034502", Name: "Amoxicilina", Status: entities.StatusAtivo},
		{ID: 2, RegistrationNumber: "2001111", Name: "AMOXICILINA SUSPENSAO", Status: entities.StatusAtivo},
		{ID: 3, RegistrationNumber: "3002222", Name: "Azitromicina", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	results := engine.Search("amoxicilina", 10)
	if len(results) != 2 {
		t.Fatalf("Expected 2 case-insensitive name matches, got %d", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 2 {
		t.Error("Expected results in dataset order")
	}

	results = engine.Search("1034", 10)
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("Expected registration number match, got %+v", results)
	}
}

func TestSearchLimit(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(25)))

	results := engine.Search("produto", 5)
	if len(results) != 5 {
		t.Errorf("Expected search truncated at limit, got %d results", len(results))
	}
}

func TestGetByID(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A", Status: entities.StatusAtivo},
		{ID: 1, RegistrationNumber: "999", Name: "Produto Duplicado", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	view, found := engine.GetByID(1)
	if !found {
		t.Fatal("Expected to find id 1")
	}
	if view.Name != "Produto A" {
		t.Errorf("Expected first match to win for duplicate ids, got %q", view.Name)
	}

	if _, found := engine.GetByID(42); found {
		t.Error("Expected miss for unknown id")
	}
}

func TestGetStats(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "A", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(3)},
		{ID: 2, RegistrationNumber: "200", Name: "B", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(20)},
		{ID: 3, RegistrationNumber: "300", Name: "C", Status: entities.StatusInativo, BulletinUpdatedAt: daysAgo(60)},
		{ID: 4, RegistrationNumber: "400", Name: "D", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(200)},
		{ID: 5, RegistrationNumber: "500", Name: "E", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	stats := engine.GetStats()

	if stats.Total != 5 {
		t.Errorf("Expected total 5, got %d", stats.Total)
	}
	if stats.Active != 4 || stats.Inactive != 1 {
		t.Errorf("Expected 4 active / 1 inactive, got %d/%d", stats.Active, stats.Inactive)
	}
	if stats.Updated != 4 {
		t.Errorf("Expected 4 records with a bulletin date, got %d", stats.Updated)
	}
	if stats.UpdatedLast7Days != 1 {
		t.Errorf("Expected 1 update in the last 7 days, got %d", stats.UpdatedLast7Days)
	}
	if stats.UpdatedLast30Days != 2 {
		t.Errorf("Expected 2 updates in the last 30 days, got %d", stats.UpdatedLast30Days)
	}
	if stats.UpdatedLast90Days != 3 {
		t.Errorf("Expected 3 updates in the last 90 days, got %d", stats.UpdatedLast90Days)
	}
}

func TestGetStatsWindowsMonotonic(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(100)))

	stats := engine.GetStats()

	if stats.UpdatedLast7Days > stats.UpdatedLast30Days ||
		stats.UpdatedLast30Days > stats.UpdatedLast90Days ||
		stats.UpdatedLast90Days > stats.Updated ||
		stats.Updated > stats.Total {
		t.Errorf("Expected nested windows to be monotonic, got %+v", stats)
	}
}

func TestRecentUpdatesOrderAndCap(t *testing.T) {
	engine := NewEngine(newStore(t, sampleMedications(30)))

	results := engine.RecentUpdates(90)

	if len(results) != MaxRecentUpdates {
		t.Fatalf("Expected feed capped at %d, got %d", MaxRecentUpdates, len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].PublicationDate == nil || results[i].PublicationDate == nil {
			t.Fatal("Expected every recent record to carry a publication date")
		}
		if *results[i-1].PublicationDate < *results[i].PublicationDate {
			t.Errorf("Expected non-increasing order at index %d", i)
		}
	}
	if results[0].ID != 1 {
		t.Errorf("Expected the most recent record first, got id %d", results[0].ID)
	}
}

func TestRecentUpdatesWindow(t *testing.T) {
	medications := []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "A", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(2)},
		{ID: 2, RegistrationNumber: "200", Name: "B", Status: entities.StatusAtivo, BulletinUpdatedAt: daysAgo(10)},
		{ID: 3, RegistrationNumber: "300", Name: "C", Status: entities.StatusAtivo},
	}
	engine := NewEngine(newStore(t, medications))

	results := engine.RecentUpdates(7)
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("Expected only the record inside the window, got %+v", results)
	}
}

func TestEmptyDataset(t *testing.T) {
	engine := NewEngine(newStore(t, nil))

	list := engine.List(1, 10, Filters{})
	if list.Total != 0 || len(list.Items) != 0 || list.TotalPages != 1 {
		t.Errorf("Expected empty list result, got %+v", list)
	}

	if results := engine.Search("produto", 10); len(results) != 0 {
		t.Errorf("Expected empty search results, got %d", len(results))
	}

	if _, found := engine.GetByID(1); found {
		t.Error("Expected no GetByID hit on an empty dataset")
	}

	stats := engine.GetStats()
	if stats.Total != 0 || stats.Active != 0 || stats.Updated != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}

	if results := engine.RecentUpdates(7); len(results) != 0 {
		t.Errorf("Expected empty recent updates, got %d", len(results))
	}
}

func TestProjectMedication(t *testing.T) {
	published := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	m := entities.Medication{
		ID:                 7,
		RegistrationNumber: "1034502",
		Name:               "Produto A",
		Category:           entities.CategoryMedicamento,
		Status:             entities.StatusAtivo,
		BulletinUpdatedAt:  &published,
	}

	view := ProjectMedication(m)

	if view.Holder != "-" || view.Cnpj != "-" || view.ProcessNumber != "-" {
		t.Errorf("Expected absent optional fields to serialize as \"-\", got %+v", view)
	}
	if view.PublicationDate == nil || *view.PublicationDate != "2024-03-15T00:00:00Z" {
		t.Errorf("Expected RFC3339 publication date, got %v", view.PublicationDate)
	}
	if view.LastUpdate != nil {
		t.Errorf("Expected null lastUpdate for missing ingestion date, got %v", view.LastUpdate)
	}
}
