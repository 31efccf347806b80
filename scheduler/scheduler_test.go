package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/pbarbosa/bulario-api/data"
	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry/entities"
	"github.com/pbarbosa/bulario-api/validation"
)

type fakeLoader struct {
	medications []entities.Medication
	err         error
	calls       int
}

func (f *fakeLoader) LoadMedications() ([]entities.Medication, map[int]entities.Medication, *interfaces.LoadReport, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, nil, f.err
	}

	byID := make(map[int]entities.Medication)
	for _, m := range f.medications {
		if m.ID > 0 {
			if _, exists := byID[m.ID]; !exists {
				byID[m.ID] = m
			}
		}
	}
	return f.medications, byID, &interfaces.LoadReport{
		RowsSeen:   len(f.medications),
		RowsLoaded: len(f.medications),
	}, nil
}

func TestReload(t *testing.T) {
	logging.InitLogger("")

	store := data.NewContainer()
	loader := &fakeLoader{medications: []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A"},
		{ID: 2, RegistrationNumber: "200", Name: "Produto B"},
	}}
	s := NewScheduler(store, loader, validation.NewDataValidator())

	if err := s.Reload(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(store.GetMedications()) != 2 {
		t.Errorf("Expected 2 records after reload, got %d", len(store.GetMedications()))
	}
	if store.GetLastLoaded().IsZero() {
		t.Error("Expected lastLoaded to be set")
	}
	if store.IsReloading() {
		t.Error("Expected reload flag cleared after Reload")
	}
}

func TestReloadError(t *testing.T) {
	logging.InitLogger("")

	store := data.NewContainer()
	loader := &fakeLoader{medications: []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A"},
	}}
	s := NewScheduler(store, loader, validation.NewDataValidator())

	if err := s.Reload(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A failing reload swaps in an empty dataset and surfaces the error.
	loader.err = errors.New("file vanished")
	if err := s.Reload(); err == nil {
		t.Fatal("Expected reload error")
	}

	if len(store.GetMedications()) != 0 {
		t.Errorf("Expected empty dataset after failed reload, got %d records", len(store.GetMedications()))
	}
	if store.IsReloading() {
		t.Error("Expected reload flag cleared after failed reload")
	}
}

func TestReloadSkipsWhenInProgress(t *testing.T) {
	logging.InitLogger("")

	store := data.NewContainer()
	loader := &fakeLoader{medications: []entities.Medication{
		{ID: 1, RegistrationNumber: "100", Name: "Produto A"},
	}}
	s := NewScheduler(store, loader, validation.NewDataValidator())

	if !store.BeginReload() {
		t.Fatal("Expected BeginReload to succeed")
	}
	defer store.EndReload()

	if err := s.Reload(); err != nil {
		t.Fatalf("Expected skipped reload to return nil, got %v", err)
	}
	if loader.calls != 0 {
		t.Errorf("Expected loader untouched while another reload runs, got %d calls", loader.calls)
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	next := CalculateNextUpdate()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("Expected next update in the future, got %v", next)
	}
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("Expected a 06:00 schedule, got %v", next)
	}
	if diff := next.Sub(now); diff > 24*time.Hour {
		t.Errorf("Expected next update within 24 hours, got %v", diff)
	}
}
