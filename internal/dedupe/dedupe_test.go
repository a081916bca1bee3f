package dedupe

import (
	"testing"

	"github.com/amishk599/jobpulse/internal/model"
)

func ids(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", Title: "ML Engineer", Company: "Acme", Description: "first"},
		{ID: "2", Title: "ML Engineer", Company: "Acme", Description: "second"},
	}
	got := Dedupe(jobs)
	if len(got) != 1 || got[0].ID != "1" || got[0].Description != "first" {
		t.Fatalf("Dedupe = %+v, want only the first posting", got)
	}
}

func TestDedupe_KeysOnTitleAndCompany(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", Title: "ML Engineer", Company: "Acme"},
		{ID: "2", Title: "ML Engineer", Company: "Globex"},
		{ID: "3", Title: "Data Scientist", Company: "Acme"},
		{ID: "4", Title: "ml engineer", Company: "Acme"},
		{ID: "5", Title: "Data Scientist", Company: "Acme"},
		{ID: "6", Title: "ML Engineer", Company: "Globex"},
	}
	got := ids(Dedupe(jobs))
	want := []string{"1", "2", "3", "4"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", Title: "A", Company: "X"},
		{ID: "2", Title: "A", Company: "X"},
		{ID: "3", Title: "B", Company: "X"},
		{ID: "4", Title: "A", Company: "Y"},
		{ID: "5", Title: "B", Company: "X"},
	}
	once := Dedupe(jobs)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("position %d: %s -> %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestDedupe_Empty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
}
