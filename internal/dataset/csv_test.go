package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

func sampleJob(id string) model.Job {
	j := model.Job{
		ID:              id,
		Title:           "Senior ML Engineer",
		Company:         "Acme, Ltd",
		Location:        "London",
		Category:        model.CategoryEngineering,
		ExperienceLevel: model.ExperienceSenior,
		WorkType:        model.WorkHybrid,
		RequiredSkills:  []string{"Python", "Pytorch", "Hugging Face"},
		Description:     "Build \"great\" models,\nship them...",
		PostedDate:      time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		URL:             "https://example.com/" + id,
		Source:          "Adzuna API",
		FetchedAt:       time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}
	j.SetSalary(70000, 110001)
	return j
}

func TestEncode_Header(t *testing.T) {
	var b strings.Builder
	if err := Encode(&b, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "id,title,company,location,category,experience_level,work_type,salary_min,salary_max,salary_avg,required_skills,description,posted_date,url,source,fetched_at\n"
	if b.String() != want {
		t.Errorf("header = %q, want %q", b.String(), want)
	}
}

func TestEncode_Row(t *testing.T) {
	var b strings.Builder
	if err := Encode(&b, []model.Job{sampleJob("1")}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`"Acme, Ltd"`,
		"70000,110001,90000.5",
		`"Python, Pytorch, Hugging Face"`,
		"2026-10-01T09:00:00Z",
		"2026-10-15T12:00:00Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded row missing %q:\n%s", want, out)
		}
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jobs.csv")
	w := NewCSVWriter(path)

	noSalary := sampleJob("2")
	noSalary.SalaryMin, noSalary.SalaryMax, noSalary.SalaryAvg = nil, nil, nil
	noSalary.RequiredSkills = nil
	jobs := []model.Job{sampleJob("1"), noSalary}

	if err := w.Write(jobs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d jobs, want 2", len(got))
	}

	first := got[0]
	if first.Company != "Acme, Ltd" || first.Description != jobs[0].Description {
		t.Errorf("text fields = %q / %q", first.Company, first.Description)
	}
	if *first.SalaryMin != 70000 || *first.SalaryMax != 110001 || *first.SalaryAvg != 90000.5 {
		t.Errorf("salary = %d/%d/%v", *first.SalaryMin, *first.SalaryMax, *first.SalaryAvg)
	}
	if !slices.Equal(first.RequiredSkills, jobs[0].RequiredSkills) {
		t.Errorf("skills = %v", first.RequiredSkills)
	}
	if !first.PostedDate.Equal(jobs[0].PostedDate) || !first.FetchedAt.Equal(jobs[0].FetchedAt) {
		t.Errorf("dates = %v / %v", first.PostedDate, first.FetchedAt)
	}
	if first.Category != model.CategoryEngineering || first.WorkType != model.WorkHybrid {
		t.Errorf("enums = %q / %q", first.Category, first.WorkType)
	}

	second := got[1]
	if second.SalaryMin != nil || second.SalaryMax != nil || second.SalaryAvg != nil {
		t.Error("absent salary should stay absent")
	}
	if len(second.RequiredSkills) != 0 {
		t.Errorf("skills = %v, want none", second.RequiredSkills)
	}
}

func TestWrite_ReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	w := NewCSVWriter(path)

	if err := w.Write([]model.Job{sampleJob("1"), sampleJob("2"), sampleJob("3")}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := w.Write([]model.Job{sampleJob("9")}); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "9" {
		t.Errorf("jobs = %v, want only the latest snapshot", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the dataset (no temp files)", len(entries))
	}
}

func TestWrite_EmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	if err := NewCSVWriter(path).Write(nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load = %v, want empty", got)
	}
}

func TestWrite_UnwritableDestinationKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.csv")
	w := NewCSVWriter(path)
	if err := w.Write([]model.Job{sampleJob("old")}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// A directory where the parent should be makes the write fail.
	blocked := NewCSVWriter(filepath.Join(path, "jobs.csv"))
	if err := blocked.Write([]model.Job{sampleJob("new")}); err == nil {
		t.Fatal("Write into a file path should fail")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "old" {
		t.Errorf("previous snapshot damaged: %v", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"renamed column", strings.Replace(strings.Join(Columns, ","), "salary_avg", "salary_mean", 1) + "\n"},
		{"bad salary", strings.Join(Columns, ",") + "\n1,t,c,l,Engineering,Mid,Hybrid,lots,,,,,,,,\n"},
		{"bad date", strings.Join(Columns, ",") + "\n1,t,c,l,Engineering,Mid,Hybrid,,,,,,yesterday,,,\n"},
		{"short row", strings.Join(Columns, ",") + "\n1,t,c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Fatal("Decode: expected error")
			}
		})
	}
}

func TestDecode_HeaderMismatchSentinel(t *testing.T) {
	input := strings.Replace(strings.Join(Columns, ","), "url", "link", 1) + "\n"
	_, err := Decode(strings.NewReader(input))
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("err = %v, want ErrHeaderMismatch", err)
	}
}

func TestDecode_ToleratesLeadingBOM(t *testing.T) {
	var b strings.Builder
	if err := Encode(&b, []model.Job{sampleJob("1")}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.HasPrefix(b.String(), "\ufeff") {
		t.Fatal("Encode should not write a BOM")
	}

	jobs, err := Decode(strings.NewReader("\ufeff" + b.String()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "1" {
		t.Errorf("jobs = %v", jobs)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	jobs, err := Decode(strings.NewReader(""))
	if err != nil || len(jobs) != 0 {
		t.Fatalf("Decode(\"\") = %v, %v", jobs, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}
