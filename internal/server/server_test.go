package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJobs() []model.Job {
	mk := func(id, title, company, location string, cat model.Category, wt model.WorkType, desc string) model.Job {
		return model.Job{
			ID:              id,
			Title:           title,
			Company:         company,
			Location:        location,
			Category:        cat,
			ExperienceLevel: model.ExperienceMid,
			WorkType:        wt,
			RequiredSkills:  []string{"Python"},
			Description:     desc,
			PostedDate:      time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
			Source:          "Adzuna API",
			FetchedAt:       time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		}
	}
	a := mk("1", "ML Engineer", "Acme", "London", model.CategoryEngineering, model.WorkHybrid, "innovative team")
	a.SetSalary(60000, 80000)
	b := mk("2", "Data Scientist", "Acme", "Manchester", model.CategoryDataScience, model.WorkRemote, "exciting growth")
	c := mk("3", "Research Scientist", "Globex", "London", model.CategoryResearch, model.WorkOnSite, "stressful")
	return []model.Job{a, b, c}
}

// newTestServer writes jobs (unless nil) to a temp dataset and returns an
// httptest server over it.
func newTestServer(t *testing.T, jobs []model.Job, staticDir string) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	if jobs != nil {
		if err := dataset.NewCSVWriter(path).Write(jobs); err != nil {
			t.Fatalf("writing dataset: %v", err)
		}
	}
	srv := httptest.NewServer(New(Options{DatasetPath: path, StaticDir: staticDir}, discardLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv, path
}

func get(t *testing.T, url string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	// A bare transport so Go does not negotiate gzip on our behalf.
	resp, err := (&http.Client{Transport: &http.Transport{DisableCompression: true}}).Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth_CORSAndCacheHeaders(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")

	resp := get(t, srv.URL+"/api/health", map[string]string{"Origin": "http://example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", got)
	}
}

func TestJobs_All(t *testing.T) {
	srv, _ := newTestServer(t, testJobs(), "")

	resp := get(t, srv.URL+"/api/jobs", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var views []jobView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("jobs = %d, want 3", len(views))
	}
	if views[0].SalaryAvg == nil || *views[0].SalaryAvg != 70000 || views[1].SalaryMin != nil {
		t.Errorf("salary fields not carried: %+v / %+v", views[0], views[1])
	}
}

func TestJobs_Filters(t *testing.T) {
	srv, _ := newTestServer(t, testJobs(), "")

	tests := []struct {
		query   string
		wantIDs []string
	}{
		{"category=research", []string{"3"}},
		{"work_type=Remote", []string{"2"}},
		{"location=london", []string{"1", "3"}},
		{"q=acme&location=manchester", []string{"2"}},
		{"experience=Senior", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := get(t, srv.URL+"/api/jobs?"+tt.query, nil)
			var views []jobView
			if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
				t.Fatalf("decode: %v", err)
			}
			var ids []string
			for _, v := range views {
				ids = append(ids, v.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestJobs_MissingDataset(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")

	for _, path := range []string{"/api/jobs", "/api/summary", "/api/sentiment", "/dataset.csv"} {
		if resp := get(t, srv.URL+path, nil); resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestJobs_CorruptDataset(t *testing.T) {
	srv, path := newTestServer(t, nil, "")
	if err := os.WriteFile(path, []byte("not,a,dataset\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if resp := get(t, srv.URL+"/api/jobs", nil); resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestSummary(t *testing.T) {
	srv, _ := newTestServer(t, testJobs(), "")

	var s analytics.Summary
	if err := json.NewDecoder(get(t, srv.URL+"/api/summary", nil).Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Total != 3 || s.Companies[0].Key != "Acme" || s.Salary.Mean != 70000 {
		t.Errorf("summary = %+v", s)
	}
}

func TestSentiment(t *testing.T) {
	srv, _ := newTestServer(t, testJobs(), "")

	var got []analytics.CompanySentiment
	if err := json.NewDecoder(get(t, srv.URL+"/api/sentiment", nil).Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Company != "Acme" || got[0].Jobs != 2 {
		t.Errorf("sentiment = %+v, want only Acme", got)
	}
}

func TestDatasetFile_Plain(t *testing.T) {
	srv, path := newTestServer(t, testJobs(), "")
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	resp := get(t, srv.URL+"/dataset.csv", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != string(want) {
		t.Errorf("status = %d, body matches = %v", resp.StatusCode, string(body) == string(want))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDatasetFile_Brotli(t *testing.T) {
	srv, path := newTestServer(t, testJobs(), "")
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	resp := get(t, srv.URL+"/dataset.csv", map[string]string{"Accept-Encoding": "gzip, br"})
	if got := resp.Header.Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	body, err := io.ReadAll(brotli.NewReader(resp.Body))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(body) != string(want) {
		t.Error("decompressed body differs from the dataset file")
	}
}

func TestAcceptsBrotli(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip", false},
		{"br", true},
		{"gzip, deflate, br", true},
		{"BR;q=0.5", true},
		{"br;q=0", false},
	}
	for _, tt := range tests {
		if got := acceptsBrotli(tt.header); got != tt.want {
			t.Errorf("acceptsBrotli(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>dashboard</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv, _ := newTestServer(t, testJobs(), dir)

	resp := get(t, srv.URL+"/", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "dashboard") {
		t.Errorf("status = %d, body = %q", resp.StatusCode, body)
	}
	if resp := get(t, srv.URL+"/api/health", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("api route shadowed by static files: %d", resp.StatusCode)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(Options{DatasetPath: filepath.Join(t.TempDir(), "jobs.csv")}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
