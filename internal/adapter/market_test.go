package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
	"github.com/amishk599/jobpulse/internal/retry"
)

func newTestMarket(t *testing.T, srv *httptest.Server) *MarketClient {
	t.Helper()
	search := newTestClient(t, srv.URL, srv.Client(), defaultOpts("ai"))
	return NewMarketClient(search, retry.NewRetrier(2, time.Millisecond, discardLogger()))
}

func TestSalaryHistogram_SortsBuckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gb/histogram" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("what") != "data scientist" {
			t.Errorf("what = %q", r.URL.Query().Get("what"))
		}
		if _, ok := r.URL.Query()["location0"]; ok {
			t.Error("empty location should not be sent")
		}
		io.WriteString(w, `{"histogram":{"80000":12,"20000":3,"bogus":1,"50000":40}}`)
	}))
	defer srv.Close()

	buckets, err := newTestMarket(t, srv).SalaryHistogram(context.Background(), "data scientist", "")
	if err != nil {
		t.Fatalf("SalaryHistogram: %v", err)
	}
	want := []SalaryBucket{{20000, 3}, {50000, 40}, {80000, 12}}
	if len(buckets) != len(want) {
		t.Fatalf("buckets = %v, want %v", buckets, want)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Errorf("bucket[%d] = %v, want %v", i, buckets[i], want[i])
		}
	}
}

func TestTopCompanies_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location0"); got != "London" {
			t.Errorf("location0 = %q, want London", got)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"leaderboard":[{"display_name":"DeepMind","count":42,"average_salary":95000}]}`)
	}))
	defer srv.Close()

	companies, err := newTestMarket(t, srv).TopCompanies(context.Background(), "ai", "London")
	if err != nil {
		t.Fatalf("TopCompanies: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(companies) != 1 || companies[0].Name != "DeepMind" || companies[0].Count != 42 {
		t.Errorf("companies = %+v", companies)
	}
}

func TestCategories_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestMarket(t, srv).Categories(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want HTTP 401", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCategories_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"tag":"it-jobs","label":"IT Jobs"},{"tag":"scientific-qa-jobs","label":"Scientific & QA Jobs"}]}`)
	}))
	defer srv.Close()

	cats, err := newTestMarket(t, srv).Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0].Tag != "it-jobs" || cats[1].Label != "Scientific & QA Jobs" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestGeodata_SortsRegionsByCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gb/geodata" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("location0") != "UK" || q.Get("category") != "it-jobs" {
			t.Errorf("query = %v", q)
		}
		io.WriteString(w, `{"locations":[
			{"location":{"display_name":"Scotland"},"count":120},
			{"location":{"display_name":"London"},"count":2400},
			{"location":{},"count":7},
			{"location":{"display_name":"Wales"},"count":120}
		]}`)
	}))
	defer srv.Close()

	regions, err := newTestMarket(t, srv).Geodata(context.Background(), "UK", "it-jobs")
	if err != nil {
		t.Fatalf("Geodata: %v", err)
	}
	want := []RegionCount{{"London", 2400}, {"Scotland", 120}, {"Wales", 120}}
	if len(regions) != len(want) {
		t.Fatalf("regions = %v, want %v", regions, want)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("region[%d] = %v, want %v", i, regions[i], want[i])
		}
	}
}

func TestHistory_OrdersMonths(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gb/history" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("months") != "3" || q.Get("location0") != "UK" {
			t.Errorf("query = %v", q)
		}
		if _, ok := q["category"]; ok {
			t.Error("empty category should not be sent")
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"month":{"2026-09":61000.5,"2026-07":58000,"2026-08":59500}}`)
	}))
	defer srv.Close()

	trend, err := newTestMarket(t, srv).History(context.Background(), 3, "UK", "")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (429 retried)", calls.Load())
	}
	want := []MonthlySalary{{"2026-07", 58000}, {"2026-08", 59500}, {"2026-09", 61000.5}}
	if len(trend) != len(want) {
		t.Fatalf("trend = %v, want %v", trend, want)
	}
	for i := range want {
		if trend[i] != want[i] {
			t.Errorf("month[%d] = %v, want %v", i, trend[i], want[i])
		}
	}
}

func TestHistory_RejectsNonPositiveMonths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	if _, err := newTestMarket(t, srv).History(context.Background(), 0, "UK", ""); err == nil {
		t.Fatal("expected error for months = 0")
	}
}
