package adapter

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/amishk599/jobpulse/internal/retry"
)

// SalaryBucket is one bar of the upstream salary histogram.
type SalaryBucket struct {
	Salary int
	Count  int
}

// CompanyCount is one entry of the upstream top-companies leaderboard.
type CompanyCount struct {
	Name          string  `json:"display_name"`
	Count         int     `json:"count"`
	AverageSalary float64 `json:"average_salary"`
}

// UpstreamCategory is a category tag known to the upstream API.
type UpstreamCategory struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// RegionCount is the number of live postings in one upstream region.
type RegionCount struct {
	Region string
	Count  int
}

// MonthlySalary is the upstream average advertised salary for one month
// ("2006-01").
type MonthlySalary struct {
	Month   string
	Average float64
}

type histogramResponse struct {
	Histogram map[string]int `json:"histogram"`
}

type topCompaniesResponse struct {
	Leaderboard []CompanyCount `json:"leaderboard"`
}

type geodataResponse struct {
	Locations []struct {
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Count int `json:"count"`
	} `json:"locations"`
}

type historyResponse struct {
	Month map[string]float64 `json:"month"`
}

type categoriesResponse struct {
	Results []UpstreamCategory `json:"results"`
}

// MarketClient reads the auxiliary Adzuna market endpoints. Unlike search
// pagination, these calls are retried on transient failures.
type MarketClient struct {
	search  *AdzunaClient
	retrier *retry.Retrier
}

// NewMarketClient shares credentials, transport and rate limiter with search.
func NewMarketClient(search *AdzunaClient, retrier *retry.Retrier) *MarketClient {
	return &MarketClient{search: search, retrier: retrier}
}

func (m *MarketClient) endpoint(name string, params url.Values) string {
	c := m.search
	q := url.Values{}
	q.Set("app_id", c.creds.AppID)
	q.Set("app_key", c.creds.AppKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.country, name, q.Encode())
}

func (m *MarketClient) get(ctx context.Context, name string, params url.Values, out any) error {
	_, err := retry.Do(ctx, m.retrier, "adzuna "+name, func(ctx context.Context) (struct{}, error) {
		if err := m.search.limiter.Wait(ctx, adzunaUpstream); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, getJSON(ctx, m.search.client, m.endpoint(name, params), out)
	})
	if err != nil {
		return fmt.Errorf("adzuna %s: %w", name, err)
	}
	return nil
}

// queryParams builds endpoint parameters, leaving out empty values.
func queryParams(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

// SalaryHistogram returns salary buckets for what, sorted by salary. An
// empty location covers the whole country.
func (m *MarketClient) SalaryHistogram(ctx context.Context, what, location string) ([]SalaryBucket, error) {
	var resp histogramResponse
	if err := m.get(ctx, "histogram", queryParams("what", what, "location0", location), &resp); err != nil {
		return nil, err
	}

	buckets := make([]SalaryBucket, 0, len(resp.Histogram))
	for k, count := range resp.Histogram {
		salary, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		buckets = append(buckets, SalaryBucket{Salary: salary, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Salary < buckets[j].Salary })
	return buckets, nil
}

// TopCompanies returns the upstream leaderboard of employers for what. An
// empty location covers the whole country.
func (m *MarketClient) TopCompanies(ctx context.Context, what, location string) ([]CompanyCount, error) {
	var resp topCompaniesResponse
	if err := m.get(ctx, "top_companies", queryParams("what", what, "location0", location), &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

// Geodata returns posting counts per region below location0, largest
// first. category is an upstream category tag and may be empty.
func (m *MarketClient) Geodata(ctx context.Context, location0, category string) ([]RegionCount, error) {
	var resp geodataResponse
	if err := m.get(ctx, "geodata", queryParams("location0", location0, "category", category), &resp); err != nil {
		return nil, err
	}

	regions := make([]RegionCount, 0, len(resp.Locations))
	for _, l := range resp.Locations {
		if l.Location.DisplayName == "" {
			continue
		}
		regions = append(regions, RegionCount{Region: l.Location.DisplayName, Count: l.Count})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return regions[i].Region < regions[j].Region
	})
	return regions, nil
}

// History returns the average advertised salary for each of the last
// months months, oldest first.
func (m *MarketClient) History(ctx context.Context, months int, location0, category string) ([]MonthlySalary, error) {
	if months <= 0 {
		return nil, fmt.Errorf("adzuna history: months must be positive, got %d", months)
	}
	params := queryParams("location0", location0, "category", category)
	params.Set("months", strconv.Itoa(months))

	var resp historyResponse
	if err := m.get(ctx, "history", params, &resp); err != nil {
		return nil, err
	}

	trend := make([]MonthlySalary, 0, len(resp.Month))
	for month, avg := range resp.Month {
		trend = append(trend, MonthlySalary{Month: month, Average: avg})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend, nil
}

// Categories returns every category tag the upstream API knows about.
func (m *MarketClient) Categories(ctx context.Context) ([]UpstreamCategory, error) {
	var resp categoriesResponse
	if err := m.get(ctx, "categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
