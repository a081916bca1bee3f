package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
	"github.com/amishk599/jobpulse/internal/ratelimit"
)

const adzunaUpstream = "adzuna"

// Credentials are the Adzuna application id and key.
type Credentials struct {
	AppID  string
	AppKey string
}

// SearchOptions bounds a fetch cycle.
type SearchOptions struct {
	Terms          []string
	Where          string
	ResultsPerPage int
	MaxPages       int           // pages per term
	MaxResults     int           // global budget across all terms
	MaxDaysOld     int           // upstream max_days_old filter
	Timeout        time.Duration // per request
}

// adzunaID accepts both string and numeric ids.
type adzunaID string

func (id *adzunaID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = adzunaID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("adzuna id: %w", err)
	}
	*id = adzunaID(n.String())
	return nil
}

type adzunaDisplayName struct {
	DisplayName string `json:"display_name"`
}

// adzunaPosting represents a single result in the Adzuna search response.
type adzunaPosting struct {
	ID          adzunaID          `json:"id"`
	Title       string            `json:"title"`
	Company     adzunaDisplayName `json:"company"`
	Location    adzunaDisplayName `json:"location"`
	Description string            `json:"description"`
	SalaryMin   *float64          `json:"salary_min"`
	SalaryMax   *float64          `json:"salary_max"`
	Created     string            `json:"created"`
	RedirectURL string            `json:"redirect_url"`
}

// adzunaSearchResponse is the top-level Adzuna search response.
type adzunaSearchResponse struct {
	Results []adzunaPosting `json:"results"`
	Count   int             `json:"count"`
}

// AdzunaClient pages through the Adzuna search API for a fixed set of terms.
type AdzunaClient struct {
	creds   Credentials
	baseURL string
	country string
	opts    SearchOptions
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewAdzunaClient creates a client for the given country endpoint
// (e.g. baseURL "https://api.adzuna.com/v1/api/jobs", country "gb").
// Returns model.ErrMissingCredentials when either credential is empty.
func NewAdzunaClient(
	creds Credentials,
	baseURL string,
	country string,
	opts SearchOptions,
	client *http.Client,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) (*AdzunaClient, error) {
	if creds.AppID == "" || creds.AppKey == "" {
		return nil, model.ErrMissingCredentials
	}
	return &AdzunaClient{
		creds:   creds,
		baseURL: baseURL,
		country: country,
		opts:    opts,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// FetchPostings runs every search term in order and accumulates the raw postings.
//
// For each term, pages are requested until a page comes back empty, a request
// fails, the per-term page limit is hit or the global budget is reached. A
// failed request ends that term only; the next term is still attempted.
// Duplicates across terms are kept. The only error returned is context
// cancellation, together with whatever was fetched before it.
func (c *AdzunaClient) FetchPostings(ctx context.Context) ([]model.RawPosting, error) {
	var all []model.RawPosting

	for _, term := range c.opts.Terms {
		if len(all) >= c.opts.MaxResults {
			break
		}
		c.logger.Info("searching", "term", term)

		for page := 1; page <= c.opts.MaxPages; page++ {
			if err := c.limiter.Wait(ctx, adzunaUpstream); err != nil {
				return all, err
			}

			postings, err := c.searchPage(ctx, term, page)
			if err != nil {
				if ctx.Err() != nil {
					return all, fmt.Errorf("adzuna search cancelled: %w", ctx.Err())
				}
				var httpErr *model.HTTPError
				if errors.As(err, &httpErr) {
					c.logger.Error("search request failed", "term", term, "page", page, "status", httpErr.StatusCode)
				} else {
					c.logger.Warn("search request error", "term", term, "page", page, "error", err)
				}
				break
			}

			if len(postings) == 0 {
				c.logger.Debug("no more results", "term", term, "page", page)
				break
			}

			all = append(all, postings...)
			c.logger.Info("fetched page", "term", term, "page", page, "jobs", len(postings), "total", len(all))

			if len(all) >= c.opts.MaxResults {
				break
			}
		}
	}

	c.logger.Info("fetch complete", "total", len(all))
	return all, nil
}

// searchURL builds the paginated search URL for term and page.
func (c *AdzunaClient) searchURL(term string, page int) string {
	q := url.Values{}
	q.Set("app_id", c.creds.AppID)
	q.Set("app_key", c.creds.AppKey)
	q.Set("what", term)
	if c.opts.Where != "" {
		q.Set("where", c.opts.Where)
	}
	q.Set("results_per_page", strconv.Itoa(c.opts.ResultsPerPage))
	q.Set("sort_by", "date")
	q.Set("max_days_old", strconv.Itoa(c.opts.MaxDaysOld))
	return fmt.Sprintf("%s/%s/search/%d?%s", c.baseURL, c.country, page, q.Encode())
}

func (c *AdzunaClient) searchPage(ctx context.Context, term string, page int) ([]model.RawPosting, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	var resp adzunaSearchResponse
	if err := getJSON(ctx, c.client, c.searchURL(term, page), &resp); err != nil {
		return nil, fmt.Errorf("adzuna search %q page %d: %w", term, page, err)
	}

	postings := make([]model.RawPosting, 0, len(resp.Results))
	for _, r := range resp.Results {
		postings = append(postings, toRawPosting(r))
	}
	return postings, nil
}

func toRawPosting(r adzunaPosting) model.RawPosting {
	p := model.RawPosting{
		ID:          string(r.ID),
		Title:       plainText(r.Title),
		Company:     r.Company.DisplayName,
		Location:    r.Location.DisplayName,
		Description: plainText(r.Description),
		Created:     r.Created,
		RedirectURL: r.RedirectURL,
	}
	if r.SalaryMin != nil {
		p.SalaryMin = *r.SalaryMin
	}
	if r.SalaryMax != nil {
		p.SalaryMax = *r.SalaryMax
	}
	return p
}
