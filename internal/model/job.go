package model

import (
	"context"
	"time"
)

// Category is the inferred job family.
type Category string

const (
	CategoryResearch    Category = "Research"
	CategoryProduct     Category = "Product & Management"
	CategorySpecialized Category = "Specialized"
	CategoryDataScience Category = "Data Science"
	CategoryEngineering Category = "Engineering"
)

// Categories lists every category value in classification priority order.
var Categories = []Category{
	CategoryResearch,
	CategoryProduct,
	CategorySpecialized,
	CategoryDataScience,
	CategoryEngineering,
}

// ExperienceLevel is the inferred seniority of a posting.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "Entry"
	ExperienceMid       ExperienceLevel = "Mid"
	ExperienceSenior    ExperienceLevel = "Senior"
	ExperienceLead      ExperienceLevel = "Lead"
	ExperiencePrincipal ExperienceLevel = "Principal"
)

// ExperienceLevels lists every experience value, junior to principal.
var ExperienceLevels = []ExperienceLevel{
	ExperienceEntry,
	ExperienceMid,
	ExperienceSenior,
	ExperienceLead,
	ExperiencePrincipal,
}

// WorkType is the inferred work arrangement.
type WorkType string

const (
	WorkRemote WorkType = "Remote"
	WorkHybrid WorkType = "Hybrid"
	WorkOnSite WorkType = "On-site"
)

// WorkTypes lists every work type value.
var WorkTypes = []WorkType{WorkRemote, WorkHybrid, WorkOnSite}

// RawPosting is one posting as returned by the upstream search API.
// Only the fields the normalizer reads are decoded.
type RawPosting struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Description string
	SalaryMin   float64 // zero when absent
	SalaryMax   float64 // zero when absent
	Created     string  // raw timestamp as sent upstream
	RedirectURL string
}

// Job is the canonical, normalized record written to the dataset.
type Job struct {
	ID              string
	Title           string
	Company         string
	Location        string
	Category        Category
	ExperienceLevel ExperienceLevel
	WorkType        WorkType
	SalaryMin       *int     // nil when absent
	SalaryMax       *int     // nil when absent
	SalaryAvg       *float64 // (min+max)/2 when both present
	RequiredSkills  []string
	Description     string
	PostedDate      time.Time
	URL             string
	Source          string
	FetchedAt       time.Time
}

// SetSalary stores both bounds and derives the average. Bounds are swapped
// when given out of order so SalaryMin <= SalaryMax always holds.
func (j *Job) SetSalary(lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	avg := (float64(lo) + float64(hi)) / 2
	j.SalaryMin = &lo
	j.SalaryMax = &hi
	j.SalaryAvg = &avg
}

// PostingFetcher retrieves raw postings from an upstream source.
type PostingFetcher interface {
	FetchPostings(ctx context.Context) ([]RawPosting, error)
}

// DatasetWriter persists a full snapshot of the job collection.
type DatasetWriter interface {
	Write(jobs []Job) error
	Path() string
}

// RunStore records an immutable history row per pipeline run.
type RunStore interface {
	RecordRun(run RunSummary) error
	RecentRuns(limit int) ([]RunSummary, error)
}

// Notifier reports a finished run to an operator channel.
type Notifier interface {
	Notify(run RunSummary) error
}

// JobFilter decides whether a job matches the caller's criteria.
type JobFilter interface {
	Match(job Job) bool
}

// RunSummary describes one pipeline run.
type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Fetched     int // raw postings returned by the fetch client
	Normalized  int // records that survived normalization
	Dropped     int // records dropped by the normalizer
	Unique      int // records written after deduplication
	DatasetPath string
}

// Duration is the wall-clock time the run took.
func (r RunSummary) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
