package filter

import (
	"strings"

	"github.com/amishk599/jobpulse/internal/model"
)

// Ensure FieldFilter implements model.JobFilter.
var _ model.JobFilter = (*FieldFilter)(nil)

// Criteria selects jobs by their normalized fields. Empty fields match all.
type Criteria struct {
	Category   string // exact, case-insensitive
	Experience string // exact, case-insensitive
	WorkType   string // exact, case-insensitive
	Location   string // substring, case-insensitive
	Keyword    string // substring of title, company or any skill
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// FieldFilter matches jobs against a Criteria.
type FieldFilter struct {
	category   string
	experience string
	workType   string
	location   string
	keyword    string
}

// NewFieldFilter returns a filter for c. Matching is case-insensitive.
func NewFieldFilter(c Criteria) *FieldFilter {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return &FieldFilter{
		category:   norm(c.Category),
		experience: norm(c.Experience),
		workType:   norm(c.WorkType),
		location:   norm(c.Location),
		keyword:    norm(c.Keyword),
	}
}

// Match returns true if the job satisfies every non-empty criterion.
func (f *FieldFilter) Match(job model.Job) bool {
	if f.category != "" && strings.ToLower(string(job.Category)) != f.category {
		return false
	}
	if f.experience != "" && strings.ToLower(string(job.ExperienceLevel)) != f.experience {
		return false
	}
	if f.workType != "" && strings.ToLower(string(job.WorkType)) != f.workType {
		return false
	}
	if f.location != "" && !strings.Contains(strings.ToLower(job.Location), f.location) {
		return false
	}
	if f.keyword != "" && !matchesKeyword(job, f.keyword) {
		return false
	}
	return true
}

func matchesKeyword(job model.Job, kw string) bool {
	if strings.Contains(strings.ToLower(job.Title), kw) || strings.Contains(strings.ToLower(job.Company), kw) {
		return true
	}
	for _, s := range job.RequiredSkills {
		if strings.Contains(strings.ToLower(s), kw) {
			return true
		}
	}
	return false
}

// Apply returns the jobs matching f, in order.
func Apply(f model.JobFilter, jobs []model.Job) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}
