// Package normalize turns raw upstream postings into canonical job records
// using fixed keyword and pattern rules.
package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"

	"github.com/amishk599/jobpulse/internal/model"
)

// SourceLabel is recorded as the provenance of every job.
const SourceLabel = "Adzuna API"

// DefaultDescriptionLimit is the number of description runes kept.
const DefaultDescriptionLimit = 500

// MaxUpstreamSalary is the largest upstream salary bound accepted as a number
// of pounds. Anything above it is treated as corrupt.
const MaxUpstreamSalary = math.MaxInt32

// UnknownField fills a missing company name.
const UnknownField = "Unknown"

// Errors for records that cannot be normalized.
var (
	ErrMissingTitle  = errors.New("posting has no title")
	ErrInvalidSalary = errors.New("posting has an invalid salary value")
)

// RecordError describes a posting that was dropped during normalization.
type RecordError struct {
	ID  string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("normalize posting %q: %v", e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Stack returns the goroutine stack captured when the record panicked, or
// an empty string for ordinary validation failures.
func (e *RecordError) Stack() string {
	var ge *goerrors.Error
	if errors.As(e.Err, &ge) {
		return ge.ErrorStack()
	}
	return ""
}

// Normalizer converts raw postings into jobs.
type Normalizer struct {
	descriptionLimit int
	logger           *slog.Logger
	now              func() time.Time
}

// New creates a Normalizer that truncates descriptions to descriptionLimit
// runes. A non-positive limit selects DefaultDescriptionLimit.
func New(descriptionLimit int, logger *slog.Logger) *Normalizer {
	if descriptionLimit <= 0 {
		descriptionLimit = DefaultDescriptionLimit
	}
	return &Normalizer{
		descriptionLimit: descriptionLimit,
		logger:           logger,
		now:              time.Now,
	}
}

// Normalize maps a single raw posting to a Job. now stamps fetched_at and
// anchors the posted-date fallback. Any failure, including a panic in a
// rule, is returned as a *RecordError.
func (n *Normalizer) Normalize(raw model.RawPosting, now time.Time) (job model.Job, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecordError{ID: raw.ID, Err: goerrors.Wrap(r, 2)}
		}
	}()

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return model.Job{}, &RecordError{ID: raw.ID, Err: ErrMissingTitle}
	}
	if !validSalary(raw.SalaryMin) || !validSalary(raw.SalaryMax) {
		return model.Job{}, &RecordError{ID: raw.ID, Err: ErrInvalidSalary}
	}

	company := strings.TrimSpace(raw.Company)
	if company == "" {
		company = UnknownField
	}

	job = model.Job{
		ID:              raw.ID,
		Title:           title,
		Company:         company,
		Location:        CleanLocation(raw.Location),
		Category:        ClassifyCategory(title, raw.Description),
		ExperienceLevel: ClassifyExperience(title, raw.Description),
		WorkType:        ClassifyWorkType(raw.Description),
		RequiredSkills:  ExtractSkills(raw.Description),
		Description:     truncate(raw.Description, n.descriptionLimit),
		PostedDate:      ParsePostedDate(raw.Created, now),
		URL:             raw.RedirectURL,
		Source:          SourceLabel,
		FetchedAt:       now,
	}

	lo, hi, src := extractSalary(title, raw.Description, raw.SalaryMin, raw.SalaryMax)
	job.SetSalary(lo, hi)
	n.logger.Debug("normalized posting", "id", raw.ID, "category", job.Category, "salary_source", src)

	return job, nil
}

// NormalizeAll normalizes every posting, logging and dropping the ones that
// fail. It returns the surviving jobs in input order and the drop count.
func (n *Normalizer) NormalizeAll(raws []model.RawPosting) ([]model.Job, int) {
	now := n.now()
	jobs := make([]model.Job, 0, len(raws))
	dropped := 0

	for _, raw := range raws {
		job, err := n.Normalize(raw, now)
		if err != nil {
			dropped++
			n.logger.Warn("dropping posting", "id", raw.ID, "error", err)
			var recErr *RecordError
			if errors.As(err, &recErr) {
				if stack := recErr.Stack(); stack != "" {
					n.logger.Debug("normalizer panic", "id", raw.ID, "stack", stack)
				}
			}
			continue
		}
		jobs = append(jobs, job)
	}

	n.logger.Info("normalized postings", "input", len(raws), "kept", len(jobs), "dropped", dropped)
	return jobs, dropped
}

func validSalary(v float64) bool {
	return v >= 0 && v <= MaxUpstreamSalary && !math.IsNaN(v)
}

// truncate keeps the first limit runes of s, marking a cut with "...".
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
