// Package report renders a dataset summary as a plain-text market briefing
// or as JSON. The text form is also the grounding context for the assistant.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/amishk599/jobpulse/internal/analytics"
)

// DefaultTopN is how many companies, locations and skills are listed.
const DefaultTopN = 10

const contextTemplate = `UK AI JOB MARKET: {{.Total}} active positions

LIVE STATISTICS:
- Total Active Jobs: {{.Total}}
- Last Updated: {{stamp .LatestFetch}}
- Recent Activity: {{.RecentJobs}} new jobs in last 7 days

TOP HIRING COMPANIES:
{{counts .Companies " jobs"}}

GEOGRAPHIC DISTRIBUTION:
{{counts .Locations ""}}

SALARY ANALYSIS (GBP):
{{- if .Salary.Samples}}
- Average by Level: {{levels .Salary.ByExperience}}
- Overall Average: {{gbp .Salary.Mean}}
- Salary Range: {{gbp .Salary.Min}} - {{gbp .Salary.Max}}
- Median Salary: {{gbp .Salary.Median}}
{{- else}}
- No salary data
{{- end}}

EXPERIENCE LEVELS:
{{counts .Experience ""}}

WORK ARRANGEMENTS:
{{counts .WorkTypes ""}}

JOB CATEGORIES:
{{counts .Categories ""}}

IN-DEMAND SKILLS:
{{counts .Skills " mentions"}}
`

// Exporter renders summaries.
type Exporter struct {
	topN int
	tmpl *template.Template
}

// New returns an Exporter listing topN entries per ranking. A non-positive
// topN uses DefaultTopN.
func New(topN int) *Exporter {
	if topN <= 0 {
		topN = DefaultTopN
	}
	funcs := template.FuncMap{
		"gbp":    gbp,
		"stamp":  stamp,
		"counts": formatCounts,
		"levels": formatLevels,
	}
	return &Exporter{
		topN: topN,
		tmpl: template.Must(template.New("context").Funcs(funcs).Parse(contextTemplate)),
	}
}

// Text writes the human-readable briefing for s.
func (e *Exporter) Text(w io.Writer, s analytics.Summary) error {
	if err := e.tmpl.Execute(w, e.trim(s)); err != nil {
		return fmt.Errorf("render context: %w", err)
	}
	return nil
}

// String is Text into a string.
func (e *Exporter) String(s analytics.Summary) (string, error) {
	var b strings.Builder
	if err := e.Text(&b, s); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// JSON writes the trimmed summary as indented JSON.
func (e *Exporter) JSON(w io.Writer, s analytics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.trim(s)); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// trim cuts the ranked lists to topN. Distributions over closed sets are kept whole.
func (e *Exporter) trim(s analytics.Summary) analytics.Summary {
	s.Companies = analytics.Top(s.Companies, e.topN)
	s.Locations = analytics.Top(s.Locations, e.topN)
	s.Skills = analytics.Top(s.Skills, e.topN)
	return s
}

func gbp(v any) string {
	switch n := v.(type) {
	case int:
		return "£" + humanize.Comma(int64(n))
	case float64:
		return "£" + humanize.Comma(int64(n))
	default:
		return fmt.Sprint(v)
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

func formatCounts(counts []analytics.Count, suffix string) string {
	if len(counts) == 0 {
		return "none"
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d%s)", c.Key, c.Count, suffix)
	}
	return strings.Join(parts, ", ")
}

func formatLevels(levels []analytics.LevelSalary) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%s: %s", l.Level, gbp(l.Mean))
	}
	return strings.Join(parts, ", ")
}
