// Package dedupe collapses postings that advertise the same role twice.
package dedupe

import "github.com/amishk599/jobpulse/internal/model"

type key struct {
	title   string
	company string
}

// Dedupe returns jobs with later duplicates of an earlier (title, company)
// pair removed. Input order is preserved and the first occurrence wins.
// Comparison is exact.
func Dedupe(jobs []model.Job) []model.Job {
	seen := make(map[key]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		k := key{title: job.Title, company: job.Company}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, job)
	}
	return out
}
