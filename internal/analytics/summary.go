// Package analytics aggregates a dataset snapshot into market statistics.
package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// RecentWindow is how far back from the newest posting a job counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// SkillVocabulary is the fixed set of skills reported in mention counts.
var SkillVocabulary = []string{
	"Python", "SQL", "AWS", "Azure", "Machine Learning", "AI", "TensorFlow",
	"PyTorch", "Docker", "Kubernetes", "React", "JavaScript", "Java", "C++",
}

// Count is one key of a frequency table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// LevelSalary is the mean salary_avg for one experience level.
type LevelSalary struct {
	Level model.ExperienceLevel `json:"level"`
	Mean  float64               `json:"mean"`
}

// SalaryStats summarizes the salary columns. All values are zero when no job
// carries a salary.
type SalaryStats struct {
	Samples      int           `json:"samples"`
	Mean         float64       `json:"mean"`
	Median       float64       `json:"median"`
	Min          int           `json:"min"`
	Max          int           `json:"max"`
	ByExperience []LevelSalary `json:"by_experience"`
}

// Summary is the aggregate view of one snapshot.
type Summary struct {
	Total       int         `json:"total_jobs"`
	Companies   []Count     `json:"companies"`
	Locations   []Count     `json:"locations"`
	Categories  []Count     `json:"categories"`
	Experience  []Count     `json:"experience_levels"`
	WorkTypes   []Count     `json:"work_types"`
	Salary      SalaryStats `json:"salary"`
	Skills      []Count     `json:"skills"`
	Histogram   []Bin       `json:"salary_histogram"`
	RecentJobs  int         `json:"jobs_last_7_days"`
	LatestFetch time.Time   `json:"latest_update"`
}

// Summarize aggregates jobs. An empty input yields a zero summary.
func Summarize(jobs []model.Job) Summary {
	s := Summary{Total: len(jobs)}
	if len(jobs) == 0 {
		return s
	}

	s.Companies = countBy(jobs, func(j model.Job) string { return j.Company })
	s.Locations = countBy(jobs, func(j model.Job) string { return strings.ReplaceAll(j.Location, `"`, "") })
	s.Categories = countBy(jobs, func(j model.Job) string { return string(j.Category) })
	s.Experience = countBy(jobs, func(j model.Job) string { return string(j.ExperienceLevel) })
	s.WorkTypes = countBy(jobs, func(j model.Job) string { return string(j.WorkType) })
	s.Salary = salaryStats(jobs)
	s.Skills = skillMentions(jobs)
	s.Histogram = SalaryHistogram(jobs)

	var newest time.Time
	for _, j := range jobs {
		if j.PostedDate.After(newest) {
			newest = j.PostedDate
		}
		if j.FetchedAt.After(s.LatestFetch) {
			s.LatestFetch = j.FetchedAt
		}
	}
	if !newest.IsZero() {
		cutoff := newest.Add(-RecentWindow)
		for _, j := range jobs {
			if !j.PostedDate.IsZero() && !j.PostedDate.Before(cutoff) {
				s.RecentJobs++
			}
		}
	}
	return s
}

// Top returns at most n entries of counts.
func Top(counts []Count, n int) []Count {
	if n < 0 || len(counts) <= n {
		return counts
	}
	return counts[:n]
}

// countBy tallies key(job), most frequent first and ties by key.
func countBy(jobs []model.Job, key func(model.Job) string) []Count {
	tally := make(map[string]int)
	for _, j := range jobs {
		tally[key(j)]++
	}
	return sortedCounts(tally)
}

func sortedCounts(tally map[string]int) []Count {
	out := make([]Count, 0, len(tally))
	for k, n := range tally {
		out = append(out, Count{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

func salaryStats(jobs []model.Job) SalaryStats {
	var (
		st       SalaryStats
		avgs     []float64
		sum      float64
		minSet   bool
		levelSum = make(map[model.ExperienceLevel]float64)
		levelN   = make(map[model.ExperienceLevel]int)
	)
	for _, j := range jobs {
		if j.SalaryMin != nil && (!minSet || *j.SalaryMin < st.Min) {
			st.Min = *j.SalaryMin
			minSet = true
		}
		if j.SalaryMax != nil && *j.SalaryMax > st.Max {
			st.Max = *j.SalaryMax
		}
		if j.SalaryAvg == nil {
			continue
		}
		avgs = append(avgs, *j.SalaryAvg)
		sum += *j.SalaryAvg
		levelSum[j.ExperienceLevel] += *j.SalaryAvg
		levelN[j.ExperienceLevel]++
	}
	if len(avgs) == 0 {
		return st
	}

	st.Samples = len(avgs)
	st.Mean = sum / float64(len(avgs))
	st.Median = median(avgs)

	for _, level := range model.ExperienceLevels {
		if n := levelN[level]; n > 0 {
			st.ByExperience = append(st.ByExperience, LevelSalary{Level: level, Mean: levelSum[level] / float64(n)})
		}
	}
	return st
}

func median(vs []float64) float64 {
	sorted := slices.Clone(vs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// skillMentions counts case-insensitive occurrences of each vocabulary skill
// across every job's skill list. Skills never mentioned are omitted.
func skillMentions(jobs []model.Job) []Count {
	var b strings.Builder
	for _, j := range jobs {
		b.WriteString(strings.Join(j.RequiredSkills, ", "))
		b.WriteByte(' ')
	}
	text := strings.ToUpper(b.String())

	tally := make(map[string]int)
	for _, skill := range SkillVocabulary {
		if n := strings.Count(text, strings.ToUpper(skill)); n > 0 {
			tally[skill] = n
		}
	}
	return sortedCounts(tally)
}
