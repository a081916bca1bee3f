package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/amishk599/jobpulse/internal/model"
)

// MinCompanyJobs is the smallest job count a company needs to be ranked.
const MinCompanyJobs = 2

var (
	positiveKeywords = []string{
		"innovative", "exciting", "cutting-edge", "leading", "excellent", "dynamic",
		"collaborative", "flexible", "growth", "opportunity", "benefits", "competitive",
		"rewarding", "supportive", "progressive", "modern", "world-class", "prestigious",
		"ambitious", "thriving", "successful", "award-winning", "industry-leading",
		"state-of-the-art", "fast-growing", "vibrant", "passionate", "creative",
		"empowering", "inclusive", "diverse", "agile", "forward-thinking",
	}
	negativeKeywords = []string{
		"demanding", "pressure", "tight deadlines", "stressful", "challenging",
		"difficult", "complex", "intensive", "fast-paced", "high-pressure",
		"strict", "rigid", "demanding schedule", "overtime", "weekend work",
	}
	engagementKeywords = []string{
		"team", "collaboration", "partnership", "community", "culture",
		"environment", "work-life balance", "remote", "hybrid", "training",
		"development", "career", "mentorship", "learning", "education",
	}
)

// Sentiment is the keyword score of one description. Each count is the
// number of distinct keywords present, not their occurrences.
type Sentiment struct {
	Positive   int     `json:"positive"`
	Negative   int     `json:"negative"`
	Engagement int     `json:"engagement"`
	Score      float64 `json:"score"` // in [-1, 1]
}

// Score rates text by keyword presence. The raw difference of positive and
// negative hits is scaled down for texts longer than 50 words.
func Score(text string) Sentiment {
	words := len(strings.Fields(text))
	if words == 0 {
		return Sentiment{}
	}
	lower := strings.ToLower(text)
	s := Sentiment{
		Positive:   countPresent(lower, positiveKeywords),
		Negative:   countPresent(lower, negativeKeywords),
		Engagement: countPresent(lower, engagementKeywords),
	}
	s.Score = float64(s.Positive-s.Negative) / max(float64(words)/50, 1)
	s.Score = min(max(s.Score, -1), 1)
	return s
}

func countPresent(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// CompanySentiment is the mean keyword sentiment across a company's postings.
type CompanySentiment struct {
	Company       string   `json:"company"`
	Jobs          int      `json:"job_count"`
	AvgPositive   float64  `json:"avg_positive"`
	AvgNegative   float64  `json:"avg_negative"`
	AvgEngagement float64  `json:"avg_engagement"`
	Overall       float64  `json:"overall_sentiment"`
	AvgSalary     *float64 `json:"avg_salary,omitempty"` // nil when no posting has a salary
}

// ByCompany scores every description and averages per company. Companies
// with fewer than MinCompanyJobs postings are left out. The result is sorted
// by overall sentiment, highest first.
func ByCompany(jobs []model.Job) []CompanySentiment {
	type acc struct {
		n, pos, neg, eng int
		score            float64
		salary           float64
		salaryN          int
	}
	byCompany := make(map[string]*acc)
	for _, j := range jobs {
		a := byCompany[j.Company]
		if a == nil {
			a = &acc{}
			byCompany[j.Company] = a
		}
		s := Score(j.Description)
		a.n++
		a.pos += s.Positive
		a.neg += s.Negative
		a.eng += s.Engagement
		a.score += s.Score
		if j.SalaryAvg != nil {
			a.salary += *j.SalaryAvg
			a.salaryN++
		}
	}

	var out []CompanySentiment
	for company, a := range byCompany {
		if a.n < MinCompanyJobs {
			continue
		}
		n := float64(a.n)
		cs := CompanySentiment{
			Company:       company,
			Jobs:          a.n,
			AvgPositive:   float64(a.pos) / n,
			AvgNegative:   float64(a.neg) / n,
			AvgEngagement: float64(a.eng) / n,
			Overall:       a.score / n,
		}
		if a.salaryN > 0 {
			avg := a.salary / float64(a.salaryN)
			cs.AvgSalary = &avg
		}
		out = append(out, cs)
	}
	slices.SortFunc(out, func(a, b CompanySentiment) int {
		if c := cmp.Compare(b.Overall, a.Overall); c != 0 {
			return c
		}
		return cmp.Compare(a.Company, b.Company)
	})
	return out
}
