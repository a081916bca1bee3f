package analytics

import "github.com/amishk599/jobpulse/internal/model"

// Bin is one salary histogram bucket covering [Low, High). The top bucket
// is open and has High == 0.
type Bin struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high,omitempty"`
	Count int     `json:"count"`
}

var binEdges = []struct {
	label string
	low   float64
}{
	{"<£30k", 0},
	{"£30-40k", 30000},
	{"£40-50k", 40000},
	{"£50-60k", 50000},
	{"£60-70k", 60000},
	{"£70-80k", 70000},
	{"£80-90k", 80000},
	{"£90-100k", 90000},
	{"£100-120k", 100000},
	{"£120-150k", 120000},
	{"£150k+", 150000},
}

// SalaryHistogram buckets positive salary_avg values. Every bucket is
// returned, empty ones included, in ascending order.
func SalaryHistogram(jobs []model.Job) []Bin {
	bins := make([]Bin, len(binEdges))
	for i, e := range binEdges {
		var high float64
		if i+1 < len(binEdges) {
			high = binEdges[i+1].low
		}
		bins[i] = Bin{Label: e.label, Low: e.low, High: high}
	}

	for _, j := range jobs {
		if j.SalaryAvg == nil || *j.SalaryAvg <= 0 {
			continue
		}
		v := *j.SalaryAvg
		for i := len(bins) - 1; i >= 0; i-- {
			if v >= bins[i].Low {
				bins[i].Count++
				break
			}
		}
	}
	return bins
}
