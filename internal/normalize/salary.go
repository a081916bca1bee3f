package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// salaryPattern is one textual salary shape. Groups are concatenated in
// pairs (thousands, remainder) unless scale is set, in which case each
// group is a single number multiplied by scale.
type salaryPattern struct {
	re    *regexp.Regexp
	scale int
}

// Evaluated in order; the first pattern that matches decides.
var salaryPatterns = []salaryPattern{
	{re: regexp.MustCompile(`£(\d{2,3}),?(\d{3})\s*-\s*£(\d{2,3}),?(\d{3})`)},
	{re: regexp.MustCompile(`£(\d{2,3})k\s*-\s*£(\d{2,3})k`), scale: 1000},
	{re: regexp.MustCompile(`(\d{2,3}),?(\d{3})\s*-\s*(\d{2,3}),?(\d{3})`)},
}

// salarySource records where a salary range came from.
type salarySource string

const (
	salaryUpstream salarySource = "upstream"
	salaryText     salarySource = "description"
	salaryEstimate salarySource = "estimate"
)

// ExtractSalary resolves a salary range for a posting. Upstream bounds win
// when both are present; otherwise the description is scanned for a range
// and finally a title-based estimate is used. The result always has
// lo <= hi.
func ExtractSalary(title, description string, upstreamMin, upstreamMax float64) (lo, hi int) {
	lo, hi, _ = extractSalary(title, description, upstreamMin, upstreamMax)
	return lo, hi
}

func extractSalary(title, description string, upstreamMin, upstreamMax float64) (int, int, salarySource) {
	if upstreamMin > 0 && upstreamMax > 0 {
		return ordered(int(math.Round(upstreamMin)), int(math.Round(upstreamMax)), salaryUpstream)
	}
	if lo, hi, ok := salaryFromText(description); ok {
		return ordered(lo, hi, salaryText)
	}
	band := firstMatch(estimateRules, strings.ToLower(title), defaultEstimate)
	return band.min, band.max, salaryEstimate
}

// salaryFromText finds the first salary range in text.
func salaryFromText(text string) (int, int, bool) {
	text = strings.ToLower(text)
	for _, p := range salaryPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var lo, hi int
		var err error
		if p.scale > 0 {
			lo, err = strconv.Atoi(m[1])
			if err == nil {
				hi, err = strconv.Atoi(m[2])
			}
			lo, hi = lo*p.scale, hi*p.scale
		} else {
			lo, err = strconv.Atoi(m[1] + m[2])
			if err == nil {
				hi, err = strconv.Atoi(m[3] + m[4])
			}
		}
		if err != nil || lo == 0 || hi == 0 {
			continue
		}
		return lo, hi, true
	}
	return 0, 0, false
}

func ordered(lo, hi int, src salarySource) (int, int, salarySource) {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, src
}
