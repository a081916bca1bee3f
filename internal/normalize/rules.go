package normalize

import (
	"strings"

	"github.com/amishk599/jobpulse/internal/model"
)

// predicate reports whether lowercased text satisfies a rule.
type predicate func(text string) bool

// rule pairs a predicate with the value it yields. Rules are evaluated in
// slice order and the first match wins.
type rule[T any] struct {
	match  predicate
	result T
}

// firstMatch returns the result of the first rule matching text, or def.
func firstMatch[T any](rules []rule[T], text string, def T) T {
	for _, r := range rules {
		if r.match(text) {
			return r.result
		}
	}
	return def
}

// containsAny matches when text contains any of terms.
func containsAny(terms ...string) predicate {
	return func(text string) bool {
		for _, t := range terms {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}
}

// containsUnless matches when text contains term outside every occurrence
// of the excluded phrases.
func containsUnless(term string, excluded ...string) predicate {
	return func(text string) bool {
		for _, ex := range excluded {
			text = strings.ReplaceAll(text, ex, " ")
		}
		return strings.Contains(text, term)
	}
}

// anyOf matches when at least one predicate matches.
func anyOf(preds ...predicate) predicate {
	return func(text string) bool {
		for _, p := range preds {
			if p(text) {
				return true
			}
		}
		return false
	}
}

// allOf matches when every predicate matches.
func allOf(preds ...predicate) predicate {
	return func(text string) bool {
		for _, p := range preds {
			if !p(text) {
				return false
			}
		}
		return true
	}
}

var categoryRules = []rule[model.Category]{
	// "data scientist" belongs to Data Science, not Research.
	{anyOf(containsAny("research", "phd"), containsUnless("scientist", "data scientist")), model.CategoryResearch},
	{containsAny("product manager", "product owner", "strategy"), model.CategoryProduct},
	{containsAny("nlp", "natural language", "computer vision", "cv engineer"), model.CategorySpecialized},
	{containsAny("data scientist", "data analyst", "analytics"), model.CategoryDataScience},
}

var experienceRules = []rule[model.ExperienceLevel]{
	{containsAny("principal", "head of", "director"), model.ExperiencePrincipal},
	{containsAny("lead", "team lead", "tech lead"), model.ExperienceLead},
	{containsAny("senior", "sr.", "sr "), model.ExperienceSenior},
	{containsAny("junior", "jr.", "graduate", "entry"), model.ExperienceEntry},
}

var (
	remoteTerms = containsAny("remote", "work from home", "wfh")
	hybridTerms = containsAny("hybrid", "flexible", "office days")
	onSiteTerms = containsAny("on-site", "office-based", "in office")
)

var workTypeRules = []rule[model.WorkType]{
	{allOf(remoteTerms, hybridTerms), model.WorkHybrid},
	{remoteTerms, model.WorkRemote},
	{onSiteTerms, model.WorkOnSite},
}

// salaryBand is an estimated salary range.
type salaryBand struct{ min, max int }

// estimateRules are matched against the lowercased title only.
var estimateRules = []rule[salaryBand]{
	{containsAny("senior", "lead"), salaryBand{70000, 110000}},
	{containsAny("principal", "head of"), salaryBand{120000, 180000}},
	{containsAny("junior", "graduate"), salaryBand{35000, 55000}},
}

var defaultEstimate = salaryBand{50000, 75000}

// ClassifyCategory infers the job family from title and description.
func ClassifyCategory(title, description string) model.Category {
	return firstMatch(categoryRules, combined(title, description), model.CategoryEngineering)
}

// ClassifyExperience infers seniority from title and description.
func ClassifyExperience(title, description string) model.ExperienceLevel {
	return firstMatch(experienceRules, combined(title, description), model.ExperienceMid)
}

// ClassifyWorkType infers the work arrangement from the description.
func ClassifyWorkType(description string) model.WorkType {
	return firstMatch(workTypeRules, strings.ToLower(description), model.WorkHybrid)
}

func combined(title, description string) string {
	return strings.ToLower(title + " " + description)
}
