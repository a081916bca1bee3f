package server

import (
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// jobView is the JSON shape of a job; keys match the dataset columns.
type jobView struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	ExperienceLevel string    `json:"experience_level"`
	WorkType        string    `json:"work_type"`
	SalaryMin       *int      `json:"salary_min"`
	SalaryMax       *int      `json:"salary_max"`
	SalaryAvg       *float64  `json:"salary_avg"`
	RequiredSkills  []string  `json:"required_skills"`
	Description     string    `json:"description"`
	PostedDate      time.Time `json:"posted_date"`
	URL             string    `json:"url"`
	Source          string    `json:"source"`
	FetchedAt       time.Time `json:"fetched_at"`
}

func toView(j model.Job) jobView {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return jobView{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		Category:        string(j.Category),
		ExperienceLevel: string(j.ExperienceLevel),
		WorkType:        string(j.WorkType),
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		SalaryAvg:       j.SalaryAvg,
		RequiredSkills:  skills,
		Description:     j.Description,
		PostedDate:      j.PostedDate,
		URL:             j.URL,
		Source:          j.Source,
		FetchedAt:       j.FetchedAt,
	}
}
