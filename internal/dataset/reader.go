package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// Load reads the dataset file at path.
func Load(path string) ([]model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	jobs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return jobs, nil
}

// Decode parses a dataset stream. A stream holding only the header, or
// nothing at all, is an empty dataset.
func Decode(in io.Reader) ([]model.Job, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i, name := range Columns {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i+1, header[i], name)
		}
	}

	var jobs []model.Job
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		job, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func fromRow(row []string) (model.Job, error) {
	j := model.Job{
		ID:              row[0],
		Title:           row[1],
		Company:         row[2],
		Location:        row[3],
		Category:        model.Category(row[4]),
		ExperienceLevel: model.ExperienceLevel(row[5]),
		WorkType:        model.WorkType(row[6]),
		Description:     row[11],
		URL:             row[13],
		Source:          row[14],
	}

	var err error
	if j.SalaryMin, err = parseInt(row[7]); err != nil {
		return j, fmt.Errorf("salary_min: %w", err)
	}
	if j.SalaryMax, err = parseInt(row[8]); err != nil {
		return j, fmt.Errorf("salary_max: %w", err)
	}
	if j.SalaryAvg, err = parseFloat(row[9]); err != nil {
		return j, fmt.Errorf("salary_avg: %w", err)
	}
	if row[10] != "" {
		for _, s := range strings.Split(row[10], ",") {
			if s = strings.TrimSpace(s); s != "" {
				j.RequiredSkills = append(j.RequiredSkills, s)
			}
		}
	}
	if j.PostedDate, err = parseTime(row[12]); err != nil {
		return j, fmt.Errorf("posted_date: %w", err)
	}
	if j.FetchedAt, err = parseTime(row[15]); err != nil {
		return j, fmt.Errorf("fetched_at: %w", err)
	}
	return j, nil
}

func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	// Tolerate "65000.0" written by other tools.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	v := int(f)
	return &v, nil
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
