// Package dataset reads and writes the canonical job snapshot as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// Columns is the fixed header of the dataset file. Downstream readers rely
// on both names and order.
var Columns = []string{
	"id",
	"title",
	"company",
	"location",
	"category",
	"experience_level",
	"work_type",
	"salary_min",
	"salary_max",
	"salary_avg",
	"required_skills",
	"description",
	"posted_date",
	"url",
	"source",
	"fetched_at",
}

const skillSeparator = ", "

// ErrHeaderMismatch is returned when a file's header differs from Columns.
var ErrHeaderMismatch = errors.New("dataset header does not match expected columns")

// CSVWriter writes full snapshots to a fixed path.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer targeting path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the destination file.
func (w *CSVWriter) Path() string {
	return w.path
}

// Write replaces the file at the writer's path with jobs. The rows are
// written to a temporary file in the same directory which is renamed over
// the destination, so readers see either the old or the new snapshot. On
// error the destination is left untouched.
func (w *CSVWriter) Write(jobs []model.Job) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp dataset: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := Encode(tmp, jobs); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing dataset: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting dataset permissions: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("replacing dataset: %w", err)
	}
	committed = true
	return nil
}

// Encode writes the header and one row per job to out.
func Encode(out io.Writer, jobs []model.Job) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := cw.Write(toRow(job)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRow(j model.Job) []string {
	return []string{
		j.ID,
		j.Title,
		j.Company,
		j.Location,
		string(j.Category),
		string(j.ExperienceLevel),
		string(j.WorkType),
		formatInt(j.SalaryMin),
		formatInt(j.SalaryMax),
		formatFloat(j.SalaryAvg),
		strings.Join(j.RequiredSkills, skillSeparator),
		j.Description,
		formatTime(j.PostedDate),
		j.URL,
		j.Source,
		formatTime(j.FetchedAt),
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
