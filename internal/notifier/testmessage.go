package notifier

import (
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// SendTestMessage sends a dummy run summary to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now()
	return n.Notify(model.RunSummary{
		RunID:       "test-run",
		StartedAt:   now.Add(-30 * time.Second),
		FinishedAt:  now,
		Fetched:     42,
		Normalized:  41,
		Dropped:     1,
		Unique:      37,
		DatasetPath: "live_uk_ai_jobs.csv",
	})
}
