package notifier

import (
	"log/slog"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the run counts. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(run model.RunSummary) error {
	n.logger.Info("run complete",
		"run_id", run.RunID,
		"fetched", run.Fetched,
		"normalized", run.Normalized,
		"dropped", run.Dropped,
		"unique", run.Unique,
		"duration", run.Duration().Round(time.Millisecond),
		"dataset", run.DatasetPath,
	)
	return nil
}
