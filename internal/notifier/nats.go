package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/amishk599/jobpulse/internal/model"
)

// Ensure NATSNotifier implements model.Notifier.
var _ model.Notifier = (*NATSNotifier)(nil)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "jobpulse.runs"

const natsConnectTimeout = 10 * time.Second

// publisher is the part of *nats.Conn the notifier uses.
type publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
}

// RunEvent is the JSON message published for each run.
type RunEvent struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Fetched     int       `json:"fetched"`
	Normalized  int       `json:"normalized"`
	Dropped     int       `json:"dropped"`
	Unique      int       `json:"unique"`
	DatasetPath string    `json:"dataset_path"`
}

// NATSNotifier publishes run summaries as JSON on a NATS subject.
type NATSNotifier struct {
	conn    publisher
	subject string
	logger  *slog.Logger
	close   func()
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name("jobpulse"),
		nats.Timeout(natsConnectTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	n := newNATSNotifier(nc, subject, logger)
	n.close = nc.Close
	return n, nil
}

func newNATSNotifier(conn publisher, subject string, logger *slog.Logger) *NATSNotifier {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSNotifier{conn: conn, subject: subject, logger: logger}
}

// Notify publishes the run and flushes so delivery failures surface here.
func (n *NATSNotifier) Notify(run model.RunSummary) error {
	data, err := json.Marshal(RunEvent{
		RunID:       run.RunID,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Fetched:     run.Fetched,
		Normalized:  run.Normalized,
		Dropped:     run.Dropped,
		Unique:      run.Unique,
		DatasetPath: run.DatasetPath,
	})
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publishing run event: %w", err)
	}
	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("flushing run event: %w", err)
	}
	n.logger.Debug("published run event", "subject", n.subject, "run_id", run.RunID, "bytes", len(data))
	return nil
}

// Close releases the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.close != nil {
		n.close()
	}
	return nil
}
