package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobpulse/internal/model"
)

// ErrCancelled is returned when the user aborts loading.
var ErrCancelled = errors.New("cancelled")

const loadTimeout = 2 * time.Minute

type loadDoneMsg struct {
	jobs []model.Job
	err  error
}

type loaderModel struct {
	source  string
	loadFn  func(ctx context.Context) ([]model.Job, error)
	spinner spinner.Model
	result  []model.Job
	err     error
	done    bool
}

func newLoaderModel(source string, loadFn func(ctx context.Context) ([]model.Job, error)) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{source: source, loadFn: loadFn, spinner: s}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doLoad(), m.spinner.Tick)
}

func (m loaderModel) doLoad() tea.Cmd {
	loadFn := m.loadFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		jobs, err := loadFn(ctx)
		return loadDoneMsg{jobs: jobs, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.jobs
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Loading jobs from %s...\n", m.spinner.View(), m.source)
}

// RunLoader shows a spinner while loadFn runs. It renders inline (no alt screen).
func RunLoader(source string, loadFn func(ctx context.Context) ([]model.Job, error)) ([]model.Job, error) {
	p := tea.NewProgram(newLoaderModel(source, loadFn))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
