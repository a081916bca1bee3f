package browse

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobpulse/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// Picker results that are not a category index.
const (
	PickAll  = -1
	PickQuit = -2
)

type pickerModel struct {
	total  int
	counts map[model.Category]int
	cursor int // 0 = all, i = model.Categories[i-1]
	chosen int
}

func newPickerModel(jobs []model.Job) pickerModel {
	counts := make(map[model.Category]int)
	for _, j := range jobs {
		counts[j.Category]++
	}
	return pickerModel{total: len(jobs), counts: counts, chosen: PickQuit}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = PickQuit
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(model.Categories) {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor - 1
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("UK AI Jobs: select a category")
	s += "\n"

	labels := []string{fmt.Sprintf("All categories (%d)", m.total)}
	for _, c := range model.Categories {
		labels = append(labels, fmt.Sprintf("%s (%d)", c, m.counts[c]))
	}
	for i, label := range labels {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunCategoryPicker shows the category selector. It returns an index into
// model.Categories, PickAll, or PickQuit.
func RunCategoryPicker(jobs []model.Job) (int, error) {
	p := tea.NewProgram(newPickerModel(jobs))
	result, err := p.Run()
	if err != nil {
		return PickQuit, err
	}
	return result.(pickerModel).chosen, nil
}
