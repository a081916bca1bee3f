// Package browse is a read-only terminal browser over the dataset snapshot.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/jobpulse/internal/filter"
	"github.com/amishk599/jobpulse/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	all      []model.Job
	visible  []model.Job
	catIndex int // index into model.Categories, or PickAll

	listViewport   viewport.Model
	previewPane    viewport.Model
	detailViewport viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool
	view           viewState

	wantQuit bool
}

func newBrowseModel(jobs []model.Job, catIndex int) browseModel {
	all := append([]model.Job(nil), jobs...)
	sortJobsByDate(all)
	m := browseModel{all: all, catIndex: catIndex}
	m.applyCategory()
	return m
}

// categoryLabel names the active filter.
func (m browseModel) categoryLabel() string {
	if m.catIndex == PickAll {
		return "All categories"
	}
	return string(model.Categories[m.catIndex])
}

// cycleCategory steps through all → each category → all.
func (m *browseModel) cycleCategory() {
	m.catIndex++
	if m.catIndex >= len(model.Categories) {
		m.catIndex = PickAll
	}
	m.applyCategory()
}

func (m *browseModel) applyCategory() {
	var c filter.Criteria
	if m.catIndex != PickAll {
		c.Category = string(model.Categories[m.catIndex])
	}
	m.visible = filter.Apply(filter.NewFieldFilter(c), m.all)
	m.cursor = 0
	if m.ready {
		m.listViewport.SetYOffset(0)
		m.recalcContent()
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail(true))
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "c":
		m.cycleCategory()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.previewPane, cmd = m.previewPane.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if j, ok := m.selected(); ok && j.URL != "" {
			openURL(j.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.visible)-1, 0))
	if !m.ready {
		return
	}
	m.recalcContent()

	vp := &m.listViewport
	top := m.cursor * jobItemHeight
	bottom := top + jobItemHeight - 1
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m browseModel) selected() (model.Job, bool) {
	if len(m.visible) == 0 {
		return model.Job{}, false
	}
	return m.visible[m.cursor], true
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if _, ok := m.selected(); !ok {
		return m, nil
	}
	m.view = viewDetail
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail(true))
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)
	// Header (1 line) + border top/bottom (2) + status bar (1).
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(paneWidth, paneHeight)
		m.previewPane = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = paneWidth
		m.listViewport.Height = paneHeight
		m.previewPane.Width = paneWidth
		m.previewPane.Height = paneHeight
	}
	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listViewport.SetContent(renderJobs(m.visible, m.cursor))
	m.previewPane.SetContent(m.renderDetail(false))
	m.previewPane.SetYOffset(0)
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.listViewport.Width

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(headerStyle.Render(fmt.Sprintf(" %s (%d)", m.categoryLabel(), len(m.visible)))),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(headerStyle.Render(" Details")),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		activeBorderStyle.Width(paneWidth).Render(m.listViewport.View()),
		" ",
		inactiveBorderStyle.Width(paneWidth).Render(m.previewPane.View()),
	)

	statusText := fmt.Sprintf(" %d of %d jobs    ↑/↓ cursor  c category  Enter detail  Esc back  q quit",
		len(m.visible), len(m.all))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

// renderDetail formats the selected job. full adds the description.
func (m browseModel) renderDetail(full bool) string {
	j, ok := m.selected()
	if !ok {
		return "  (no job selected)"
	}
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Category", string(j.Category))
	addField("Experience", string(j.ExperienceLevel))
	addField("Work Type", string(j.WorkType))
	addField("Salary", formatSalary(j))
	addField("Skills", strings.Join(j.RequiredSkills, ", "))
	if !j.PostedDate.IsZero() {
		addField("Posted", j.PostedDate.Format("2006-01-02"))
	}
	addField("Source", j.Source)
	addField("URL", j.URL)

	if full && j.Description != "" {
		wrapWidth := max(m.width-8, 20)
		label := "── Description "
		b.WriteByte('\n')
		b.WriteString(descDividerStyle.Render(label+strings.Repeat("─", max(wrapWidth-len(label), 3))) + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(j.Description, wrapWidth)) + "\n")
	}
	return b.String()
}

func formatSalary(j model.Job) string {
	if j.SalaryMin == nil || j.SalaryMax == nil {
		return "not stated"
	}
	return fmt.Sprintf("£%s - £%s", humanize.Comma(int64(*j.SalaryMin)), humanize.Comma(int64(*j.SalaryMax)))
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		posted := "n/a"
		if !j.PostedDate.IsZero() {
			posted = j.PostedDate.Format("2006-01-02")
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", j.Company, j.Location, posted)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sortJobsByDate(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].PostedDate.After(jobs[j].PostedDate)
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowseTUI launches the split list/detail view starting on catIndex
// (an index into model.Categories, or PickAll). It returns wantQuit=true if
// the user pressed q/ctrl+c, false if they pressed esc to go back to the picker.
func RunBrowseTUI(jobs []model.Job, catIndex int) (bool, error) {
	p := tea.NewProgram(newBrowseModel(jobs, catIndex), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(browseModel).wantQuit, nil
}
