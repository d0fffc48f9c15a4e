package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

const valueWidth = 7

var levelColors = map[level]lipgloss.Color{
	levelMuted: lipgloss.Color("8"),
	levelGood:  lipgloss.Color("10"),
	levelWarn:  lipgloss.Color("11"),
	levelBad:   lipgloss.Color("9"),
}

// Simple delegate for file list items.
type fileDelegate struct {
	offset int
}

func (d fileDelegate) Height() int  { return 1 }
func (d fileDelegate) Spacing() int { return 0 }
func (d fileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d fileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	file, ok := item.(fileItem)
	if !ok {
		return
	}

	var pathStyle, valueStyle lipgloss.Style

	var displayPath string

	width := m.Width() - valueWidth - 2

	if index == m.Index() {
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		valueStyle = pathStyle.
			Width(valueWidth).
			Align(lipgloss.Right)

		displayPath = animateScroll(file.path, width, d.offset)
	} else {
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		valueStyle = lipgloss.NewStyle().
			Foreground(levelColors[file.level]).
			Bold(true).
			Width(valueWidth).
			Align(lipgloss.Right)

		displayPath = truncateToWidth(file.path, width)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", valueStyle.Render(file.value), pathStyle.Render(displayPath))
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const (
		gap   = "   "
		pause = 5
	)

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// reportModel lists files with their coverage or analysis result and shows
// the detail of the selected file on demand.
type reportModel struct {
	mode         StartMode
	width        int
	height       int
	fileList     list.Model
	delegate     fileDelegate
	bar          progress.Model
	coverage     coverageMsg
	analysis     codeMapsMsg
	merge        *MergeInfo
	rendered     bool
	showDetail   bool
	animOffset   int
	lastSelected int
}

func newReportModel(mode StartMode) reportModel {
	delegate := fileDelegate{}
	fileList := list.New([]list.Item{}, delegate, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	return reportModel{
		mode:         mode,
		fileList:     fileList,
		delegate:     delegate,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		lastSelected: -1,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m reportModel) Init() tea.Cmd {
	return tick(time.Second / 2)
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetWidth(m.width)

	case tickMsg:
		if m.fileList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.fileList.SetDelegate(m.delegate)

			return m, tick(time.Millisecond * 150)
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case coverageMsg:
		m.coverage = msg
		m.setItems(msg.items)

	case codeMapsMsg:
		m.analysis = msg
		m.setItems(msg.items)

	case mergeMsg:
		info := msg.info
		m.merge = &info
	}

	return m, cmd
}

func (m reportModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fileList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", " ":
			m.showDetail = !m.showDetail
			return m, nil
		}
	}

	var cmd tea.Cmd

	m.fileList, cmd = m.fileList.Update(msg)

	if m.fileList.Index() != m.lastSelected {
		m.lastSelected = m.fileList.Index()
		m.animOffset = 0
		m.delegate.offset = 0
		m.fileList.SetDelegate(m.delegate)
	}

	return m, cmd
}

func (m *reportModel) setItems(items []list.Item) {
	m.fileList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}
}

func (m reportModel) View() string {
	if !m.rendered {
		return "Loading coverage…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	title := "Lust Coverage Report"
	if m.mode == ModeAnalyze {
		title = "Lust Coverage Analysis"
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	parts := []string{titleStyle.Render(title), m.renderSummary(), m.renderTable()}

	if m.showDetail {
		parts = append(parts, m.renderDetail())
	}

	parts = append(parts, footerStyle.Render("↑/k up • ↓/j down • enter detail • / filter • q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m reportModel) renderSummary() string {
	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	if m.mode == ModeAnalyze {
		a := m.analysis

		return summaryStyle.Render(fmt.Sprintf(
			"Files: %s   Executable lines: %s   Functions: %s   Excluded: %s",
			accent.Render(fmt.Sprintf("%d", a.files)),
			accent.Render(fmt.Sprintf("%d", a.lines)),
			accent.Render(fmt.Sprintf("%d", a.funcs)),
			accent.Render(fmt.Sprintf("%d", a.excluded)),
		))
	}

	s := m.coverage.summary
	pct := s.Percentage()

	bar := m.bar
	bar.Width = max(m.width-50, 10)

	text := fmt.Sprintf(
		"Lines: %s (%d/%d)   Files: %s   Excluded: %s   Threshold: %s\n%s",
		lipgloss.NewStyle().Foreground(levelColors[coverageLevel(pct, m.coverage.threshold)]).Bold(true).Render(formatPercent(pct)),
		s.Covered, s.TotalExecutable,
		accent.Render(fmt.Sprintf("%d", s.Files)),
		accent.Render(fmt.Sprintf("%d", s.ExcludedFiles)),
		accent.Render(formatPercent(m.coverage.threshold)),
		bar.ViewAs(pct/100),
	)

	if m.merge != nil {
		text += fmt.Sprintf("\nMerged %d worker file(s): %d partial, %d discarded",
			m.merge.Workers, m.merge.Partial, m.merge.Discarded)
	}

	return summaryStyle.Render(text)
}

func (m reportModel) renderTable() string {
	listHeight := max(m.height-12, 5)
	listWidth := max(m.width-6, 20)

	m.fileList.SetHeight(listHeight)
	m.fileList.SetWidth(listWidth)

	valueHeader := "Cover"
	if m.mode == ModeAnalyze {
		valueHeader = "Lines"
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%*s  %s", valueWidth, valueHeader, "File Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.fileList.View(),
		),
	)
}

func (m reportModel) detailMaxLines() int {
	return max(m.height/3, 5)
}

func (m reportModel) renderDetail() string {
	item, ok := m.fileList.SelectedItem().(fileItem)
	if !ok {
		return ""
	}

	width := max(m.width-6, 20)

	lines := item.detail
	if maxLines := m.detailMaxLines(); len(lines) > maxLines {
		lines = append(append([]string(nil), lines[:maxLines-1]...), "…")
	}

	body := make([]string, 0, len(lines))
	for _, line := range lines {
		body = append(body, renderDetailLine(line, width))
	}

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Render(truncateToWidth("Detail • "+item.path, width))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, body...)...))
}

// renderDetailLine colors annotated source by its marker column.
func renderDetailLine(line string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	if len(line) > 5 {
		switch line[5:6] {
		case markExecutable:
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		case markIgnored:
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		}
	}

	return style.Render(truncateToWidth(line, width))
}
