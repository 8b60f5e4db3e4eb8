package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AlexGokan/fqview/internal/fastq"
	"github.com/AlexGokan/fqview/internal/render"
)

// Colors for modern design
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	accentColor  = lipgloss.Color("#F59E0B") // Amber
	surfaceColor = lipgloss.Color("#1F2937") // Dark gray
	textColor    = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor   = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor  = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	modeTitleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)
)

type listItem struct {
	record fastq.Record
}

func (i listItem) FilterValue() string {
	return i.record.ID()
}

func (i listItem) Title() string {
	if id := i.record.ID(); id != "" {
		return id
	}
	return "(unnamed read)"
}

func (i listItem) Description() string {
	// Metadata line shown below the read id in the selector list
	return fmt.Sprintf("%d bp    mean Q %.1f", len(i.record.Sequence), i.record.MeanQuality())
}

type mode int

const (
	modeColored mode = iota
	modePlain
	modeRaw
	modeCount
)

func (m mode) String() string {
	switch m {
	case modeColored:
		return "🧬 Colored"
	case modePlain:
		return "📄 Plain"
	case modeRaw:
		return "🧪 Raw quality"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	records       []fastq.Record
	opts          render.Options
	file          string
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	totalRecords  int
	selectedIndex int
}

func newModel(path string, records []fastq.Record, opts render.Options) model {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = listItem{record: rec}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = filepath.Base(path)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	m := model{
		list:         l,
		records:      records,
		opts:         opts,
		file:         filepath.Base(path),
		currentMode:  modeColored,
		totalRecords: len(records),
	}
	// Start in the mode closest to the batch flags
	if !opts.Color {
		m.currentMode = modePlain
	} else if opts.RawQuality {
		m.currentMode = modeRaw
	}
	return m
}

// cycleMode advances to the next view mode, wrapping around.
func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % modeCount
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate list dimensions (left panel takes 1/3 of width)
		listWidth := msg.Width / 3
		listHeight := msg.Height - 4 // Account for borders and status

		m.list.SetWidth(listWidth)
		m.list.SetHeight(listHeight)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "h":
			m.showHelp = !m.showHelp
			return m, nil

		case "m":
			return m.cycleMode(), nil

		case "1":
			m.currentMode = modeColored
			return m, nil

		case "2":
			m.currentMode = modePlain
			return m, nil

		case "3":
			m.currentMode = modeRaw
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Help modal overlay
	if m.showHelp {
		return m.renderHelpModal()
	}

	// Main layout
	leftPanel := m.renderLeftPanel()
	rightPanel := m.renderRightPanel()
	statusBar := m.renderStatusBar()

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		rightPanel,
	)

	// Add status bar at bottom
	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		statusBar,
	)
}

func (m model) renderLeftPanel() string {
	listWidth := m.width / 3

	return containerStyle.
		Width(listWidth - 2). // Account for padding
		Height(m.height - 4). // Account for status bar
		Render(m.list.View())
}

// detailWrap is the wrap width used for the detail pane body.
func (m model) detailWrap() int {
	w := (m.width*2)/3 - 8
	if w < 16 {
		w = 16
	}
	return w
}

// buildDetailLines renders a record for the detail pane in the current
// view mode, wrapped to the pane width.
func (m model) buildDetailLines(rec fastq.Record) []string {
	opts := m.opts
	opts.Wrap = m.detailWrap()
	opts.Color = true
	opts.RawQuality = false
	switch m.currentMode {
	case modePlain:
		opts.Color = false
	case modeRaw:
		opts.RawQuality = true
	}
	return render.RecordLines(rec, opts)
}

func (m model) renderRightPanel() string {
	rightWidth := (m.width * 2) / 3

	if len(m.records) == 0 {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No records loaded")
	}

	selectedItem := m.list.SelectedItem()
	if selectedItem == nil {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No record selected")
	}

	rec := selectedItem.(listItem).record

	header := titleStyle.Render(rec.ID())
	meta := metaStyle.Render(fmt.Sprintf("Length: %d bp    Mean quality: %.1f", len(rec.Sequence), rec.MeanQuality()))
	modeTitle := modeTitleStyle.Render(m.currentMode.String())

	body := detailStyle.
		Width(rightWidth - 6). // Account for padding and borders
		Render(strings.Join(m.buildDetailLines(rec), "\n"))

	panelContent := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		meta,
		"",
		modeTitle,
		body,
	)

	return containerStyle.
		Width(rightWidth - 2).
		Height(m.height - 4).
		Render(panelContent)
}

func (m model) renderStatusBar() string {
	// Left side - file and navigation info
	leftInfo := fmt.Sprintf("📊 %s · %d/%d reads", m.file, m.selectedIndex+1, m.totalRecords)

	// Center - current mode
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode.String())

	// Right side - help hint
	rightInfo := "Press 'h' for help • 'q' to quit"

	// Calculate spacing
	totalUsed := len(leftInfo) + len(centerInfo) + len(rightInfo)
	spacing := m.width - totalUsed - 6 // Account for padding

	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		rightSpacing := spacing - leftSpacing

		statusContent = fmt.Sprintf("%s%s%s%s%s",
			leftInfo,
			strings.Repeat(" ", leftSpacing),
			centerInfo,
			strings.Repeat(" ", rightSpacing),
			rightInfo,
		)
	} else {
		// Fallback for narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}

	return statusBarStyle.
		Width(m.width).
		Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `🧬 FASTQ Browser - Help

Navigation:
  ↑/↓, j/k     Navigate reads
  /            Filter by read id

View Modes:
  1            Colored bases and quality blocks
  2            Plain text
  3            Raw quality beneath the blocks
  m            Cycle view modes

General:
  h            Toggle this help
  q, Ctrl+C    Quit application

File: ` + m.file + `
Total Reads: ` + fmt.Sprintf("%d", m.totalRecords) + `
`

	// Create modal box
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Align(lipgloss.Center)

	modal := modalStyle.Render(helpContent)

	// Center the modal on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

// Run opens the interactive browser over the given records.
func Run(path string, records []fastq.Record, opts render.Options) error {
	p := tea.NewProgram(newModel(path, records, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive browser: %w", err)
	}
	return nil
}
