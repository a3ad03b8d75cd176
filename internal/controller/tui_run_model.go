package controller

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxRecentVerdicts = 12

// runModel handles the TUI display during mutation testing.
type runModel struct {
	width  int
	height int

	progressBar     progress.Model
	progressPercent float64

	baselinePassed bool
	coveredSites   int
	baselineDone   bool

	total     int
	completed int

	currentID     uint32
	currentChange string
	currentFile   string

	killed    int
	survived  int
	unreached int
	errored   int

	recent []string

	score    float64
	finished bool
	quitting bool
}

func newRunModel() runModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return runModel{progressBar: prog}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height

		rm.progressBar.Width = rm.width - 8
		if rm.progressBar.Width < 20 {
			rm.progressBar.Width = 20
		}

		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			rm.quitting = true
			return rm, tea.Quit
		}

		return rm, nil

	case baselineMsg:
		rm.baselinePassed = msg.passed
		rm.coveredSites = msg.coveredSites
		rm.baselineDone = true

		return rm, nil

	case progressMsg:
		rm.total = msg.total
		rm.currentID = msg.id
		rm.currentChange = msg.change
		rm.currentFile = msg.path

		return rm, nil

	case verdictMsg:
		return rm.handleVerdict(msg), nil

	case scoreMsg:
		rm.score = msg.score
		rm.finished = true

		return rm, nil
	}

	return rm, nil
}

func (rm runModel) handleVerdict(msg verdictMsg) runModel {
	rm.completed++

	switch msg.status {
	case "killed":
		rm.killed++
	case "survived":
		rm.survived++
	case "unreached":
		rm.unreached++
	default:
		rm.errored++
	}

	line := fmt.Sprintf("%s %4d  %-10s %s",
		statusIcon(msg.status), msg.id, msg.status, msg.change)
	if msg.status == "survived" {
		line += "  " + msg.location
	}

	rm.recent = append(rm.recent, line)
	if len(rm.recent) > maxRecentVerdicts {
		rm.recent = rm.recent[len(rm.recent)-maxRecentVerdicts:]
	}

	if rm.total > 0 {
		rm.progressPercent = float64(rm.completed) / float64(rm.total)
	}

	return rm
}

func statusIcon(status string) string {
	switch status {
	case "killed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	case "survived":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗")
	case "unreached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("·")
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("!")
}

func (rm runModel) View() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("🧬 Gomu Mutation Testing")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Killed: %s  •  Survived: %s  •  Unreached: %s",
		accentStyle.Render(fmt.Sprintf("%d", rm.completed)),
		accentStyle.Render(fmt.Sprintf("%d", rm.total)),
		lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(fmt.Sprintf("%d", rm.killed)),
		lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(fmt.Sprintf("%d", rm.survived)),
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(fmt.Sprintf("%d", rm.unreached)),
	))

	progressStyle := lipgloss.NewStyle().Padding(0, 2)
	progressView := progressStyle.Render(rm.progressBar.ViewAs(rm.progressPercent))

	sections := []string{title, summary, progressView}

	if rm.baselineDone {
		sections = append(sections, rm.renderBaselineLine())
	}

	if rm.finished {
		sections = append(sections, rm.renderScoreLine())
	} else if rm.currentFile != "" {
		sections = append(sections, rm.renderCurrentLine())
	}

	if len(rm.recent) > 0 {
		sections = append(sections, rm.renderRecentBox(accentColor))
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Padding(0, 2)

	sections = append(sections, footerStyle.Render("Press q to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (rm runModel) renderBaselineLine() string {
	style := lipgloss.NewStyle().Padding(1, 2, 0, 2)

	if !rm.baselinePassed {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("Baseline tests failed"))
	}

	return style.Render(fmt.Sprintf("Baseline passed, %d call site(s) covered", rm.coveredSites))
}

func (rm runModel) renderCurrentLine() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14")).
		Padding(1, 2, 0, 2)

	return style.Render(fmt.Sprintf("Testing %d (%s) %s", rm.currentID, rm.currentChange, rm.currentFile))
}

func (rm runModel) renderScoreLine() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 2, 0, 2)

	return style.Render(fmt.Sprintf("Mutation score: %.2f%%", rm.score*100))
}

func (rm runModel) renderRecentBox(accentColor lipgloss.Color) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(1, 1, 0, 2).
		Padding(0, 1)

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rm.recent...))
}
