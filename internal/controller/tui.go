package controller

import (
	"context"
	"fmt"
	"io"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "gomu.dev/pkg/gomu/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. In test mode a
// background program renders a live progress view; other modes print styled
// static output.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI. In test mode it launches the interactive
// progress program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	if cfg.mode != ModeTest {
		return nil
	}

	t.done = make(chan struct{})
	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output))

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close shuts the interactive program down if it is still running.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done

	t.program = nil
}

// Wait blocks until the user closes the interactive program.
func (t *TUI) Wait(ctx context.Context) {
	if t.program == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-t.done:
	}
}

// DisplayDiscovery prints the discovered mutations grouped by file.
func (t *TUI) DisplayDiscovery(ctx context.Context, mutations []m.Mutation, err error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err != nil {
		_, _ = fmt.Fprintf(t.output, "discovery error: %v\n", err)
		return err
	}

	counts := make(map[string]int)
	for _, mutation := range mutations {
		counts[string(mutation.Meta.File)]++
	}

	paths := make([]string, 0, len(counts))
	for path := range counts {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	_, _ = fmt.Fprintf(t.output, "\n%s\n\n", titleStyle.Render("🧬 Discovered mutations"))

	for _, path := range paths {
		_, _ = fmt.Fprintf(t.output, "  %s: %s\n",
			pathStyle.Render(path), countStyle.Render(fmt.Sprintf("%d", counts[path])))
	}

	_, _ = fmt.Fprintf(t.output, "\n  Total: %s mutations across %d file(s)\n",
		countStyle.Render(fmt.Sprintf("%d", len(mutations))), len(paths))

	return nil
}

// DisplayDiff prints the instrumentation diff for one file with colored
// hunks.
func (t *TUI) DisplayDiff(ctx context.Context, path m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)

	_, _ = fmt.Fprintf(t.output, "%s\n%s\n", headerStyle.Render("Diff • "+string(path)), diff)
}

// DisplayInstrumented summarizes a completed instrumentation pass.
func (t *TUI) DisplayInstrumented(ctx context.Context, files int, sites int, reports m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(t.output, "Instrumented %d file(s), %d call site(s)\n", files, sites)
	_, _ = fmt.Fprintf(t.output, "Manifest written to %s\n", reports)
}

// DisplayBaseline forwards the baseline outcome to the progress view.
func (t *TUI) DisplayBaseline(ctx context.Context, passed bool, coveredSites int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program != nil {
		t.program.Send(baselineMsg{passed: passed, coveredSites: coveredSites})
		return
	}

	_, _ = fmt.Fprintf(t.output, "Baseline passed=%t, %d call site(s) covered\n", passed, coveredSites)
}

// DisplayTestProgress forwards the currently tested mutation to the progress
// view.
func (t *TUI) DisplayTestProgress(ctx context.Context, current int, total int, mutation m.Mutation) {
	if err := ctx.Err(); err != nil {
		return
	}

	msg := progressMsg{
		current: current,
		total:   total,
		id:      uint32(mutation.ID),
		family:  string(mutation.Meta.Family),
		change:  fmt.Sprintf("%s -> %s", mutation.Meta.OriginalOp, mutation.Meta.MutatedOp),
		path:    fmt.Sprintf("%s:%d", mutation.Meta.File, mutation.Meta.Line),
	}

	if t.program != nil {
		t.program.Send(msg)
		return
	}

	_, _ = fmt.Fprintf(t.output, "[%d/%d] Testing mutation %d (%s) %s\n",
		current+1, total, msg.id, msg.change, msg.path)
}

// DisplayVerdict forwards a completed mutation verdict to the progress view.
func (t *TUI) DisplayVerdict(ctx context.Context, verdict m.Verdict) {
	if err := ctx.Err(); err != nil {
		return
	}

	meta := verdict.Mutation.Meta
	msg := verdictMsg{
		id:       uint32(verdict.Mutation.ID),
		change:   fmt.Sprintf("%s -> %s", meta.OriginalOp, meta.MutatedOp),
		status:   verdict.Status.String(),
		location: fmt.Sprintf("%s:%d:%d", meta.File, meta.Line, meta.Column),
	}

	if t.program != nil {
		t.program.Send(msg)
		return
	}

	_, _ = fmt.Fprintf(t.output, "Mutation %d (%s) -> %s\n", msg.id, msg.change, msg.status)
}

// DisplayScore forwards the final score to the progress view.
func (t *TUI) DisplayScore(ctx context.Context, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program != nil {
		t.program.Send(scoreMsg{score: score})
		return
	}

	_, _ = fmt.Fprintf(t.output, "Mutation score: %.2f%%\n", score*100)
}

// DisplayReport renders a stored run report with colored verdicts.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	_, _ = fmt.Fprintf(t.output, "\n%s\n\n", titleStyle.Render("🧬 Mutation Testing Report"))

	counts := make(map[m.TestStatus]int)

	for _, verdict := range report.Verdicts {
		meta := verdict.Mutation.Meta
		counts[verdict.Status]++

		_, _ = fmt.Fprintf(t.output, "  %s %4d  %-10s %s -> %s  %s:%d:%d\n",
			statusIcon(verdict.Status.String()), verdict.Mutation.ID, verdict.Status,
			meta.OriginalOp, meta.MutatedOp, meta.File, meta.Line, meta.Column)
	}

	_, _ = fmt.Fprintf(t.output, "\n  Total: %d | Killed: %d | Survived: %d | Unreached: %d | Errors: %d\n",
		len(report.Verdicts), counts[m.Killed], counts[m.Survived], counts[m.Unreached], counts[m.Errored])
	_, _ = fmt.Fprintf(t.output, "  Score: %.2f%%\n", report.Score*100)

	return nil
}
