package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "gomu.dev/pkg/gomu/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayDiscovery prints the discovered mutations or error.
func (s *SimpleUI) DisplayDiscovery(ctx context.Context, mutations []m.Mutation, err error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err != nil {
		s.printf("discovery error: %v\n", err)
		return err
	}

	statsList := buildFileStats(mutations)
	tableStr := renderDiscoveryTable(statsList, len(mutations))
	s.printf("\n%s", tableStr)

	return nil
}

// fileStat holds the mutation count for a single file.
type fileStat struct {
	path  string
	count int
}

func buildFileStats(mutations []m.Mutation) []fileStat {
	info := make(map[string]fileStat)

	for _, mutation := range mutations {
		path := string(mutation.Meta.File)

		stat := info[path]
		stat.path = path
		stat.count++
		info[path] = stat
	}

	statsList := make([]fileStat, 0, len(info))
	for _, stat := range info {
		statsList = append(statsList, stat)
	}

	sort.Slice(statsList, func(i, j int) bool {
		return statsList[i].path < statsList[j].path
	})

	return statsList
}

func renderDiscoveryTable(statsList []fileStat, totalMutations int) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Mutations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	pathsCount := 0

	for _, stat := range statsList {
		table.Append([]string{stat.path, fmt.Sprintf("%d", stat.count)})

		pathsCount++
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", pathsCount),
		fmt.Sprintf("%d", totalMutations),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayDiff prints the instrumentation diff for one file.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("File: %s\n%s\n", path, diff)
}

// DisplayInstrumented summarizes a completed instrumentation pass.
func (s *SimpleUI) DisplayInstrumented(ctx context.Context, files int, sites int, reports m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Instrumented %d file(s), %d call site(s)\n", files, sites)
	s.printf("Manifest written to %s\n", reports)
}

// DisplayBaseline shows the outcome of the baseline test run.
func (s *SimpleUI) DisplayBaseline(ctx context.Context, passed bool, coveredSites int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if !passed {
		s.printf("Baseline tests failed\n")
		return
	}

	s.printf("Baseline passed, %d call site(s) covered\n", coveredSites)
}

// DisplayTestProgress shows info about the mutation test starting.
func (s *SimpleUI) DisplayTestProgress(ctx context.Context, current int, total int, mutation m.Mutation) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] Testing mutation %d (%s %s -> %s) %s:%d\n",
		current+1, total, mutation.ID,
		mutation.Meta.Family, mutation.Meta.OriginalOp, mutation.Meta.MutatedOp,
		mutation.Meta.File, mutation.Meta.Line)
}

// DisplayVerdict shows the outcome of a single mutation test.
func (s *SimpleUI) DisplayVerdict(ctx context.Context, verdict m.Verdict) {
	if err := ctx.Err(); err != nil {
		return
	}

	mutation := verdict.Mutation
	s.printf("Mutation %d (%s -> %s) -> %s\n",
		mutation.ID, mutation.Meta.OriginalOp, mutation.Meta.MutatedOp, verdict.Status)

	if verdict.Status == m.Survived {
		s.printf("  at %s:%d:%d in %s\n",
			mutation.Meta.File, mutation.Meta.Line, mutation.Meta.Column, mutation.Meta.Function)
	}
}

// DisplayScore prints the final mutation score.
func (s *SimpleUI) DisplayScore(ctx context.Context, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Mutation score: %.2f%%\n", score*100)
}

// DisplayReport renders a stored run report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReportTable(report))
	s.printf("Mutation score: %.2f%%\n", report.Score*100)

	return nil
}

func renderReportTable(report m.RunReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Location", "Mutation", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	counts := make(map[m.TestStatus]int)

	for _, verdict := range report.Verdicts {
		meta := verdict.Mutation.Meta
		table.Append([]string{
			fmt.Sprintf("%d", verdict.Mutation.ID),
			fmt.Sprintf("%s:%d:%d", meta.File, meta.Line, meta.Column),
			fmt.Sprintf("%s -> %s", meta.OriginalOp, meta.MutatedOp),
			verdict.Status.String(),
		})

		counts[verdict.Status]++
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(report.Verdicts)),
		"",
		"",
		fmt.Sprintf("killed %d / survived %d", counts[m.Killed], counts[m.Survived]),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
