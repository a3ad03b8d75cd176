package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"gomu.dev/pkg/gomu/internal/adapter"
	"gomu.dev/pkg/gomu/internal/controller"
	m "gomu.dev/pkg/gomu/internal/model"
	pkg "gomu.dev/pkg/gomu/pkg"
)

// RuntimeModuleVersion is the placeholder version required into instrumented
// copies; a -replace directive points it at an actual checkout.
const RuntimeModuleVersion = "v0.0.0"

// ListArgs selects sources for mutation discovery.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// InstrumentArgs configures a standalone instrumentation pass.
type InstrumentArgs struct {
	ListArgs
	// Output receives the instrumented copy of the project.
	Output m.Path
	// Reports receives the mutation manifest.
	Reports m.Path
	// RuntimeDir, when set, is the local checkout the runtime module
	// dependency is replaced with.
	RuntimeDir m.Path
	// ShowDiff prints a unified diff per instrumented file.
	ShowDiff bool
}

// RunArgs configures a full mutation testing run.
type RunArgs struct {
	ListArgs
	Reports         m.Path
	RuntimeDir      m.Path
	MutationTimeout time.Duration
	KeepWorkDir     bool
}

// ViewArgs selects a stored report.
type ViewArgs struct {
	Reports m.Path
}

// Workflow is the use-case layer behind the CLI commands.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	Instrument(ctx context.Context, args InstrumentArgs) error
	Run(ctx context.Context, args RunArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Orchestrator

	goFileAdapter adapter.GoFileAdapter
	testAdapter   adapter.TestRunnerAdapter
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	goFileAdapter adapter.GoFileAdapter,
	testAdapter adapter.TestRunnerAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orchestrator Orchestrator,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Orchestrator:    orchestrator,
		goFileAdapter:   goFileAdapter,
		testAdapter:     testAdapter,
	}
}

// List discovers every mutation the transform pass would register, without
// writing any instrumented code.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close(ctx)

	sources, err := w.discoverSources(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	registry := NewRegistry()
	instrumenter := NewInstrumenter(w.goFileAdapter, w.SourceFSAdapter, registry)

	for _, source := range sources {
		if _, err := instrumenter.InstrumentSource(ctx, source); err != nil {
			return w.DisplayDiscovery(ctx, nil, err)
		}
	}

	return w.DisplayDiscovery(ctx, registry.Mutations(), nil)
}

// Instrument writes an instrumented copy of the project and its mutation
// manifest, leaving the original tree untouched.
func (w *workflow) Instrument(ctx context.Context, args InstrumentArgs) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close(ctx)

	sources, err := w.discoverSources(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	if len(sources) == 0 {
		return fmt.Errorf("no Go sources found")
	}

	root, err := w.FindProjectRoot(ctx, sources[0].Origin.FullPath)
	if err != nil {
		return fmt.Errorf("find project root: %w", err)
	}

	if err := w.CopyDir(ctx, root, args.Output); err != nil {
		return fmt.Errorf("copy project to %s: %w", args.Output, err)
	}

	registry, files, sites, err := w.instrumentInto(ctx, sources, root, args.Output, args.ShowDiff)
	if err != nil {
		return err
	}

	if err := w.wireRuntime(ctx, args.Output, args.RuntimeDir); err != nil {
		return err
	}

	if err := w.SaveManifest(ctx, args.Reports, registry.Mutations()); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	w.DisplayInstrumented(ctx, files, sites, args.Reports)

	return nil
}

// Run performs the full harness cycle: instrument a temporary copy, run the
// baseline, then test every discovered mutation serially.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	sources, err := w.discoverSources(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	if len(sources) == 0 {
		return fmt.Errorf("no Go sources found")
	}

	root, err := w.FindProjectRoot(ctx, sources[0].Origin.FullPath)
	if err != nil {
		return fmt.Errorf("find project root: %w", err)
	}

	workDir, err := w.CreateTempDir(ctx, "gomu-run-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	if !args.KeepWorkDir {
		defer w.cleanupWorkDir(workDir)
	}

	if err := w.CopyDir(ctx, root, workDir); err != nil {
		return fmt.Errorf("copy project: %w", err)
	}

	registry, _, _, err := w.instrumentInto(ctx, sources, root, workDir, false)
	if err != nil {
		return err
	}

	if err := w.wireRuntime(ctx, workDir, args.RuntimeDir); err != nil {
		return err
	}

	mutations := registry.Mutations()

	if err := w.SaveManifest(ctx, args.Reports, mutations); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	if err := w.Start(ctx, controller.WithTestMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	report, err := w.testMutations(ctx, workDir, mutations, args)
	if err != nil {
		return err
	}

	report.Root = root

	if err := w.SaveReport(ctx, args.Reports, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	w.DisplayScore(ctx, report.Score)
	w.Wait(ctx)

	return nil
}

// View renders a previously saved run report.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close(ctx)

	report, err := w.LoadReport(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.DisplayReport(ctx, report)
}

// instrumentInto runs the transform pass over sources in their sorted order
// and writes the rewritten files into the copy rooted at dst.
func (w *workflow) instrumentInto(ctx context.Context, sources []m.Source, root, dst m.Path, showDiff bool) (*Registry, int, int, error) {
	registry := NewRegistry()
	instrumenter := NewInstrumenter(w.goFileAdapter, w.SourceFSAdapter, registry)

	files := 0
	sites := 0

	for _, source := range sources {
		result, err := instrumenter.InstrumentSource(ctx, source)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("instrument %s: %w", source.Origin.FullPath, err)
		}

		if result.Sites == 0 {
			continue
		}

		rel, err := w.RelPath(ctx, root, source.Origin.FullPath)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("relativize %s: %w", source.Origin.FullPath, err)
		}

		target := w.JoinPath(ctx, string(dst), string(rel))
		if err := w.WriteFile(ctx, target, result.Content, 0o600); err != nil {
			return nil, 0, 0, fmt.Errorf("write instrumented %s: %w", target, err)
		}

		if showDiff {
			w.showDiff(ctx, source, result.Content)
		}

		files++
		sites += result.Sites
	}

	return registry, files, sites, nil
}

func (w *workflow) showDiff(ctx context.Context, source m.Source, instrumented []byte) {
	original, err := w.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(instrumented)),
		FromFile: string(source.Origin.ShortPath),
		ToFile:   string(source.Origin.ShortPath) + " (instrumented)",
		Context:  3,
	})
	if err != nil {
		return
	}

	w.DisplayDiff(ctx, source.Origin.ShortPath, diff)
}

// wireRuntime makes the instrumented copy depend on the runtime package the
// rewritten code imports.
func (w *workflow) wireRuntime(ctx context.Context, workDir, runtimeDir m.Path) error {
	if err := w.testAdapter.GoModEdit(ctx, string(workDir), "-require=gomu.dev/pkg/gomu@"+RuntimeModuleVersion); err != nil {
		return fmt.Errorf("require runtime module: %w", err)
	}

	if runtimeDir != "" {
		if err := w.testAdapter.GoModEdit(ctx, string(workDir), "-replace=gomu.dev/pkg/gomu="+string(runtimeDir)); err != nil {
			return fmt.Errorf("replace runtime module: %w", err)
		}
	}

	if err := w.testAdapter.GoModTidy(ctx, string(workDir)); err != nil {
		return fmt.Errorf("tidy instrumented module: %w", err)
	}

	return nil
}

func (w *workflow) testMutations(ctx context.Context, workDir m.Path, mutations []m.Mutation, args RunArgs) (m.RunReport, error) {
	startedAt := time.Now()

	baseline, err := w.Baseline(ctx, workDir)
	if err != nil {
		return m.RunReport{}, fmt.Errorf("baseline run: %w", err)
	}

	if !baseline.Passed {
		return m.RunReport{}, fmt.Errorf("baseline tests failed; fix the suite before mutation testing:\n%s", baseline.Output)
	}

	w.DisplayBaseline(ctx, baseline.Passed, len(baseline.Covered))

	spill, err := pkg.NewFileSpill[m.Verdict]()
	if err != nil {
		return m.RunReport{}, fmt.Errorf("create verdict spill: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("failed to close verdict spill", "error", err)
		}
	}()

	total := len(mutations)

	for i, mutation := range mutations {
		w.DisplayTestProgress(ctx, i, total, mutation)

		verdict, err := w.testOne(ctx, workDir, mutation, baseline, args.MutationTimeout)
		if err != nil {
			return m.RunReport{}, err
		}

		if err := spill.Append(verdict); err != nil {
			return m.RunReport{}, fmt.Errorf("spill verdict: %w", err)
		}

		w.DisplayVerdict(ctx, verdict)
	}

	return w.buildReport(ctx, spill, startedAt)
}

func (w *workflow) testOne(ctx context.Context, workDir m.Path, mutation m.Mutation, baseline BaselineResult, timeout time.Duration) (m.Verdict, error) {
	// Sites the baseline never reached cannot be killed; skip the run.
	if _, reached := baseline.Covered[mutation.Meta.Base]; !reached {
		return m.Verdict{Mutation: mutation, Status: m.Unreached}, nil
	}

	verdict, err := w.TestMutation(ctx, workDir, mutation, timeout)
	if err != nil {
		return m.Verdict{}, fmt.Errorf("test mutation %d: %w", mutation.ID, err)
	}

	return verdict, nil
}

func (w *workflow) buildReport(ctx context.Context, spill pkg.FileSpill[m.Verdict], startedAt time.Time) (m.RunReport, error) {
	score, err := mutationScoreFromVerdicts(spill)
	if err != nil {
		return m.RunReport{}, fmt.Errorf("compute score: %w", err)
	}

	report := m.RunReport{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Score:      score,
	}

	err = spill.Range(func(_ uint64, verdict m.Verdict) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		report.Verdicts = append(report.Verdicts, verdict)

		return nil
	})
	if err != nil {
		return m.RunReport{}, err
	}

	return report, nil
}

func (w *workflow) cleanupWorkDir(workDir m.Path) {
	if err := w.RemoveAll(context.Background(), workDir); err != nil {
		slog.Error("failed to clean up work dir", "workDir", workDir, "error", err)
	}
}
