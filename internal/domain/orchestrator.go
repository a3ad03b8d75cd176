package domain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gomu.dev/pkg/gomu/internal/adapter"
	m "gomu.dev/pkg/gomu/internal/model"
	"gomu.dev/pkg/gomu/pkg/mutrt"
)

// tailLines bounds how much test output a verdict keeps.
const tailLines = 20

// Orchestrator drives test execution against a single instrumented copy of
// the project: one baseline run that doubles as a coverage probe, then one
// serial run per mutation with that mutation activated through the
// environment. Runs are never parallelized; activation is process-wide.
type Orchestrator interface {
	// Baseline runs the test suite with no mutation active and returns the
	// set of call-site base identifiers that were reached.
	Baseline(ctx context.Context, workDir m.Path) (BaselineResult, error)

	// TestMutation runs the test suite with the mutation active and
	// produces its verdict.
	TestMutation(ctx context.Context, workDir m.Path, mutation m.Mutation, timeout time.Duration) (m.Verdict, error)
}

// BaselineResult captures the un-mutated reference run.
type BaselineResult struct {
	Passed  bool
	Covered map[m.MutationID]struct{}
	Output  string
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and test runner adapters.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter) Orchestrator {
	return &orchestrator{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
	}
}

func (o *orchestrator) Baseline(ctx context.Context, workDir m.Path) (BaselineResult, error) {
	covPath := o.fsAdapter.JoinPath(ctx, string(workDir), "gomu-coverage-baseline")

	output, err := o.testAdapter.RunGoTest(ctx, string(workDir), []string{
		mutrt.EnvCoverageFile + "=" + string(covPath),
	})
	if ctx.Err() != nil {
		return BaselineResult{}, ctx.Err()
	}

	covered, covErr := o.readCoverage(ctx, covPath)
	if covErr != nil {
		slog.Warn("failed to read baseline coverage", "path", covPath, "error", covErr)
	}

	return BaselineResult{
		Passed:  err == nil,
		Covered: covered,
		Output:  output,
	}, nil
}

func (o *orchestrator) TestMutation(ctx context.Context, workDir m.Path, mutation m.Mutation, timeout time.Duration) (m.Verdict, error) {
	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	covPath := o.fsAdapter.JoinPath(ctx, string(workDir), fmt.Sprintf("gomu-coverage-%d", mutation.ID))

	output, err := o.testAdapter.RunGoTest(runCtx, string(workDir), []string{
		mutrt.EnvActiveMutation + "=" + strconv.FormatUint(uint64(mutation.ID), 10),
		mutrt.EnvCoverageFile + "=" + string(covPath),
	})

	if ctx.Err() != nil {
		return m.Verdict{}, ctx.Err()
	}

	covered, covErr := o.readCoverage(ctx, covPath)
	if covErr != nil {
		slog.Debug("no coverage recorded for mutation", "id", mutation.ID, "error", covErr)
	}

	_, reached := covered[mutation.Meta.Base]

	verdict := m.Verdict{Mutation: mutation, Covered: reached}

	switch {
	case err == nil:
		verdict.Status = m.Survived
	case runCtx.Err() != nil:
		// A timed-out run counts as killed: the mutation turned a passing
		// suite into a hanging one (e.g. an inverted loop condition).
		verdict.Status = m.Killed
		verdict.Output = "test run timed out"
	default:
		verdict.Status = m.Killed
		verdict.Output = tail(output)
	}

	return verdict, nil
}

// readCoverage parses the identifier-per-line file written by the runtime's
// coverage spill.
func (o *orchestrator) readCoverage(ctx context.Context, path m.Path) (map[m.MutationID]struct{}, error) {
	content, err := o.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	covered := make(map[m.MutationID]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}

		covered[m.MutationID(id)] = struct{}{}
	}

	return covered, scanner.Err()
}

func tail(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}

	return strings.Join(lines, "\n")
}
