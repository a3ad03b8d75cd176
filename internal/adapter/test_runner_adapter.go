package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// TestRunnerAdapter abstracts go toolchain invocations for the harness.
type TestRunnerAdapter interface {
	// RunGoTest runs 'go test ./...' in workDir with the given extra
	// environment variables appended to the inherited environment.
	// Returns the combined stdout/stderr output and any error.
	RunGoTest(ctx context.Context, workDir string, env []string) (output string, err error)

	// GoModEdit applies 'go mod edit' arguments in workDir, used to wire
	// the runtime module dependency into an instrumented copy.
	GoModEdit(ctx context.Context, workDir string, args ...string) error

	// GoModTidy runs 'go mod tidy' in workDir.
	GoModTidy(ctx context.Context, workDir string) error
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// RunGoTest runs 'go test ./...' in workDir with extra environment.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workDir string, env []string) (string, error) {
	cmd := exec.CommandContext(ctx, "go", "test", "./...")
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), env...)

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	return out.String(), err
}

// GoModEdit applies 'go mod edit' arguments in workDir.
func (a *LocalTestRunnerAdapter) GoModEdit(ctx context.Context, workDir string, args ...string) error {
	return a.runGo(ctx, workDir, append([]string{"mod", "edit"}, args...)...)
}

// GoModTidy runs 'go mod tidy' in workDir.
func (a *LocalTestRunnerAdapter) GoModTidy(ctx context.Context, workDir string) error {
	return a.runGo(ctx, workDir, "mod", "tidy")
}

func (a *LocalTestRunnerAdapter) runGo(ctx context.Context, workDir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = workDir

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go %s: %w: %s", args[0], err, out.String())
	}

	return nil
}
