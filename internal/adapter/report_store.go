package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "gomu.dev/pkg/gomu/internal/model"
)

// Default file names inside the reports directory.
const (
	ManifestFileName = "mutations.yaml"
	ReportFileName   = "report.yaml"
)

// ReportStore persists and retrieves the mutation manifest emitted by the
// instrumentation pass and the run reports produced by the harness.
type ReportStore interface {
	SaveManifest(ctx context.Context, dir m.Path, mutations []m.Mutation) error
	LoadManifest(ctx context.Context, dir m.Path) ([]m.Mutation, error)
	SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error
	LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error)
}

type reportStore struct{}

// NewReportStore constructs a YAML-backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (rs *reportStore) SaveManifest(ctx context.Context, dir m.Path, mutations []m.Mutation) error {
	return writeYAML(ctx, filepath.Join(string(dir), ManifestFileName), mutations)
}

func (rs *reportStore) LoadManifest(ctx context.Context, dir m.Path) ([]m.Mutation, error) {
	var mutations []m.Mutation
	if err := readYAML(ctx, filepath.Join(string(dir), ManifestFileName), &mutations); err != nil {
		return nil, err
	}

	return mutations, nil
}

func (rs *reportStore) SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error {
	return writeYAML(ctx, filepath.Join(string(dir), ReportFileName), report)
}

func (rs *reportStore) LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error) {
	var report m.RunReport
	if err := readYAML(ctx, filepath.Join(string(dir), ReportFileName), &report); err != nil {
		return m.RunReport{}, err
	}

	return report, nil
}

func writeYAML(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create reports dir: %w", err)
	}

	content, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	return os.WriteFile(path, content, 0o600)
}

func readYAML(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, value); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
