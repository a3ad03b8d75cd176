// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"

	m "gomu.dev/pkg/gomu/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeDiscover StartMode = iota
	ModeTest
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithDiscoverMode sets the UI to discovery mode.
func WithDiscoverMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeDiscover
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// UI defines the interface for displaying mutation testing progress and
// results. Implementations can use different output methods (simple text,
// TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayDiscovery(ctx context.Context, mutations []m.Mutation, err error) error
	DisplayDiff(ctx context.Context, path m.Path, diff string)
	DisplayInstrumented(ctx context.Context, files int, sites int, reports m.Path)
	DisplayBaseline(ctx context.Context, passed bool, coveredSites int)
	DisplayTestProgress(ctx context.Context, current int, total int, mutation m.Mutation)
	DisplayVerdict(ctx context.Context, verdict m.Verdict)
	DisplayScore(ctx context.Context, score float64)
	DisplayReport(ctx context.Context, report m.RunReport) error
}
