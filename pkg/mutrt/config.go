package mutrt

import (
	"os"
	"strconv"
	"sync"
)

// Environment variables read by the default runtime configuration. The test
// harness sets them before launching the instrumented test binary.
const (
	// EnvActiveMutation selects the single active mutation identifier for
	// the whole run. Unset or unparsable means no mutation is active.
	EnvActiveMutation = "GOMU_ACTIVE_MUTATION"
	// EnvCoverageFile names the file that receives one identifier per line
	// as call sites are first reached.
	EnvCoverageFile = "GOMU_COVERAGE_FILE"
)

// Config is the process-wide runtime configuration consulted at every
// rewritten call site. The active mutation is fixed before the run starts
// and read-only afterwards; the coverage map is the only mutable state.
type Config struct {
	active    uint32
	hasActive bool
	coverage  *Coverage
}

var (
	defaultOnce   sync.Once
	defaultConfig *Config
)

// Default returns the configuration for the current process, built once
// from the environment. Instrumented code calls this at every site.
func Default() *Config {
	defaultOnce.Do(func() {
		defaultConfig = fromEnv()
	})

	return defaultConfig
}

func fromEnv() *Config {
	cfg := &Config{coverage: newCoverage(os.Getenv(EnvCoverageFile))}

	raw, ok := os.LookupEnv(EnvActiveMutation)
	if !ok {
		return cfg
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return cfg
	}

	cfg.active = uint32(id)
	cfg.hasActive = true

	return cfg
}

// WithoutMutation returns a configuration with no active mutation and a
// fresh in-memory coverage map.
func WithoutMutation() *Config {
	return &Config{coverage: newCoverage("")}
}

// WithMutation returns a configuration in which the given mutation is
// active, with a fresh in-memory coverage map.
func WithMutation(id uint32) *Config {
	return &Config{active: id, hasActive: true, coverage: newCoverage("")}
}

// Coverage exposes the configuration's coverage map.
func (c *Config) Coverage() *Coverage {
	return c.coverage
}

// covered marks the call site's base identifier as reached. Called
// unconditionally, whether or not any mutation is active.
func (c *Config) covered(id uint32) {
	c.coverage.Mark(id)
}

// mutation reports whether the active mutation falls inside the block
// [base, base+count) and, if so, its offset within the block. Any other
// active identifier, including one unknown to the registry entirely, is
// answered with ok=false so the caller falls back to original semantics.
func (c *Config) mutation(base uint32, count int) (int, bool) {
	if !c.hasActive || count <= 0 {
		return 0, false
	}

	if c.active < base || c.active >= base+uint32(count) {
		return 0, false
	}

	return int(c.active - base), true
}
