package model

import "time"

// TestStatus represents the verdict for one mutation after a test run.
type TestStatus int

const (
	// Killed indicates the mutation was detected by tests (tests failed).
	Killed TestStatus = iota
	// Survived indicates tests passed while the mutation was active.
	Survived
	// Unreached indicates the mutation's call site was never executed.
	Unreached
	// Errored indicates the test run failed for reasons unrelated to the
	// mutation (build error, timeout of the harness itself).
	Errored
)

// String returns the display name of the status.
func (s TestStatus) String() string {
	switch s {
	case Killed:
		return "killed"
	case Survived:
		return "survived"
	case Unreached:
		return "unreached"
	case Errored:
		return "error"
	}

	return "unknown"
}

// Verdict is the outcome of testing a single mutation.
type Verdict struct {
	Mutation Mutation   `yaml:"mutation"`
	Status   TestStatus `yaml:"status"`
	// Covered reports whether the mutation's call site was reached during
	// the run in which it was active.
	Covered bool `yaml:"covered"`
	// Output holds trailing test output for killed/errored mutations.
	Output string `yaml:"output,omitempty"`
}

// RunReport is the persisted result of one full mutation testing run.
type RunReport struct {
	Root       Path      `yaml:"root"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Score      float64   `yaml:"score"`
	Verdicts   []Verdict `yaml:"verdicts"`
}
