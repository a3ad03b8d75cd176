package mutrt

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

func TestCoverage_ConcurrentMarks(t *testing.T) {
	cov := newCoverage("")

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// Every worker hits the same ten ids.
			for i := range 100 {
				cov.Mark(uint32(i % 10))
			}
		}()
	}

	wg.Wait()

	got := cov.Snapshot()
	want := []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	if !slices.Equal(got, want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
}

func TestCoverage_SpillsFirstHitsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage")
	cov := newCoverage(path)

	cov.Mark(3)
	cov.Mark(3)
	cov.Mark(12)

	// Each first hit must be on disk the moment Mark returns; a process
	// killed right after a hit may never get another chance to write it.
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading coverage file: %v", err)
	}

	lines := strings.Fields(string(content))
	if !slices.Equal(lines, []string{"3", "12"}) {
		t.Fatalf("coverage file lines = %v, want [3 12]", lines)
	}
}

func TestCoverage_ConcurrentFirstHitsAllSpill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage")
	cov := newCoverage(path)

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 50 {
				cov.Mark(uint32(worker*50 + i))
			}
		}()
	}

	wg.Wait()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading coverage file: %v", err)
	}

	lines := strings.Fields(string(content))
	if len(lines) != 400 {
		t.Fatalf("coverage file holds %d entries, want 400", len(lines))
	}

	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line] {
			t.Fatalf("id %s spilled more than once", line)
		}

		seen[line] = true
	}
}
