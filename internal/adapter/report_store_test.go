package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	m "gomu.dev/pkg/gomu/internal/model"
)

func TestReportStore_ManifestRoundTrip(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(t.TempDir())

	mutations := []m.Mutation{
		{
			ID: 1,
			Meta: m.MutationMeta{
				Function:   "AreEqual",
				Family:     m.FamilyBinopEq,
				OriginalOp: "==",
				MutatedOp:  "!=",
				File:       "pkg/compare.go",
				Line:       12,
				Column:     9,
				Base:       1,
			},
		},
		{
			ID: 2,
			Meta: m.MutationMeta{
				Family:     m.FamilyBinopArith,
				OriginalOp: "+",
				MutatedOp:  "-",
				File:       "pkg/calc.go",
				Line:       4,
				Column:     10,
				Base:       2,
			},
		},
	}

	require.NoError(t, store.SaveManifest(context.Background(), dir, mutations))

	loaded, err := store.LoadManifest(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, mutations, loaded)
}

func TestReportStore_ReportRoundTrip(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(t.TempDir())

	report := m.RunReport{
		Root:       "/src/project",
		StartedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 1, 12, 5, 0, 0, time.UTC),
		Score:      0.75,
		Verdicts: []m.Verdict{
			{
				Mutation: m.Mutation{ID: 1, Meta: m.MutationMeta{OriginalOp: "==", MutatedOp: "!=", Base: 1}},
				Status:   m.Killed,
				Covered:  true,
				Output:   "--- FAIL: TestAreEqual",
			},
			{
				Mutation: m.Mutation{ID: 2, Meta: m.MutationMeta{OriginalOp: "+", MutatedOp: "-", Base: 2}},
				Status:   m.Survived,
				Covered:  true,
			},
		},
	}

	require.NoError(t, store.SaveReport(context.Background(), dir, report))

	loaded, err := store.LoadReport(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, report, loaded)
}

func TestReportStore_CreatesReportsDir(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "nested", "reports"))

	require.NoError(t, store.SaveManifest(context.Background(), dir, nil))

	_, err := store.LoadManifest(context.Background(), dir)
	require.NoError(t, err)
}

func TestReportStore_LoadMissing(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(t.TempDir())

	_, err := store.LoadManifest(context.Background(), dir)
	require.Error(t, err)

	_, err = store.LoadReport(context.Background(), dir)
	require.Error(t, err)
}

func TestReportStore_CancelledContext(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, store.SaveManifest(ctx, dir, nil))

	_, err := store.LoadReport(ctx, dir)
	require.Error(t, err)
}
