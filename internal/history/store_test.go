// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/meshint/postcraft/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, status := range []types.RunStatus{types.RunCompleted, types.RunFailed} {
		result := &types.RunResult{
			RunID:     []string{"run-20260830-120000", "run-20260830-130000"}[i],
			Mode:      "local",
			Status:    status,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		result.Stages.Set("quality_control", types.QualityResult{QualityScore: 80 + i})
		if status == types.RunCompleted {
			result.Outputs = &types.FinalOutputs{PackagePath: "/tmp/final_package.zip"}
		}
		if err := s.Record(ctx, result); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].RunID != "run-20260830-130000" {
		t.Errorf("first entry = %s, want newest run", entries[0].RunID)
	}
	if entries[0].Status != string(types.RunFailed) {
		t.Errorf("status = %s", entries[0].Status)
	}
	if entries[1].QualityScore != 80 {
		t.Errorf("quality score = %d, want 80", entries[1].QualityScore)
	}
	if entries[1].PackagePath != "/tmp/final_package.zip" {
		t.Errorf("package path = %s", entries[1].PackagePath)
	}
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result := &types.RunResult{
			RunID:     time.Date(2026, 8, 30, 10+i, 0, 0, 0, time.UTC).Format("run-20060102-150405"),
			Mode:      "local",
			Status:    types.RunCompleted,
			StartedAt: time.Date(2026, 8, 30, 10+i, 0, 0, 0, time.UTC),
			EndedAt:   time.Date(2026, 8, 30, 10+i, 1, 0, 0, time.UTC),
		}
		if err := s.Record(ctx, result); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want 3", len(entries))
	}
}

func TestRecordReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := &types.RunResult{
		RunID:     "run-20260830-120000",
		Mode:      "local",
		Status:    types.RunStarted,
		StartedAt: time.Now().UTC(),
		EndedAt:   time.Now().UTC(),
	}
	if err := s.Record(ctx, result); err != nil {
		t.Fatal(err)
	}
	result.Status = types.RunCompleted
	if err := s.Record(ctx, result); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Status != string(types.RunCompleted) {
		t.Errorf("status = %s, want completed", entries[0].Status)
	}
}
