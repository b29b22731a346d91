package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/ringwalk/internal/domain"
)

func TestReportFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	repo := NewReportFileRepository(path)
	ctx := context.Background()

	want := domain.Summary{
		DomainSize: 20, MaxWalkSize: 6, WalkersPerWorker: 1,
		Workers: 4, Rounds: 2, Seed: 7, Total: 4, Completed: 4,
		PerWorker: []domain.WorkerStats{
			{Worker: 0, Subdomain: domain.Subdomain{Start: 0, Size: 5}, Rounds: 2, Initiated: 1, Completed: 1},
		},
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestReportFileRepository_LoadMissing(t *testing.T) {
	repo := NewReportFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if got.Total != 0 || got.PerWorker != nil {
		t.Errorf("Load() = %+v, want empty summary", got)
	}
}

func TestReportFileRepository_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewReportFileRepository(path).Load(context.Background()); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}
