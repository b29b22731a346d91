package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// ReportFileRepository implements ports.ReportRepository using a JSON file.
type ReportFileRepository struct {
	path string
}

// NewReportFileRepository creates a repository writing to path.
func NewReportFileRepository(path string) *ReportFileRepository {
	return &ReportFileRepository{path: path}
}

// Load reads the last saved summary from disk.
// Returns an empty summary and nil error if no report file exists.
func (r *ReportFileRepository) Load(ctx context.Context) (domain.Summary, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Summary{}, nil
		}
		return domain.Summary{}, err
	}

	var summary domain.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return domain.Summary{}, err
	}

	return summary, nil
}

// Save persists the summary atomically (write to temp file, then rename).
func (r *ReportFileRepository) Save(ctx context.Context, summary domain.Summary) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	tmp := r.path + ".tmp"

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}

// Path returns the full path to the report file.
func (r *ReportFileRepository) Path() string {
	return r.path
}
