package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	zero := 0
	seed := int64(7)

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				DomainSize:       20,
				MaxWalkSize:      6,
				WalkersPerWorker: &zero,
				Workers:          4,
				Seed:             &seed,
				Transport:        "tcp",
				Buffer:           &zero,
				BasePort:         7000,
				DialTimeout:      "2s",
				Peers:            []string{"h:1", "h:2"},
				ReportPath:       "out.json",
				Quiet:            &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{WalkersPerWorker: 3, Buffer: 1},
			expected: Config{
				DomainSize:       20,
				MaxWalkSize:      6,
				WalkersPerWorker: 0,
				Workers:          4,
				Seed:             7,
				Transport:        "tcp",
				Buffer:           0,
				BasePort:         7000,
				DialTimeout:      2 * time.Second,
				Peers:            []string{"h:1", "h:2"},
				ReportPath:       "out.json",
				Quiet:            true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Workers:   8,
				Transport: "tcp",
				Seed:      &seed,
			},
			changed:  map[string]bool{"workers": true, "seed": true},
			initial:  Config{Workers: 2, Seed: 99},
			expected: Config{Workers: 2, Seed: 99, Transport: "tcp"},
		},
		{
			name:       "absent pointers leave defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    Config{Buffer: 1, WalkersPerWorker: 5},
			expected:   Config{Buffer: 1, WalkersPerWorker: 5},
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{DialTimeout: "forever"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, cfg); diff != "" {
				t.Errorf("ApplyFileConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
domain_size = 20
max_walk_size = 6
walkers_per_worker = 0
workers = 4
seed = 11
dial_timeout = "5s"
peers = ["127.0.0.1:7000", "127.0.0.1:7001"]
quiet = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.DomainSize != 20 {
		t.Errorf("DomainSize = %v, want 20", fc.DomainSize)
	}
	if fc.MaxWalkSize != 6 {
		t.Errorf("MaxWalkSize = %v, want 6", fc.MaxWalkSize)
	}
	if fc.WalkersPerWorker == nil || *fc.WalkersPerWorker != 0 {
		t.Errorf("WalkersPerWorker = %v, want 0", fc.WalkersPerWorker)
	}
	if fc.Seed == nil || *fc.Seed != 11 {
		t.Errorf("Seed = %v, want 11", fc.Seed)
	}
	if fc.DialTimeout != "5s" {
		t.Errorf("DialTimeout = %v, want 5s", fc.DialTimeout)
	}
	if len(fc.Peers) != 2 {
		t.Errorf("Peers = %v, want 2 entries", fc.Peers)
	}
	if fc.Buffer != nil {
		t.Errorf("Buffer = %v, want nil", fc.Buffer)
	}
	if fc.Quiet == nil || !*fc.Quiet {
		t.Errorf("Quiet = %v, want true", fc.Quiet)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
workers = 4
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".ringwalk") {
		t.Errorf("DefaultConfigPath() = %v, should contain .ringwalk", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
