package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Pointer fields distinguish an explicit zero from an absent key.
type FileConfig struct {
	DomainSize       int      `toml:"domain_size"`
	MaxWalkSize      int      `toml:"max_walk_size"`
	WalkersPerWorker *int     `toml:"walkers_per_worker"`
	Workers          int      `toml:"workers"`
	Seed             *int64   `toml:"seed"`
	Transport        string   `toml:"transport"`
	Buffer           *int     `toml:"buffer"`
	ListenHost       string   `toml:"listen_host"`
	BasePort         int      `toml:"base_port"`
	DialTimeout      string   `toml:"dial_timeout"`
	Peers            []string `toml:"peers"`
	MetricsAddr      string   `toml:"metrics_addr"`
	ReportPath       string   `toml:"report"`
	LogLevel         string   `toml:"log_level"`
	Quiet            *bool    `toml:"quiet"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.ringwalk/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ringwalk", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("domain-size", fc.DomainSize, &cfg.DomainSize)
	s.setInt("max-walk-size", fc.MaxWalkSize, &cfg.MaxWalkSize)
	s.setIntPtr("walkers-per-worker", fc.WalkersPerWorker, &cfg.WalkersPerWorker)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt64Ptr("seed", fc.Seed, &cfg.Seed)

	s.setString("transport", fc.Transport, &cfg.Transport)
	s.setIntPtr("buffer", fc.Buffer, &cfg.Buffer)
	s.setString("listen-host", fc.ListenHost, &cfg.ListenHost)
	s.setInt("base-port", fc.BasePort, &cfg.BasePort)
	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}
	s.setStrings("peers", fc.Peers, &cfg.Peers)

	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("report", fc.ReportPath, &cfg.ReportPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("quiet", fc.Quiet, &cfg.Quiet)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
