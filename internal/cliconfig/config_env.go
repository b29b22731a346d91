package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (RINGWALK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("workers", os.Getenv("RINGWALK_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv("RINGWALK_SEED"), &cfg.Seed); err != nil {
		return err
	}

	s.setString("transport", os.Getenv("RINGWALK_TRANSPORT"), &cfg.Transport)
	if err := s.setIntFromString("buffer", os.Getenv("RINGWALK_BUFFER"), &cfg.Buffer); err != nil {
		return err
	}
	s.setString("listen-host", os.Getenv("RINGWALK_LISTEN_HOST"), &cfg.ListenHost)
	if err := s.setIntFromString("base-port", os.Getenv("RINGWALK_BASE_PORT"), &cfg.BasePort); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", os.Getenv("RINGWALK_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	s.setListFromString("peers", os.Getenv("RINGWALK_PEERS"), &cfg.Peers)

	s.setString("metrics-addr", os.Getenv("RINGWALK_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("report", os.Getenv("RINGWALK_REPORT"), &cfg.ReportPath)
	s.setString("log-level", os.Getenv("RINGWALK_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("quiet", os.Getenv("RINGWALK_QUIET"), &cfg.Quiet)

	return nil
}
