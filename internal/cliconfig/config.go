package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// Transport names accepted by Config.Transport.
const (
	TransportMemory = "memory"
	TransportTCP    = "tcp"
)

// Config holds CLI configuration for ringwalk.
type Config struct {
	DomainSize       int
	MaxWalkSize      int
	WalkersPerWorker int

	Workers int
	Seed    int64

	Transport   string
	Buffer      int
	ListenHost  string
	BasePort    int
	DialTimeout time.Duration

	// Rank and Peers are used by the worker command only.
	Rank  int
	Peers []string

	MetricsAddr string
	ReportPath  string
	LogLevel    string
	Quiet       bool
}

// DefaultConfig returns a Config with default values.
// The seed is time-based so that separate runs differ unless --seed is given.
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		Seed:        time.Now().UnixNano(),
		Transport:   TransportMemory,
		Buffer:      1,
		ListenHost:  "127.0.0.1",
		DialTimeout: 10 * time.Second,
		LogLevel:    "info",
	}
}

// ParseArgs fills the three positional arguments
// (domainSize, maxWalkSize, walkersPerWorker) into cfg.
func ParseArgs(cfg *Config, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: want domainSize maxWalkSize walkersPerWorker, got %d argument(s)", domain.ErrInvalidArgument, len(args))
	}

	names := []string{"domainSize", "maxWalkSize", "walkersPerWorker"}
	dsts := []*int{&cfg.DomainSize, &cfg.MaxWalkSize, &cfg.WalkersPerWorker}
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %s %q is not an integer", domain.ErrInvalidArgument, names[i], arg)
		}
		*dsts[i] = v
	}
	return nil
}

// Validate checks the configuration for errors.
// Malformed values wrap domain.ErrInvalidArgument; a worker count larger than
// the domain wraps domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.DomainSize <= 0 {
		return fmt.Errorf("%w: domainSize must be positive, got %d", domain.ErrInvalidArgument, c.DomainSize)
	}
	if c.MaxWalkSize <= 0 {
		return fmt.Errorf("%w: maxWalkSize must be positive, got %d", domain.ErrInvalidArgument, c.MaxWalkSize)
	}
	if c.WalkersPerWorker < 0 {
		return fmt.Errorf("%w: walkersPerWorker must not be negative, got %d", domain.ErrInvalidArgument, c.WalkersPerWorker)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", domain.ErrInvalidArgument, c.Workers)
	}

	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportMemory, TransportTCP:
	default:
		return fmt.Errorf("%w: unknown transport %q", domain.ErrInvalidArgument, c.Transport)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("%w: buffer must not be negative", domain.ErrInvalidArgument)
	}
	if c.BasePort < 0 || c.BasePort > 65535 {
		return fmt.Errorf("%w: base port %d out of range", domain.ErrInvalidArgument, c.BasePort)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("%w: dial timeout must be positive", domain.ErrInvalidArgument)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidArgument, c.LogLevel)
	}

	return domain.CheckPartition(c.DomainSize, c.Workers)
}

// ValidateWorker checks the extra settings of the single-worker command and
// derives Workers from the peer list.
func (c *Config) ValidateWorker() error {
	if len(c.Peers) == 0 {
		return fmt.Errorf("%w: peers are required", domain.ErrInvalidArgument)
	}
	if c.Rank < 0 || c.Rank >= len(c.Peers) {
		return fmt.Errorf("%w: rank %d out of range [0, %d)", domain.ErrInvalidArgument, c.Rank, len(c.Peers))
	}
	c.Workers = len(c.Peers)
	c.Transport = TransportTCP
	return c.Validate()
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer, so that an explicit zero in a
// file still applies.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt64Ptr is setIntPtr for int64 values.
func (s *configSetter) setInt64Ptr(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setStrings sets a string slice if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero is accepted; negative values are ignored.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setListFromString splits a comma-separated string into dst.
func (s *configSetter) setListFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
