package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config groups the scheduler parameters. It is loadable from a YAML file;
// CLI flags override individual fields.
type Config struct {
	SyncPeriod   int64    `yaml:"sync_period"`   // promotion runs when clock % SyncPeriod == 0 (must be >= 1)
	JobThreshold int      `yaml:"job_threshold"` // promotion quota and level-occupancy threshold
	ArrivalRate  float64  `yaml:"arrival_rate"`  // Poisson mean of the inter-arrival gap (ticks)
	ExecRate     float64  `yaml:"exec_rate"`     // exponential rate of execution times
	Quantum1     int64    `yaml:"rr_quantum_1"`  // L1 time-slice (ticks)
	Quantum2     int64    `yaml:"rr_quantum_2"`  // L2 time-slice (ticks)
	TimeoutRate  *float64 `yaml:"timeout_rate"`  // exponential rate of deadlines; nil disables deadlines
	Dispatcher   string   `yaml:"dispatcher"`    // "default" (empty) or "weighted"
}

// DefaultConfig returns the parameters used when neither a config file nor flags set them.
func DefaultConfig() Config {
	return Config{
		SyncPeriod:   20,
		JobThreshold: 5,
		ArrivalRate:  2.0,
		ExecRate:     0.1,
		Quantum1:     3,
		Quantum2:     4,
	}
}

// LoadConfig reads and parses a YAML scheduler configuration file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scheduler config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scheduler config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the structural parameters. Rates are checked by NewScheduler,
// which reports them as ErrArrivalRateTooSmall / ErrServiceRateTooSmall.
func (c *Config) Validate() error {
	if c.SyncPeriod < 1 {
		return fmt.Errorf("sync_period must be at least 1, got %d", c.SyncPeriod)
	}
	if c.JobThreshold < 0 {
		return fmt.Errorf("job_threshold must be non-negative, got %d", c.JobThreshold)
	}
	if c.Quantum1 < 1 {
		return fmt.Errorf("rr_quantum_1 must be at least 1, got %d", c.Quantum1)
	}
	if c.Quantum2 < 1 {
		return fmt.Errorf("rr_quantum_2 must be at least 1, got %d", c.Quantum2)
	}
	if !IsValidDispatcher(c.Dispatcher) {
		return fmt.Errorf("unknown dispatcher %q; valid: default, weighted", c.Dispatcher)
	}
	return nil
}
