package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	// GIVEN a YAML file setting a subset of fields
	path := writeConfigFile(t, `
sync_period: 10
job_threshold: 8
timeout_rate: 0.05
dispatcher: weighted
`)

	// WHEN loaded
	cfg, err := LoadConfig(path)

	// THEN set fields override and unset fields keep their defaults
	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.SyncPeriod)
	assert.Equal(t, 8, cfg.JobThreshold)
	assert.Equal(t, "weighted", cfg.Dispatcher)
	if assert.NotNil(t, cfg.TimeoutRate) {
		assert.Equal(t, 0.05, *cfg.TimeoutRate)
	}
	defaults := DefaultConfig()
	assert.Equal(t, defaults.ArrivalRate, cfg.ArrivalRate)
	assert.Equal(t, defaults.Quantum1, cfg.Quantum1)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_UnknownKey_Rejected(t *testing.T) {
	path := writeConfigFile(t, "sync_perod: 10\n")
	_, err := LoadConfig(path)
	assert.Error(t, err, "typos must cause errors")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero sync period", func(c *Config) { c.SyncPeriod = 0 }, "sync_period"},
		{"negative threshold", func(c *Config) { c.JobThreshold = -1 }, "job_threshold"},
		{"zero threshold allowed", func(c *Config) { c.JobThreshold = 0 }, ""},
		{"zero quantum 1", func(c *Config) { c.Quantum1 = 0 }, "rr_quantum_1"},
		{"zero quantum 2", func(c *Config) { c.Quantum2 = 0 }, "rr_quantum_2"},
		{"unknown dispatcher", func(c *Config) { c.Dispatcher = "lottery" }, "dispatcher"},
		{"weighted dispatcher", func(c *Config) { c.Dispatcher = "weighted" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
