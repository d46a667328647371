package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mlfq-sim/mlfq-sim/sim"
)

// resolveConfig layers the scheduler configuration: built-in defaults, then the
// --config YAML file (strict), then every scheduler flag the user set explicitly.
// Flags left at their defaults never overwrite file values.
func resolveConfig(cmd *cobra.Command) (*sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
		logrus.Infof("Loaded scheduler config from %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("sync-period") {
		cfg.SyncPeriod = syncPeriod
	}
	if flags.Changed("job-threshold") {
		cfg.JobThreshold = jobThreshold
	}
	if flags.Changed("arrival-rate") {
		cfg.ArrivalRate = arrivalRate
	}
	if flags.Changed("exec-rate") {
		cfg.ExecRate = execRate
	}
	if flags.Changed("rr-quantum-1") {
		cfg.Quantum1 = rrQuantum1
	}
	if flags.Changed("rr-quantum-2") {
		cfg.Quantum2 = rrQuantum2
	}
	if flags.Changed("timeout-rate") {
		rate := timeoutRate
		cfg.TimeoutRate = &rate
	}
	if flags.Changed("dispatcher") {
		cfg.Dispatcher = dispatcher
	}
	if !sim.IsValidDispatcher(cfg.Dispatcher) {
		return nil, fmt.Errorf("unknown dispatcher %q; valid: default, weighted", cfg.Dispatcher)
	}
	return &cfg, nil
}
