package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	sim "github.com/mlfq-sim/mlfq-sim/sim"
	"github.com/mlfq-sim/mlfq-sim/sim/trace"
)

var (
	// CLI flags for the run
	seed         int64  // Seed for all random draws
	ticks        int64  // Number of Run() calls
	logLevel     string // Log verbosity level
	configPath   string // Optional YAML scheduler config
	outputURL    string // CSV destination (path or afs URL); empty = no export
	traceLevel   string // Decision trace level
	otelFilePath string // OpenTelemetry span output ("-" = stdout); empty = disabled

	// CLI flags for the scheduler; override the config file when set
	syncPeriod   int64   // Promotion period in ticks
	jobThreshold int     // Promotion quota and occupancy threshold
	arrivalRate  float64 // Poisson mean of the inter-arrival gap
	execRate     float64 // Exponential rate of execution times
	rrQuantum1   int64   // L1 time-slice
	rrQuantum2   int64   // L2 time-slice
	timeoutRate  float64 // Exponential rate of deadlines
	dispatcher   string  // default | weighted
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mlfq-sim",
	Short: "Discrete-event simulator for a multi-level feedback queue scheduler",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the MLFQ simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid scheduler configuration: %v", err)
		}
		if ticks < 0 {
			logrus.Fatalf("--ticks must be non-negative, got %d", ticks)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, decisions", traceLevel)
		}
		logrus.Infof("Scheduler config: %s", describeConfig(*cfg))

		ctx := context.Background()
		shutdown, err := initTracing(ctx, otelFilePath)
		if err != nil {
			logrus.Fatalf("Failed to initialise tracing: %v", err)
		}
		defer flushTraces(ctx, shutdown)

		startTime := time.Now()
		res, err := simulate(ctx, *cfg, runOptions{
			Seed:       seed,
			Ticks:      ticks,
			TraceLevel: trace.TraceLevel(traceLevel),
			OutputURL:  outputURL,
			FS:         afs.New(),
		})
		if err != nil {
			// logrus.Fatal exits without running deferred calls.
			flushTraces(ctx, shutdown)
			logrus.Fatal(describeRunError(err))
		}

		res.Scheduler.Metrics().Print()
		if summary := res.TraceSummary; summary != nil {
			logrus.Infof("Trace: %d promotions, %d dispatches (by level %v), %d demotions, mean admission wait %.2f ticks",
				summary.TotalPromotions, summary.TotalDispatches, summary.DispatchDistribution,
				summary.TotalDemotions, summary.MeanAdmissionWait)
		}
		logrus.Infof("Simulation %s complete in %v.", res.RunID, time.Since(startTime))
	},
}

// runOptions carries the per-run settings that are not part of sim.Config.
type runOptions struct {
	Seed       int64
	Ticks      int64
	TraceLevel trace.TraceLevel
	OutputURL  string
	FS         afs.Service
}

// runResult is what a finished simulation hands back to the caller.
type runResult struct {
	RunID        string
	Scheduler    *sim.Scheduler
	TraceSummary *trace.TraceSummary // nil when tracing is disabled
}

// simulate builds the scheduler, drives it for o.Ticks ticks and exports the records.
func simulate(ctx context.Context, cfg sim.Config, o runOptions) (*runResult, error) {
	runID := uuid.NewString()
	tracer := otel.Tracer("github.com/mlfq-sim/mlfq-sim/cmd")
	ctx, span := tracer.Start(ctx, "simulation.run", oteltrace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int64("run.seed", o.Seed),
		attribute.Int64("run.ticks", o.Ticks),
	))
	defer span.End()

	s, err := sim.NewScheduler(cfg, sim.NewSimulationKey(o.Seed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: o.TraceLevel})
	s.WithTrace(st)

	logrus.Infof("Starting simulation %s: ticks=%d, dispatcher=%s, sync_period=%d, job_threshold=%d, quanta=%d/%d",
		runID, o.Ticks, s.DispatcherName(), cfg.SyncPeriod, cfg.JobThreshold, cfg.Quantum1, cfg.Quantum2)
	for i := int64(0); i < o.Ticks; i++ {
		s.Run()
	}

	m := s.Metrics()
	span.SetAttributes(
		attribute.String("scheduler.dispatcher", s.DispatcherName()),
		attribute.Int("tasks.submitted", m.SubmittedTasks),
		attribute.Int("tasks.completed", m.CompletedTasks),
		attribute.Int("tasks.timed_out", m.TimedOutTasks),
		attribute.Int("tasks.demotions", m.Demotions),
	)

	res := &runResult{RunID: runID, Scheduler: s}
	if st.Enabled() {
		res.TraceSummary = trace.Summarize(st)
	}

	if o.OutputURL != "" {
		if err := export(ctx, tracer, s, runID, cfg, o); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}
	return res, nil
}

// export writes the task records and the run header next to each other.
func export(ctx context.Context, tracer oteltrace.Tracer, s *sim.Scheduler, runID string, cfg sim.Config, o runOptions) error {
	ctx, span := tracer.Start(ctx, "simulation.export", oteltrace.WithAttributes(
		attribute.String("export.url", o.OutputURL),
	))
	defer span.End()

	records := s.Records()
	if err := sim.SaveRecords(ctx, o.FS, o.OutputURL, records); err != nil {
		return err
	}
	header := &sim.RunHeader{
		RunID:      runID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Seed:       o.Seed,
		Ticks:      s.Clock(),
		Dispatcher: s.DispatcherName(),
		Config:     cfg,
		Completed:  len(s.Completed()),
		Resident:   len(records) - len(s.Completed()),
	}
	headerURL := headerURLFor(o.OutputURL)
	if err := sim.SaveRunHeader(ctx, o.FS, headerURL, header); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("export.records", len(records)))
	logrus.Infof("Wrote %d task records to %s (header %s)", len(records), o.OutputURL, headerURL)
	return nil
}

// describeRunError turns a simulate error into the message the CLI exits with.
func describeRunError(err error) string {
	switch {
	case errors.Is(err, sim.ErrArrivalRateTooSmall):
		return fmt.Sprintf("--arrival-rate should be positive: %v", err)
	case errors.Is(err, sim.ErrServiceRateTooSmall):
		return fmt.Sprintf("--exec-rate and --timeout-rate should be positive: %v", err)
	default:
		return fmt.Sprintf("Simulation failed: %v", err)
	}
}

// flushTraces runs the tracing shutdown, logging rather than returning its error.
func flushTraces(ctx context.Context, shutdown func(context.Context) error) {
	if err := shutdown(ctx); err != nil {
		logrus.Warnf("Failed to flush traces: %v", err)
	}
}

// headerURLFor derives the run header location from the records location:
// "out/run.csv" becomes "out/run.yaml".
func headerURLFor(recordsURL string) string {
	ext := path.Ext(recordsURL)
	if ext == ".yaml" {
		return recordsURL + ".header.yaml"
	}
	return strings.TrimSuffix(recordsURL, ext) + ".yaml"
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags attaches the run flags to cmd.
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultConfig()

	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival, service, timeout, priority and dispatch draws")
	cmd.Flags().Int64Var(&ticks, "ticks", 1000, "Number of ticks to simulate")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML scheduler configuration; flags override its values")
	cmd.Flags().StringVar(&outputURL, "output", "", "Destination of the task records CSV (path or afs URL); a run header YAML is written beside it")
	cmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	cmd.Flags().StringVar(&otelFilePath, "otel-trace-file", "", "Write OpenTelemetry spans to this file (\"-\" for stdout)")

	// Scheduler configs
	cmd.Flags().Int64Var(&syncPeriod, "sync-period", defaults.SyncPeriod, "Promotion period in ticks")
	cmd.Flags().IntVar(&jobThreshold, "job-threshold", defaults.JobThreshold, "Tasks promoted per sync when the levels hold fewer than this")
	cmd.Flags().Float64Var(&arrivalRate, "arrival-rate", defaults.ArrivalRate, "Poisson mean of the inter-arrival gap (ticks)")
	cmd.Flags().Float64Var(&execRate, "exec-rate", defaults.ExecRate, "Exponential rate of task execution times")
	cmd.Flags().Int64Var(&rrQuantum1, "rr-quantum-1", defaults.Quantum1, "L1 round-robin time-slice (ticks)")
	cmd.Flags().Int64Var(&rrQuantum2, "rr-quantum-2", defaults.Quantum2, "L2 round-robin time-slice (ticks)")
	cmd.Flags().Float64Var(&timeoutRate, "timeout-rate", 0, "Exponential rate of task deadlines (unset = no deadlines)")
	cmd.Flags().StringVar(&dispatcher, "dispatcher", "default", "Dispatch strategy (default, weighted)")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

// describeConfig renders cfg for log lines.
func describeConfig(cfg sim.Config) string {
	timeout := "none"
	if cfg.TimeoutRate != nil {
		timeout = fmt.Sprint(*cfg.TimeoutRate)
	}
	return fmt.Sprintf("sync_period=%d job_threshold=%d arrival_rate=%v exec_rate=%v quanta=%d/%d timeout_rate=%s dispatcher=%q",
		cfg.SyncPeriod, cfg.JobThreshold, cfg.ArrivalRate, cfg.ExecRate, cfg.Quantum1, cfg.Quantum2, timeout, cfg.Dispatcher)
}
