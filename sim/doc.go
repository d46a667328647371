// Package sim provides the tick-driven simulation engine for a multi-level
// feedback queue (MLFQ) scheduler.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - task.go: Task lifecycle (Ready → Finished | TimedOut) and export records
//   - context.go: ExecContext, one dispatch turn (bounded quantum or run-to-completion)
//   - scheduler.go: the per-tick loop (arrival, promotion, dispatch, execution, demotion)
//
// # Architecture
//
// Tasks arrive from a JobSource into the AdmissionQueue (priority heap). Every
// sync period a fixed quota is promoted into L1. Levels L1 and L2 are
// round-robin queues with their own quanta; L3 runs tasks to completion. A
// turn that exhausts its quantum demotes the task one level.
//
// Sub-packages:
//   - sim/trace/: decision trace recording (promotions, dispatches, demotions, completions)
//
// # Key Interfaces
//
//   - JobSource: new task definitions per tick (JobCreator samples Poisson/exponential)
//   - LevelQueue: a feedback level producing the ExecContext of its discipline
//   - Dispatcher: selects which level to service when the running slot is empty
package sim
