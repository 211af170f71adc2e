package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
)

// Runner executes steps in order, feeding each step the previous output.
// The first failure stops the run and every later step is marked skipped.
type Runner struct {
	logger    *zap.Logger
	observers []func(Event)
	now       func() time.Time
}

// NewRunner creates a new pipeline runner
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		logger: logger,
		now:    time.Now,
	}
}

// Observe registers fn to receive every lifecycle event. Observers are called
// synchronously and must not block.
func (r *Runner) Observe(fn func(Event)) {
	r.observers = append(r.observers, fn)
}

// Run executes steps with input as the first step's input
func (r *Runner) Run(ctx context.Context, runID string, steps []Step, input string) *Run {
	run := &Run{
		ID:        runID,
		State:     RunStateStarted,
		Steps:     make([]StepExecution, len(steps)),
		StartedAt: r.now(),
	}
	for i, step := range steps {
		run.Steps[i] = StepExecution{ID: step.ID(), State: StepStatePending}
	}

	r.emit(Event{RunID: runID, Type: EventRunStarted, Timestamp: run.StartedAt})
	run.State = RunStateRunning

	current := input
	failedAt := -1
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			run.Steps[i].State = StepStateFailed
			run.Steps[i].Err = domain.NewStageError(step.ID(), domain.KindTransport, "", "", err)
			failedAt = i
			break
		}

		output, err := r.executeStep(ctx, run, i, step, current)
		if err != nil {
			r.logger.Error("Step failed",
				zap.String("runID", runID),
				zap.String("stepID", string(step.ID())),
				zap.Error(err))
			failedAt = i
			break
		}
		current = output
	}

	if failedAt >= 0 {
		r.skipRemaining(run, steps, failedAt)
		r.finish(run, RunStateFailed, EventRunFailed)
		return run
	}

	r.finish(run, RunStateCompleted, EventRunCompleted)
	return run
}

func (r *Runner) executeStep(ctx context.Context, run *Run, index int, step Step, input string) (string, error) {
	exec := &run.Steps[index]
	exec.State = StepStateRunning

	started := r.now()
	exec.StartedAt = &started
	r.emit(Event{RunID: run.ID, StepID: step.ID(), Type: EventStepStarted, Timestamp: started})

	result := step.Execute(ctx, input)

	completed := r.now()
	exec.CompletedAt = &completed

	if result.Err != nil {
		exec.State = StepStateFailed
		exec.Err = result.Err
		r.emit(Event{
			RunID:     run.ID,
			StepID:    step.ID(),
			Type:      EventStepFailed,
			Timestamp: completed,
			Error:     result.Err.Error(),
		})
		return "", result.Err
	}

	exec.State = StepStateCompleted
	exec.Output = result.Output
	exec.Passthrough = result.Passthrough
	r.emit(Event{RunID: run.ID, StepID: step.ID(), Type: EventStepCompleted, Timestamp: completed})

	r.logger.Info("Step completed",
		zap.String("runID", run.ID),
		zap.String("stepID", string(step.ID())),
		zap.Bool("passthrough", result.Passthrough),
		zap.Duration("duration", exec.Duration()))

	return result.Output, nil
}

// skipRemaining marks every step after failedAt as skipped
func (r *Runner) skipRemaining(run *Run, steps []Step, failedAt int) {
	for i := failedAt + 1; i < len(steps); i++ {
		stage := steps[i].ID()
		run.Steps[i].State = StepStateSkipped
		run.Steps[i].Err = domain.NewStageError(stage, domain.KindSkipped, "", "",
			fmt.Errorf("%s failed: %w", steps[failedAt].ID(), domain.ErrStageSkipped))

		r.emit(Event{RunID: run.ID, StepID: stage, Type: EventStepSkipped, Timestamp: r.now()})
	}
}

func (r *Runner) finish(run *Run, state RunState, eventType string) {
	now := r.now()
	run.State = state
	run.CompletedAt = &now

	r.emit(Event{RunID: run.ID, Type: eventType, Timestamp: now})
	r.logger.Info("Pipeline run finished",
		zap.String("runID", run.ID),
		zap.String("state", string(state)),
		zap.Duration("duration", now.Sub(run.StartedAt)))
}

func (r *Runner) emit(event Event) {
	for _, fn := range r.observers {
		fn(event)
	}
}
