package pipeline

import (
	"context"
	"time"

	"github.com/satriahrh/scanspeak/server/domain"
)

// RunState represents the current state of a pipeline run
type RunState string

const (
	RunStateStarted   RunState = "started"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// StepState represents the state of an individual step
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateRunning   StepState = "running"
	StepStateCompleted StepState = "completed"
	StepStateFailed    StepState = "failed"
	StepStateSkipped   StepState = "skipped"
)

// StepResult is what a step hands back to the runner
type StepResult struct {
	Output string
	// Passthrough means the step returned its input without calling a collaborator
	Passthrough bool
	Err         error
}

// Step is a single stage of the pipeline. Each step receives the output of the
// previous one.
type Step interface {
	ID() domain.Stage
	Execute(ctx context.Context, input string) StepResult
}

// StepFunc adapts a plain function to the Step interface
type StepFunc struct {
	Stage domain.Stage
	Fn    func(ctx context.Context, input string) StepResult
}

func (s StepFunc) ID() domain.Stage { return s.Stage }

func (s StepFunc) Execute(ctx context.Context, input string) StepResult {
	return s.Fn(ctx, input)
}

// Run is one execution of a list of steps
type Run struct {
	ID          string          `json:"id"`
	State       RunState        `json:"state"`
	Steps       []StepExecution `json:"steps"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Step returns the execution record for a stage
func (r *Run) Step(id domain.Stage) (StepExecution, bool) {
	for _, exec := range r.Steps {
		if exec.ID == id {
			return exec, true
		}
	}
	return StepExecution{}, false
}

// Err returns the error of the step that stopped the run
func (r *Run) Err() error {
	for _, exec := range r.Steps {
		if exec.State == StepStateFailed {
			return exec.Err
		}
	}
	return nil
}

// StepExecution represents the execution state of a step
type StepExecution struct {
	ID          domain.Stage `json:"id"`
	State       StepState    `json:"state"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Output      string       `json:"output,omitempty"`
	Passthrough bool         `json:"passthrough,omitempty"`
	Err         error        `json:"-"`
}

// Duration returns how long the step ran, or zero when it never started
func (e StepExecution) Duration() time.Duration {
	if e.StartedAt == nil || e.CompletedAt == nil {
		return 0
	}
	return e.CompletedAt.Sub(*e.StartedAt)
}

// Event represents an event in the run lifecycle
type Event struct {
	RunID     string       `json:"run_id"`
	StepID    domain.Stage `json:"step_id,omitempty"`
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Error     string       `json:"error,omitempty"`
}

// Event types
const (
	EventRunStarted    = "run_started"
	EventRunCompleted  = "run_completed"
	EventRunFailed     = "run_failed"
	EventStepStarted   = "step_started"
	EventStepCompleted = "step_completed"
	EventStepFailed    = "step_failed"
	EventStepSkipped   = "step_skipped"
)
