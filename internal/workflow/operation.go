package workflow

import (
	"context"

	"github.com/temirov/ghflow/internal/sequence"
)

// Operation is a multi-step git workflow that can be previewed and run.
type Operation interface {
	// Name identifies the workflow in errors and logs.
	Name() string
	// Description is printed after the status label.
	Description() string
	// Prompt is the confirmation question asked before running.
	Prompt() string
	// SuccessStatus is the label printed when the workflow succeeds.
	SuccessStatus() string
	// Plan inspects the repository and returns the commands Execute would run.
	Plan(executionContext context.Context) (sequence.Plan, error)
	// Execute inspects the repository again and runs the workflow.
	Execute(executionContext context.Context) (sequence.Outcome, error)
}
