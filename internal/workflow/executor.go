package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/remotes"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
)

const (
	printerMissingMessageConstant          = "workflow executor requires a status printer"
	prompterMissingMessageConstant         = "workflow executor requires a confirmation prompter"
	remoteEnsurerMissingMessageConstant    = "workflow executor requires a remote ensurer to ensure remotes"
	workflowExecutionErrorTemplateConstant = "%s failed: %w"
	remoteMessageTemplateConstant          = "%s %s"
	declinedLogMessageConstant             = "workflow declined"
	logFieldWorkflowConstant               = "workflow"
)

var (
	// ErrPrinterNotConfigured indicates NewExecutor received no printer.
	ErrPrinterNotConfigured = errors.New(printerMissingMessageConstant)
	// ErrPrompterNotConfigured indicates a confirmation was needed without a prompter.
	ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)
	// ErrRemoteEnsurerNotConfigured indicates EnsureRemote was requested without an ensurer.
	ErrRemoteEnsurerNotConfigured = errors.New(remoteEnsurerMissingMessageConstant)
)

// RemoteEnsurer previews and configures contributor remotes.
type RemoteEnsurer interface {
	Plan(executionContext context.Context, username string, explicitURL string) (remotes.Result, []sequence.Step, error)
	Ensure(executionContext context.Context, username string, explicitURL string) (remotes.Result, error)
}

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger        *zap.Logger
	Printer       *ui.StatusPrinter
	Prompter      ui.ConfirmationPrompter
	RemoteEnsurer RemoteEnsurer
}

// RuntimeOptions captures user-provided execution modifiers. EnsureRemote names
// a remote to add before running; empty skips the check.
type RuntimeOptions struct {
	DryRun       bool
	AssumeYes    bool
	EnsureRemote string
}

// Executor coordinates a single workflow operation.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(dependencies Dependencies) (*Executor, error) {
	if dependencies.Printer == nil {
		return nil, ErrPrinterNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Executor{dependencies: dependencies}, nil
}

// Execute previews, confirms, and runs operation. A declined confirmation is
// not an error. A failed operation prints the failing command and returns the
// operation error.
func (executor *Executor) Execute(executionContext context.Context, operation Operation, runtimeOptions RuntimeOptions) error {
	if len(runtimeOptions.EnsureRemote) > 0 && executor.dependencies.RemoteEnsurer == nil {
		return ErrRemoteEnsurerNotConfigured
	}

	if runtimeOptions.DryRun {
		return executor.preview(executionContext, operation, runtimeOptions)
	}

	if !runtimeOptions.AssumeYes {
		if executor.dependencies.Prompter == nil {
			return ErrPrompterNotConfigured
		}
		confirmed, promptError := executor.dependencies.Prompter.Confirm(operation.Prompt())
		if promptError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), promptError)
		}
		if !confirmed {
			executor.dependencies.Logger.Info(declinedLogMessageConstant, zap.String(logFieldWorkflowConstant, operation.Name()))
			executor.dependencies.Printer.Notice(ui.StatusSkipped, operation.Description())
			return nil
		}
	}

	if len(runtimeOptions.EnsureRemote) > 0 {
		result, ensureError := executor.dependencies.RemoteEnsurer.Ensure(executionContext, runtimeOptions.EnsureRemote, "")
		if ensureError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), ensureError)
		}
		if result.Added {
			executor.dependencies.Printer.Success(ui.StatusAdded, fmt.Sprintf(remoteMessageTemplateConstant, result.Remote, result.URL))
		}
	}

	outcome, executionError := operation.Execute(executionContext)
	if executionError == nil {
		executor.dependencies.Printer.Success(operation.SuccessStatus(), operation.Description())
		return nil
	}

	executor.dependencies.Printer.Failure(ui.StatusFailed, operation.Description())
	if !outcome.Succeeded && len(outcome.FailedStep.Arguments) > 0 {
		recoveryFailures := sequence.Plan{RecoveryCommands: outcome.RecoveryFailures}.RenderRecoveryCommands()
		executor.dependencies.Printer.FailedCommand(outcome.FailedStep.String(), outcome.Output, recoveryFailures)
	}
	return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executionError)
}

func (executor *Executor) preview(executionContext context.Context, operation Operation, runtimeOptions RuntimeOptions) error {
	var remoteSteps []sequence.Step
	if len(runtimeOptions.EnsureRemote) > 0 {
		_, plannedSteps, planError := executor.dependencies.RemoteEnsurer.Plan(executionContext, runtimeOptions.EnsureRemote, "")
		if planError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), planError)
		}
		remoteSteps = plannedSteps
	}

	plan, planError := operation.Plan(executionContext)
	if planError != nil {
		return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), planError)
	}

	previewPlan := sequence.Plan{RecoveryCommands: plan.RecoveryCommands}
	previewPlan.Append(remoteSteps...)
	previewPlan.Append(plan.Commands...)

	executor.dependencies.Printer.Notice(ui.StatusPlanned, operation.Description())
	executor.dependencies.Printer.Plan(previewPlan.RenderCommands(), previewPlan.RenderRecoveryCommands())
	return nil
}
