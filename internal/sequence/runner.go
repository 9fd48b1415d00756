package sequence

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	sequenceStartedLogMessageConstant           = "command sequence started"
	sequenceSucceededLogMessageConstant         = "command sequence succeeded"
	sequenceStepFailedLogMessageConstant        = "command sequence step failed; running recovery"
	recoveryStepFailedLogMessageConstant        = "recovery command failed"
	recoveryCompletedLogMessageConstant         = "recovery completed"
	logFieldCommandCountConstant                = "command_count"
	logFieldRecoveryCountConstant               = "recovery_count"
	logFieldFailedIndexConstant                 = "failed_index"
	logFieldCommandConstant                     = "command"
	logFieldRecoveryFailureCountConstant        = "recovery_failures"
	logFieldRepositoryPathConstant              = "repository_path"
	noFailedStepIndexConstant                   = -1
)

// ErrGitExecutorNotConfigured indicates NewRunner received a nil executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the runner.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Outcome reports how a Plan ran. Succeeded is the contract callers rely on;
// the remaining fields describe the failure when there was one.
type Outcome struct {
	Succeeded        bool
	FailedIndex      int
	FailedStep       Step
	Output           string
	Failure          error
	RecoveryFailures []Step
}

// Runner executes git steps inside one repository.
type Runner struct {
	executor       GitExecutor
	repositoryPath string
	logger         *zap.Logger
}

// NewRunner constructs a Runner bound to repositoryPath. An empty path means the current directory.
func NewRunner(executor GitExecutor, repositoryPath string, logger *zap.Logger) (*Runner, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{executor: executor, repositoryPath: strings.TrimSpace(repositoryPath), logger: logger}, nil
}

// RepositoryPath returns the directory commands run in.
func (runner *Runner) RepositoryPath() string {
	return runner.repositoryPath
}

// Run executes a single step and returns its trimmed standard output.
// The boolean is false when the command could not run or exited non-zero,
// which keeps "failed" distinct from "succeeded with empty output".
func (runner *Runner) Run(executionContext context.Context, step Step) (string, bool) {
	output, executionError := runner.Output(executionContext, step)
	return output, executionError == nil
}

// Output executes a single step and returns its trimmed standard output, or the
// execution error when the command could not run or exited non-zero.
func (runner *Runner) Output(executionContext context.Context, step Step) (string, error) {
	executionResult, executionError := runner.execute(executionContext, step, false)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Lookup behaves like Run for existence checks, where a non-zero exit is the
// ordinary "absent" answer and is logged at debug level only.
func (runner *Runner) Lookup(executionContext context.Context, step Step) (string, bool) {
	executionResult, executionError := runner.execute(executionContext, step, true)
	if executionError != nil {
		return "", false
	}
	return strings.TrimSpace(executionResult.StandardOutput), true
}

// RunSequence executes plan.Commands in order and stops at the first failure.
// After a failure every recovery command runs exactly once, in order, and its
// own result is only recorded. Recovery commands are untouched on success.
// Recovery ignores cancellation of executionContext, so a timeout that stops
// the main list still restores the repository.
func (runner *Runner) RunSequence(executionContext context.Context, plan Plan) Outcome {
	runner.logger.Debug(
		sequenceStartedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, runner.repositoryPath),
		zap.Int(logFieldCommandCountConstant, len(plan.Commands)),
		zap.Int(logFieldRecoveryCountConstant, len(plan.RecoveryCommands)),
	)

	for stepIndex, step := range plan.Commands {
		_, executionError := runner.execute(executionContext, step, false)
		if executionError == nil {
			continue
		}

		outcome := Outcome{
			Succeeded:   false,
			FailedIndex: stepIndex,
			FailedStep:  step,
			Output:      describeFailureOutput(executionError),
			Failure:     executionError,
		}
		runner.logger.Warn(
			sequenceStepFailedLogMessageConstant,
			zap.Int(logFieldFailedIndexConstant, stepIndex),
			zap.String(logFieldCommandConstant, step.String()),
			zap.Error(executionError),
		)
		outcome.RecoveryFailures = runner.recover(context.WithoutCancel(executionContext), plan.RecoveryCommands)
		return outcome
	}

	runner.logger.Debug(sequenceSucceededLogMessageConstant, zap.Int(logFieldCommandCountConstant, len(plan.Commands)))
	return Outcome{Succeeded: true, FailedIndex: noFailedStepIndexConstant}
}

func (runner *Runner) recover(executionContext context.Context, recoverySteps []Step) []Step {
	var recoveryFailures []Step
	for _, recoveryStep := range recoverySteps {
		if _, recoveryError := runner.execute(executionContext, recoveryStep, false); recoveryError != nil {
			recoveryFailures = append(recoveryFailures, recoveryStep)
			runner.logger.Warn(
				recoveryStepFailedLogMessageConstant,
				zap.String(logFieldCommandConstant, recoveryStep.String()),
				zap.Error(recoveryError),
			)
		}
	}
	runner.logger.Info(recoveryCompletedLogMessageConstant, zap.Int(logFieldRecoveryFailureCountConstant, len(recoveryFailures)))
	return recoveryFailures
}

func (runner *Runner) execute(executionContext context.Context, step Step, failureExpected bool) (execshell.ExecutionResult, error) {
	details := execshell.CommandDetails{
		Arguments:            append([]string{}, step.Arguments...),
		WorkingDirectory:     runner.repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant},
		FailureExpected:      failureExpected,
	}
	return runner.executor.ExecuteGit(executionContext, details)
}

func describeFailureOutput(executionError error) string {
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		if standardError := strings.TrimSpace(failedError.Result.StandardError); len(standardError) > 0 {
			return standardError
		}
		return strings.TrimSpace(failedError.Result.StandardOutput)
	}
	return executionError.Error()
}
