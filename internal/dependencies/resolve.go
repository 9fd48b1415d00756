// Package dependencies builds the default collaborators shared by the ghflow commands.
package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/execshell"
	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging installs a console observer that narrates each git command.
func ResolveGitExecutor(existing sequence.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (sequence.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var observer execshell.CommandEventObserver
	if humanReadableLogging {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRunner binds executor to repositoryPath.
func ResolveRunner(executor sequence.GitExecutor, repositoryPath string, logger *zap.Logger) (*sequence.Runner, error) {
	return sequence.NewRunner(executor, repositoryPath, logger)
}

// ResolveHelper constructs a gitflow helper running every command in repositoryPath.
func ResolveHelper(executor sequence.GitExecutor, repositoryPath string, logger *zap.Logger) (*gitflow.Helper, *sequence.Runner, error) {
	runner, runnerError := ResolveRunner(executor, repositoryPath, logger)
	if runnerError != nil {
		return nil, nil, runnerError
	}
	helper, helperError := gitflow.NewHelper(gitflow.Dependencies{Runner: runner, Logger: logger})
	if helperError != nil {
		return nil, nil, helperError
	}
	return helper, runner, nil
}

// ResolvePrompter returns the provided prompter or one reading from input.
func ResolvePrompter(existing ui.ConfirmationPrompter, input io.Reader, output io.Writer) ui.ConfirmationPrompter {
	if existing != nil {
		return existing
	}
	return ui.NewConfirmationPrompter(input, output)
}
