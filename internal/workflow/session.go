package workflow

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/dependencies"
	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/remotes"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
	"github.com/temirov/ghflow/internal/utils"
)

// SessionSettings describes the collaborators a workflow command resolves.
type SessionSettings struct {
	Logger               *zap.Logger
	GitExecutor          sequence.GitExecutor
	Prompter             ui.ConfirmationPrompter
	HumanReadableLogging bool
	ColorOutput          bool
	RemotesConfiguration remotes.CommandConfiguration
}

// Session bundles the helper and executor for one command invocation.
type Session struct {
	Helper   *gitflow.Helper
	Executor *Executor
}

// NewSession wires a Session against the repository recorded in the command
// context, writing results to the command output.
func NewSession(command *cobra.Command, settings SessionSettings) (*Session, error) {
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	repositoryPath, _ := utils.NewCommandContextAccessor().RepositoryPath(command.Context())

	gitExecutor, executorError := dependencies.ResolveGitExecutor(settings.GitExecutor, logger, settings.HumanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	helper, runner, helperError := dependencies.ResolveHelper(gitExecutor, repositoryPath, logger)
	if helperError != nil {
		return nil, helperError
	}

	resolver, resolverError := remotes.NewURLResolver(runner, settings.RemotesConfiguration, runner.RepositoryPath(), logger)
	if resolverError != nil {
		return nil, resolverError
	}
	ensurer, ensurerError := remotes.NewEnsurer(helper, resolver)
	if ensurerError != nil {
		return nil, ensurerError
	}

	executor, workflowExecutorError := NewExecutor(Dependencies{
		Logger:        logger,
		Printer:       ui.NewStatusPrinter(command.OutOrStdout(), settings.ColorOutput),
		Prompter:      dependencies.ResolvePrompter(settings.Prompter, command.InOrStdin(), command.OutOrStdout()),
		RemoteEnsurer: ensurer,
	})
	if workflowExecutorError != nil {
		return nil, workflowExecutorError
	}

	return &Session{Helper: helper, Executor: executor}, nil
}
