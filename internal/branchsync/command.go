package branchsync

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/remotes"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
	"github.com/temirov/ghflow/internal/utils/flags"
	"github.com/temirov/ghflow/internal/workflow"
)

const (
	commandUseConstant              = "sync <username> <branch>"
	commandShortDescriptionConstant = "Update a branch from a contributor remote and push it"
	commandLongDescriptionConstant  = "sync rebases <branch> onto <username>/<branch>, or creates it from there when it does not exist locally, then pushes it to --remote and fetches that remote. The current branch and any uncommitted changes are restored afterwards, also when a command fails."
	argumentsMessageConstant        = "sync requires a username and a branch"
	remoteFlagNameConstant          = "remote"
	remoteFlagUsageConstant         = "Remote the branch is pushed to (defaults to the configured remote)"
	expectedArgumentCountConstant   = 2
)

var errArguments = errors.New(argumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the sync command configuration.
type ConfigurationProvider func() CommandConfiguration

// RemotesConfigurationProvider returns the remote derivation settings used by --ensure-remote.
type RemotesConfigurationProvider func() remotes.CommandConfiguration

// CommandBuilder assembles the sync cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	RemotesConfigurationProvider RemotesConfigurationProvider
	HumanReadableLoggingProvider func() bool
	ColorOutputProvider          func() bool
	GitExecutor                  sequence.GitExecutor
	Prompter                     ui.ConfirmationPrompter
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		SilenceUsage: true,
		RunE:         builder.run,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.ExecutionFlagDefinitions{DryRun: true, AssumeYes: true, EnsureRemote: true})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != expectedArgumentCountConstant {
		return errArguments
	}

	configuration := builder.resolveConfiguration()
	remote := configuration.Remote
	if command.Flags().Changed(remoteFlagNameConstant) {
		remote, _ = command.Flags().GetString(remoteFlagNameConstant)
	}

	executionValues := flags.ReadExecutionFlags(command, flags.ExecutionDefaults{
		AssumeYes:    configuration.AssumeYes,
		EnsureRemote: configuration.EnsureRemote,
	})

	session, sessionError := workflow.NewSession(command, workflow.SessionSettings{
		Logger:               builder.resolveLogger(),
		GitExecutor:          builder.GitExecutor,
		Prompter:             builder.Prompter,
		HumanReadableLogging: builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider(),
		ColorOutput:          builder.ColorOutputProvider != nil && builder.ColorOutputProvider(),
		RemotesConfiguration: builder.resolveRemotesConfiguration(),
	})
	if sessionError != nil {
		return sessionError
	}

	request, validationError := gitflow.SyncRequest{Username: arguments[0], Branch: arguments[1], Remote: remote}.Normalize()
	if validationError != nil {
		return validationError
	}

	runtimeOptions := workflow.RuntimeOptions{DryRun: executionValues.DryRun, AssumeYes: executionValues.AssumeYes}
	if executionValues.EnsureRemote {
		runtimeOptions.EnsureRemote = request.Username
	}
	return session.Executor.Execute(command.Context(), &workflow.SyncOperation{Runner: session.Helper, Request: request}, runtimeOptions)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveRemotesConfiguration() remotes.CommandConfiguration {
	if builder.RemotesConfigurationProvider == nil {
		return remotes.DefaultCommandConfiguration()
	}
	return builder.RemotesConfigurationProvider()
}
