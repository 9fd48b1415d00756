package merge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

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
	commandUseConstant                = "merge <username> <pr-number>"
	commandShortDescriptionConstant   = "Merge a pull request from a remote with a rebase and an explicit merge commit"
	commandLongDescriptionConstant    = "merge fetches pull/<pr-number>/head from the remote named after the user, rebases it onto <username>/<target>, merges it with --no-ff, pushes the target branch, and restores the current branch and any uncommitted changes. When a command fails, the temporary branches are removed and the original branch and changes are restored."
	argumentsMessageConstant          = "merge requires a username and a pull request number"
	pullRequestNumberTemplateConstant = "invalid pull request number %q"
	targetFlagNameConstant            = "target"
	targetFlagUsageConstant           = "Branch the pull request is merged into (defaults to the configured target branch)"
	messageFlagNameConstant           = "message"
	messageFlagShorthandConstant      = "m"
	messageFlagUsageConstant          = "Merge commit message (defaults to \"Merge pull request #<pr-number>\")"
	expectedArgumentCountConstant     = 2
)

var errArguments = errors.New(argumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the merge command configuration.
type ConfigurationProvider func() CommandConfiguration

// RemotesConfigurationProvider returns the remote derivation settings used by --ensure-remote.
type RemotesConfigurationProvider func() remotes.CommandConfiguration

// CommandBuilder assembles the merge cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	RemotesConfigurationProvider RemotesConfigurationProvider
	HumanReadableLoggingProvider func() bool
	ColorOutputProvider          func() bool
	GitExecutor                  sequence.GitExecutor
	Prompter                     ui.ConfirmationPrompter
}

// Build constructs the merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		SilenceUsage: true,
		RunE:         builder.run,
	}

	command.Flags().String(targetFlagNameConstant, "", targetFlagUsageConstant)
	command.Flags().StringP(messageFlagNameConstant, messageFlagShorthandConstant, "", messageFlagUsageConstant)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.ExecutionFlagDefinitions{DryRun: true, AssumeYes: true, EnsureRemote: true})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != expectedArgumentCountConstant {
		return errArguments
	}

	username := strings.TrimSpace(arguments[0])
	pullRequestNumber, parseError := strconv.Atoi(strings.TrimSpace(arguments[1]))
	if parseError != nil {
		return fmt.Errorf(pullRequestNumberTemplateConstant, arguments[1])
	}

	configuration := builder.resolveConfiguration()
	targetBranch := configuration.TargetBranch
	if command.Flags().Changed(targetFlagNameConstant) {
		targetBranch, _ = command.Flags().GetString(targetFlagNameConstant)
	}
	message, _ := command.Flags().GetString(messageFlagNameConstant)

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

	operation := &workflow.MergeOperation{
		Runner: session.Helper,
		Request: gitflow.MergeRequest{
			Remote:            username,
			TargetBranch:      targetBranch,
			PullRequestNumber: pullRequestNumber,
			Message:           message,
		},
	}

	runtimeOptions := workflow.RuntimeOptions{DryRun: executionValues.DryRun, AssumeYes: executionValues.AssumeYes}
	if executionValues.EnsureRemote {
		runtimeOptions.EnsureRemote = username
	}
	return session.Executor.Execute(command.Context(), operation, runtimeOptions)
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
