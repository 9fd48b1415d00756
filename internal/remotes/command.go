package remotes

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/dependencies"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
	"github.com/temirov/ghflow/internal/utils"
)

const (
	groupUseConstant                      = "remote"
	groupShortDescriptionConstant         = "Manage contributor remotes"
	ensureUseConstant                     = "ensure <username>"
	ensureShortDescriptionConstant        = "Add the remote for a GitHub user when it is missing"
	ensureLongDescriptionConstant         = "ensure adds a remote named after the GitHub user pointing at their fork of the origin repository. Existing remotes are left untouched."
	urlFlagNameConstant                   = "url"
	urlFlagUsageConstant                  = "Remote URL to use instead of the fork URL derived from origin"
	ensureArgumentsMessageConstant        = "ensure requires exactly one username argument"
	commandExecutionErrorTemplateConstant = "remote ensure failed: %w"
	resultMessageTemplateConstant         = "%s %s"
)

var errEnsureArguments = errors.New(ensureArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the remote derivation settings.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the remote command group.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	ColorOutputProvider          func() bool
	GitExecutor                  sequence.GitExecutor
}

// Build constructs the remote command and its ensure subcommand.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
	}

	ensureCommand := &cobra.Command{
		Use:          ensureUseConstant,
		Short:        ensureShortDescriptionConstant,
		Long:         ensureLongDescriptionConstant,
		SilenceUsage: true,
		RunE:         builder.run,
	}
	ensureCommand.Flags().String(urlFlagNameConstant, "", urlFlagUsageConstant)

	groupCommand.AddCommand(ensureCommand)
	return groupCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errEnsureArguments
	}
	explicitURL, _ := command.Flags().GetString(urlFlagNameConstant)

	ensurer, ensurerError := builder.buildEnsurer(command)
	if ensurerError != nil {
		return ensurerError
	}

	result, ensureError := ensurer.Ensure(command.Context(), arguments[0], explicitURL)
	if ensureError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, ensureError)
	}

	printer := ui.NewStatusPrinter(command.OutOrStdout(), builder.colorOutput())
	message := fmt.Sprintf(resultMessageTemplateConstant, result.Remote, result.URL)
	if result.Added {
		printer.Success(ui.StatusAdded, message)
	} else {
		printer.Notice(ui.StatusPresent, message)
	}
	return nil
}

func (builder *CommandBuilder) buildEnsurer(command *cobra.Command) (*Ensurer, error) {
	logger := builder.resolveLogger()
	repositoryPath, _ := utils.NewCommandContextAccessor().RepositoryPath(command.Context())

	executor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
	if executorError != nil {
		return nil, executorError
	}

	helper, runner, helperError := dependencies.ResolveHelper(executor, repositoryPath, logger)
	if helperError != nil {
		return nil, helperError
	}

	resolver, resolverError := NewURLResolver(runner, builder.resolveConfiguration(), runner.RepositoryPath(), logger)
	if resolverError != nil {
		return nil, resolverError
	}
	return NewEnsurer(helper, resolver)
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
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) colorOutput() bool {
	return builder.ColorOutputProvider != nil && builder.ColorOutputProvider()
}
