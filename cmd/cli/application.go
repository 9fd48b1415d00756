package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/branchsync"
	"github.com/temirov/ghflow/internal/history"
	"github.com/temirov/ghflow/internal/merge"
	"github.com/temirov/ghflow/internal/remotes"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/utils"
	"github.com/temirov/ghflow/internal/utils/flags"
)

const (
	applicationNameConstant                 = "ghflow"
	applicationShortDescriptionConstant     = "Merge pull requests and sync branches through plain git"
	applicationLongDescriptionConstant      = "ghflow drives the git command-line client through fixed command sequences. Every sequence carries recovery commands that restore the original branch and uncommitted changes when a step fails."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	logFileFlagNameConstant                 = "log-file"
	logFileFlagUsageConstant                = "Also write JSON log entries to this file, rotated by size."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagShorthandConstant         = "C"
	repositoryFlagUsageConstant             = "Repository working directory git runs in."
	noColorFlagNameConstant                 = "no-color"
	noColorFlagUsageConstant                = "Disable colored status output."
	defaultRepositoryPathConstant           = "."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant          = commonConfigurationKeyConstant + ".log_file"
	commonCommandTimeoutConfigKeyConstant   = commonConfigurationKeyConstant + ".command_timeout"
	environmentPrefixConstant               = "GHFLOW"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationTimeoutFieldConstant       = "command_timeout"
	configurationRepositoryFieldConstant    = "repository"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	negativeTimeoutTemplateConstant         = "command timeout must not be negative: %s"
	rootCommandInfoMessageConstant          = "ghflow CLI executed"
	rootCommandDebugMessageConstant         = "ghflow CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "ghflow"
	toolsConfigurationKeyConstant           = "tools"
	mergeConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".merge"
	syncConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".sync"
	remotesConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".remotes"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
// CommandTimeout bounds a whole command run; zero disables the limit.
type ApplicationCommonConfiguration struct {
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	LogFile        string        `mapstructure:"log_file"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Merge   merge.CommandConfiguration      `mapstructure:"merge"`
	Sync    branchsync.CommandConfiguration `mapstructure:"sync"`
	Remotes remotes.CommandConfiguration    `mapstructure:"remotes"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	logFileFlagValue       string
	repositoryPath         string
	noColor                bool
	cancelTimeout          context.CancelFunc
	gitExecutor            sequence.GitExecutor
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return newApplication(nil)
}

func newApplication(gitExecutor sequence.GitExecutor) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		gitExecutor:            gitExecutor,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogLevelInfo), utils.LogLevels(), logLevelFlagDescriptionConstant))
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogFormatStructured), utils.LogFormats(), logFormatFlagDescriptionConstant))
	persistentFlags.StringVar(&application.logFileFlagValue, logFileFlagNameConstant, "", logFileFlagUsageConstant)
	persistentFlags.StringVarP(&application.repositoryPath, repositoryFlagNameConstant, repositoryFlagShorthandConstant, defaultRepositoryPathConstant, repositoryFlagUsageConstant)
	persistentFlags.BoolVar(&application.noColor, noColorFlagNameConstant, false, noColorFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	mergeBuilder := merge.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() merge.CommandConfiguration {
			return application.configuration.Tools.Merge
		},
		RemotesConfigurationProvider: application.remotesConfiguration,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorOutputProvider:          application.colorOutputEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	mergeCommand, mergeBuildError := mergeBuilder.Build()
	if mergeBuildError == nil {
		cobraCommand.AddCommand(mergeCommand)
	}

	syncBuilder := branchsync.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() branchsync.CommandConfiguration {
			return application.configuration.Tools.Sync
		},
		RemotesConfigurationProvider: application.remotesConfiguration,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorOutputProvider:          application.colorOutputEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	syncCommand, syncBuildError := syncBuilder.Build()
	if syncBuildError == nil {
		cobraCommand.AddCommand(syncCommand)
	}

	remoteBuilder := remotes.CommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        application.remotesConfiguration,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorOutputProvider:          application.colorOutputEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	remoteCommand, remoteBuildError := remoteBuilder.Build()
	if remoteBuildError == nil {
		cobraCommand.AddCommand(remoteCommand)
	}

	changelogBuilder := history.ChangelogCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	changelogCommand, changelogBuildError := changelogBuilder.Build()
	if changelogBuildError == nil {
		cobraCommand.AddCommand(changelogCommand)
	}

	lastTagBuilder := history.LastTagCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	lastTagCommand, lastTagBuildError := lastTagBuilder.Build()
	if lastTagBuildError == nil {
		cobraCommand.AddCommand(lastTagCommand)
	}

	pullRequestBuilder := history.PullRequestCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		GitExecutor:                  application.gitExecutor,
	}
	pullRequestCommand, pullRequestBuildError := pullRequestBuilder.Build()
	if pullRequestBuildError == nil {
		cobraCommand.AddCommand(pullRequestCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if application.cancelTimeout != nil {
		application.cancelTimeout()
	}
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Commands lists the subcommands registered on the root command.
func (application *Application) Commands() []*cobra.Command {
	return application.rootCommand.Commands()
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:       string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:      string(utils.LogFormatStructured),
		commonLogFileConfigKeyConstant:        "",
		commonCommandTimeoutConfigKeyConstant: time.Duration(0),
	}
	for configurationKey, configurationValue := range merge.DefaultConfigurationValues(mergeConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range branchsync.DefaultConfigurationValues(syncConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range remotes.DefaultConfigurationValues(remotesConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, logFileFlagNameConstant) {
		application.configuration.Common.LogFile = application.logFileFlagValue
	}

	if application.configuration.Common.CommandTimeout < 0 {
		return fmt.Errorf(negativeTimeoutTemplateConstant, application.configuration.Common.CommandTimeout)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(utils.LoggerSettings{
		Level:    utils.LogLevel(application.configuration.Common.LogLevel),
		Format:   utils.LogFormat(application.configuration.Common.LogFormat),
		FilePath: application.configuration.Common.LogFile,
	})
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Duration(configurationTimeoutFieldConstant, application.configuration.Common.CommandTimeout),
		zap.String(configurationRepositoryFieldConstant, application.repositoryPath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, application.repositoryPath)
		if application.configuration.Common.CommandTimeout > 0 {
			updatedContext, application.cancelTimeout = context.WithTimeout(updatedContext, application.configuration.Common.CommandTimeout)
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) remotesConfiguration() remotes.CommandConfiguration {
	return application.configuration.Tools.Remotes
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) colorOutputEnabled() bool {
	return !application.noColor
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
