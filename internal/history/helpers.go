package history

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/dependencies"
	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/utils"
)

const (
	noTagsFoundMessageConstant  = "no tags found"
	noMergeFoundMessageConstant = "no merge found"
	outputLineTemplateConstant  = "%s\n"
)

var (
	// ErrNoTagsFound indicates git describe found no tag reachable from HEAD.
	ErrNoTagsFound = errors.New(noTagsFoundMessageConstant)
	// ErrNoMergeFound indicates no merge commit lies between the commit and the branch.
	ErrNoMergeFound = errors.New(noMergeFoundMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveHelper(command *cobra.Command, loggerProvider LoggerProvider, humanReadableLoggingProvider func() bool, existingExecutor sequence.GitExecutor) (*gitflow.Helper, error) {
	logger := resolveLogger(loggerProvider)
	humanReadableLogging := humanReadableLoggingProvider != nil && humanReadableLoggingProvider()

	executor, executorError := dependencies.ResolveGitExecutor(existingExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	repositoryPath, _ := utils.NewCommandContextAccessor().RepositoryPath(command.Context())
	helper, _, helperError := dependencies.ResolveHelper(executor, repositoryPath, logger)
	if helperError != nil {
		return nil, helperError
	}
	return helper, nil
}
