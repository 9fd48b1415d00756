package remotes

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/gitrepo"
	"github.com/temirov/ghflow/internal/sequence"
	pathutils "github.com/temirov/ghflow/internal/utils/path"
)

const (
	queryRunnerMissingMessageConstant   = "remote query runner not configured"
	usernameRequiredMessageConstant     = "username is required"
	gitRemoteSubcommandConstant         = "remote"
	gitGetURLSubcommandConstant         = "get-url"
	originRemoteNameConstant            = "origin"
	originUnusableLogMessageConstant    = "origin remote unusable"
	fallbackURLLogMessageConstant       = "building fork URL from configuration"
	logFieldOriginURLConstant           = "origin_url"
	logFieldRepositoryDirectoryConstant = "repository_directory"
)

var (
	// ErrQueryRunnerNotConfigured indicates NewURLResolver received no runner.
	ErrQueryRunnerNotConfigured = errors.New(queryRunnerMissingMessageConstant)
	// ErrUsernameRequired indicates an empty username.
	ErrUsernameRequired = errors.New(usernameRequiredMessageConstant)
)

// QueryRunner runs a single git step and reports its trimmed output.
type QueryRunner interface {
	Run(executionContext context.Context, step sequence.Step) (string, bool)
}

// URLResolver builds the URL of a user's fork of the current repository.
type URLResolver struct {
	runner         QueryRunner
	configuration  CommandConfiguration
	repositoryPath string
	pathResolver   *pathutils.HomeExpander
	logger         *zap.Logger
}

// NewURLResolver constructs a URLResolver for the repository at repositoryPath.
func NewURLResolver(runner QueryRunner, configuration CommandConfiguration, repositoryPath string, logger *zap.Logger) (*URLResolver, error) {
	if runner == nil {
		return nil, ErrQueryRunnerNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLResolver{
		runner:         runner,
		configuration:  configuration.sanitize(),
		repositoryPath: repositoryPath,
		pathResolver:   pathutils.NewHomeExpander(),
		logger:         logger,
	}, nil
}

// ForkURL swaps the owner of the origin URL for username and keeps its protocol.
// When origin is missing or unparsable the URL is assembled from the configured
// host and protocol and the repository directory name.
func (resolver *URLResolver) ForkURL(executionContext context.Context, username string) (string, error) {
	trimmedUsername := strings.TrimSpace(username)
	if len(trimmedUsername) == 0 {
		return "", ErrUsernameRequired
	}

	originURL, originAvailable := resolver.runner.Run(executionContext, sequence.Git(gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, originRemoteNameConstant))
	if originAvailable && len(originURL) > 0 {
		forkURL, forkError := gitrepo.ForkRemoteURL(originURL, trimmedUsername)
		if forkError == nil {
			return forkURL, nil
		}
		resolver.logger.Debug(originUnusableLogMessageConstant, zap.String(logFieldOriginURLConstant, originURL), zap.Error(forkError))
	}

	repositoryDirectory, directoryError := resolver.pathResolver.ResolveDirectory(resolver.repositoryPath)
	if directoryError != nil {
		return "", directoryError
	}
	resolver.logger.Debug(fallbackURLLogMessageConstant, zap.String(logFieldRepositoryDirectoryConstant, repositoryDirectory))

	return gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   gitrepo.ParseRemoteProtocol(resolver.configuration.ProtocolFallback),
		Host:       resolver.configuration.Host,
		Owner:      trimmedUsername,
		Repository: filepath.Base(repositoryDirectory),
	})
}
