package remotes

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
)

const (
	configuratorMissingMessageConstant = "remote configurator not configured"
	resolverMissingMessageConstant     = "remote URL resolver not configured"
)

var (
	// ErrConfiguratorNotConfigured indicates NewEnsurer received no configurator.
	ErrConfiguratorNotConfigured = errors.New(configuratorMissingMessageConstant)
	// ErrResolverNotConfigured indicates NewEnsurer received no resolver.
	ErrResolverNotConfigured = errors.New(resolverMissingMessageConstant)
)

// RemoteConfigurator adds a remote unless it already exists.
type RemoteConfigurator interface {
	RemoteExists(executionContext context.Context, remoteName string) bool
	EnsureRemoteConfiguration(executionContext context.Context, remoteName string, remoteURL string) (bool, error)
}

// ForkURLResolver derives a user's fork URL.
type ForkURLResolver interface {
	ForkURL(executionContext context.Context, username string) (string, error)
}

// Result reports what Ensure did.
type Result struct {
	Remote string
	URL    string
	Added  bool
}

// Ensurer configures the remote named after a GitHub user.
type Ensurer struct {
	configurator RemoteConfigurator
	resolver     ForkURLResolver
}

// NewEnsurer constructs an Ensurer.
func NewEnsurer(configurator RemoteConfigurator, resolver ForkURLResolver) (*Ensurer, error) {
	if configurator == nil {
		return nil, ErrConfiguratorNotConfigured
	}
	if resolver == nil {
		return nil, ErrResolverNotConfigured
	}
	return &Ensurer{configurator: configurator, resolver: resolver}, nil
}

// Plan reports what Ensure would do without changing the repository. The
// returned steps hold the remote add command when the remote is missing.
func (ensurer *Ensurer) Plan(executionContext context.Context, username string, explicitURL string) (Result, []sequence.Step, error) {
	trimmedUsername := strings.TrimSpace(username)
	if len(trimmedUsername) == 0 {
		return Result{}, nil, ErrUsernameRequired
	}

	remoteURL, resolveError := ensurer.resolveURL(executionContext, trimmedUsername, explicitURL)
	if resolveError != nil {
		return Result{}, nil, resolveError
	}

	if ensurer.configurator.RemoteExists(executionContext, trimmedUsername) {
		return Result{Remote: trimmedUsername, URL: remoteURL}, nil, nil
	}
	return Result{Remote: trimmedUsername, URL: remoteURL, Added: true}, []sequence.Step{gitflow.RemoteAddStep(trimmedUsername, remoteURL)}, nil
}

// Ensure adds the remote username pointing at explicitURL, or at the derived
// fork URL when explicitURL is blank.
func (ensurer *Ensurer) Ensure(executionContext context.Context, username string, explicitURL string) (Result, error) {
	trimmedUsername := strings.TrimSpace(username)
	if len(trimmedUsername) == 0 {
		return Result{}, ErrUsernameRequired
	}

	remoteURL, resolveError := ensurer.resolveURL(executionContext, trimmedUsername, explicitURL)
	if resolveError != nil {
		return Result{}, resolveError
	}

	added, ensureError := ensurer.configurator.EnsureRemoteConfiguration(executionContext, trimmedUsername, remoteURL)
	if ensureError != nil {
		return Result{}, ensureError
	}
	return Result{Remote: trimmedUsername, URL: remoteURL, Added: added}, nil
}

func (ensurer *Ensurer) resolveURL(executionContext context.Context, username string, explicitURL string) (string, error) {
	remoteURL := strings.TrimSpace(explicitURL)
	if len(remoteURL) > 0 {
		return remoteURL, nil
	}
	return ensurer.resolver.ForkURL(executionContext, username)
}
