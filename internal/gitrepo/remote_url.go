package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshSchemePrefixConstant           = "ssh://"
	httpsSchemePrefixConstant         = "https://"
	sshUserSeparatorConstant          = "@"
	scpPathSeparatorConstant          = ":"
	pathSeparatorConstant             = "/"
	gitSuffixConstant                 = ".git"
	defaultSSHUserConstant            = "git"
	parseErrorTemplateConstant        = "%s: %s"
	sshRemoteTemplateConstant         = "%s@%s:%s/%s.git"
	sshSchemeRemoteTemplateConstant   = "ssh://%s@%s/%s/%s.git"
	httpsRemoteTemplateConstant       = "https://%s/%s/%s.git"
	requiredValueMessageConstant      = "value is required"
	invalidRemoteURLMessageConstant   = "invalid remote url"
	unknownProtocolMessageConstant    = "unsupported remote protocol"
	ownerRequiredMessageConstant      = "owner is required"
	protocolFallbackOptionSSHConstant = "ssh"
)

// RemoteProtocol enumerates the transports ghflow can derive remotes for.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// ParseRemoteProtocol maps a configuration value onto a RemoteProtocol.
// Anything other than ssh selects https.
func ParseRemoteProtocol(value string) RemoteProtocol {
	if strings.EqualFold(strings.TrimSpace(value), protocolFallbackOptionSSHConstant) {
		return RemoteProtocolSSH
	}
	return RemoteProtocolHTTPS
}

// RemoteURL is a parsed git remote of the form host/owner/repository.
type RemoteURL struct {
	Protocol   RemoteProtocol
	User       string
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(parseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the remote cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(parseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL accepts scp-style (git@host:owner/repo.git), ssh:// and https:// remotes.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, httpsSchemePrefixConstant):
		return parseHTTPSRemote(trimmedRemote, strings.TrimPrefix(trimmedRemote, httpsSchemePrefixConstant))
	case strings.HasPrefix(trimmedRemote, sshSchemePrefixConstant):
		return parseSSHSchemeRemote(trimmedRemote, strings.TrimPrefix(trimmedRemote, sshSchemePrefixConstant))
	case strings.Contains(trimmedRemote, sshUserSeparatorConstant):
		return parseSCPRemote(trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

func parseHTTPSRemote(input string, remainder string) (RemoteURL, error) {
	segments := strings.SplitN(remainder, pathSeparatorConstant, 2)
	if len(segments) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	host := segments[0]
	if _, hostWithoutCredentials, hasCredentials := strings.Cut(host, sshUserSeparatorConstant); hasCredentials {
		host = hostWithoutCredentials
	}
	return buildRemote(input, RemoteProtocolHTTPS, "", host, segments[1])
}

func parseSSHSchemeRemote(input string, remainder string) (RemoteURL, error) {
	user, hostAndPath, found := strings.Cut(remainder, sshUserSeparatorConstant)
	if !found {
		user, hostAndPath = defaultSSHUserConstant, remainder
	}
	host, path, found := strings.Cut(hostAndPath, pathSeparatorConstant)
	if !found {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemote(input, RemoteProtocolSSH, user, host, path)
}

func parseSCPRemote(input string) (RemoteURL, error) {
	user, hostAndPath, _ := strings.Cut(input, sshUserSeparatorConstant)
	host, path, found := strings.Cut(hostAndPath, scpPathSeparatorConstant)
	if !found {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemote(input, RemoteProtocolSSH, user, host, path)
}

func buildRemote(input string, protocol RemoteProtocol, user string, host string, path string) (RemoteURL, error) {
	segments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(host) == 0 || len(segments) != 2 || len(segments[0]) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteURL{Protocol: protocol, User: user, Host: host, Owner: segments[0], Repository: repository}, nil
}

// WithOwner returns a copy of the remote pointing at owner's fork.
func (remote RemoteURL) WithOwner(owner string) (RemoteURL, error) {
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: owner, Message: ownerRequiredMessageConstant}
	}
	remote.Owner = trimmedOwner
	return remote, nil
}

// FormatRemoteURL renders remote in its protocol's canonical form.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	for _, requiredValue := range []string{remote.Host, remote.Owner, remote.Repository} {
		if len(strings.TrimSpace(requiredValue)) == 0 {
			return "", RemoteURLParseError{Input: requiredValue, Message: requiredValueMessageConstant}
		}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		user := remote.User
		if len(user) == 0 {
			user = defaultSSHUserConstant
		}
		if strings.Contains(remote.Host, scpPathSeparatorConstant) {
			return fmt.Sprintf(sshSchemeRemoteTemplateConstant, user, remote.Host, remote.Owner, remote.Repository), nil
		}
		return fmt.Sprintf(sshRemoteTemplateConstant, user, remote.Host, remote.Owner, remote.Repository), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}

// ForkRemoteURL derives the URL of owner's fork from originURL, keeping the
// origin's protocol.
func ForkRemoteURL(originURL string, owner string) (string, error) {
	origin, parseError := ParseRemoteURL(originURL)
	if parseError != nil {
		return "", parseError
	}
	fork, ownerError := origin.WithOwner(owner)
	if ownerError != nil {
		return "", ownerError
	}
	return FormatRemoteURL(fork)
}
