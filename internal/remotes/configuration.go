package remotes

import (
	"strings"

	"github.com/temirov/ghflow/internal/gitrepo"
)

const (
	defaultHostConstant                      = "github.com"
	configurationProtocolFallbackKeyConstant = "protocol_fallback"
	configurationHostKeyConstant             = "host"
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures how fork URLs are built when origin cannot be parsed.
type CommandConfiguration struct {
	ProtocolFallback string `mapstructure:"protocol_fallback"`
	Host             string `mapstructure:"host"`
}

// DefaultCommandConfiguration returns https on github.com.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ProtocolFallback: string(gitrepo.RemoteProtocolHTTPS),
		Host:             defaultHostConstant,
	}
}

// DefaultConfigurationValues returns the defaults keyed under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationProtocolFallbackKeyConstant: defaults.ProtocolFallback,
		rootKey + configurationKeySeparatorConstant + configurationHostKeyConstant:             defaults.Host,
	}
}

// sanitize trims values and restores defaults for blank entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.ProtocolFallback = strings.ToLower(strings.TrimSpace(configuration.ProtocolFallback))
	if len(sanitized.ProtocolFallback) == 0 {
		sanitized.ProtocolFallback = defaults.ProtocolFallback
	}

	sanitized.Host = strings.TrimSpace(configuration.Host)
	if len(sanitized.Host) == 0 {
		sanitized.Host = defaults.Host
	}

	return sanitized
}
