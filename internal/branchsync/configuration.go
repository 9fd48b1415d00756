package branchsync

import "strings"

const (
	defaultRemoteConstant                = "origin"
	configurationKeySeparatorConstant    = "."
	configurationRemoteKeyConstant       = "remote"
	configurationAssumeYesKeyConstant    = "assume_yes"
	configurationEnsureRemoteKeyConstant = "ensure_remote"
)

// CommandConfiguration captures persistent settings for the sync command.
type CommandConfiguration struct {
	Remote       string `mapstructure:"remote"`
	AssumeYes    bool   `mapstructure:"assume_yes"`
	EnsureRemote bool   `mapstructure:"ensure_remote"`
}

// DefaultCommandConfiguration returns baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Remote:       defaultRemoteConstant,
		AssumeYes:    false,
		EnsureRemote: false,
	}
}

// DefaultConfigurationValues returns the defaults keyed under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationRemoteKeyConstant:       defaults.Remote,
		rootKey + configurationKeySeparatorConstant + configurationAssumeYesKeyConstant:    defaults.AssumeYes,
		rootKey + configurationKeySeparatorConstant + configurationEnsureRemoteKeyConstant: defaults.EnsureRemote,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaultRemoteConstant
	}

	return sanitized
}
