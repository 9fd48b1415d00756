// Package utils hosts the ambient plumbing shared by ghflow commands: the
// Viper-backed ConfigurationLoader, the zap LoggerFactory with its optional
// rotating log file, and accessors for values carried in command contexts.
package utils
