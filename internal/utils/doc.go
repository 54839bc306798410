// Package utils holds the configuration and logging plumbing shared by commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through viper. LoggerFactory builds zap loggers in
// structured or console form.
package utils
