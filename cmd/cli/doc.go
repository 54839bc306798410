// Package cli constructs the gitstatus command-line interface: the Cobra
// command hierarchy, the layered viper configuration, and the zap logger
// handed to every command.
package cli
