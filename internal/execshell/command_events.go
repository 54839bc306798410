package execshell

import "go.uber.org/zap"

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the process exited and supplies its result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that produced no execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// LoggingCommandEventObserver renders command lifecycle events as human-readable log lines.
type LoggingCommandEventObserver struct {
	logger    *zap.Logger
	formatter CommandMessageFormatter
}

// NewLoggingCommandEventObserver constructs an observer writing to the provided logger.
func NewLoggingCommandEventObserver(logger *zap.Logger) *LoggingCommandEventObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingCommandEventObserver{logger: logger}
}

// CommandStarted logs the start message at debug level.
func (observer *LoggingCommandEventObserver) CommandStarted(command ShellCommand) {
	if observer == nil {
		return
	}
	observer.logger.Debug(observer.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs successful commands at debug level and failing ones at info level.
func (observer *LoggingCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if observer == nil {
		return
	}
	if result.ExitCode == 0 {
		observer.logger.Debug(observer.formatter.BuildSuccessMessage(command, result))
		return
	}
	observer.logger.Info(observer.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed logs execution failures at warn level.
func (observer *LoggingCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	if observer == nil {
		return
	}
	observer.logger.Warn(observer.formatter.BuildExecutionFailureMessage(command, failure))
}
