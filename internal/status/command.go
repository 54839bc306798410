package status

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitstatus/internal/execshell"
	"github.com/temirov/gitstatus/internal/gitrepo"
	"github.com/temirov/gitstatus/internal/repos/dependencies"
	"github.com/temirov/gitstatus/internal/ui"
	"github.com/temirov/gitstatus/internal/utils/flags"
)

const (
	commandUseConstant              = "status [root]"
	commandShortDescriptionConstant = "Report how repositories under a root relate to their upstreams"
	commandLongDescriptionConstant  = "status inspects every git repository directly under the root directory and reports its current branch and whether it is up-to-date, needs a pull, needs a push, or has diverged from its upstream. It never fetches or modifies repositories."
	flagRootNameConstant            = "root"
	flagRootUsageConstant           = "Directory whose immediate subdirectories are inspected"
	flagFormatNameConstant          = "format"
	flagConcurrencyNameConstant     = "concurrency"
	flagConcurrencyUsageConstant    = "Maximum number of repositories resolved at the same time"
	flagProcessesNameConstant       = "max-processes"
	flagProcessesUsageConstant      = "Maximum number of git processes running at the same time"
	flagTimeoutNameConstant         = "timeout"
	flagTimeoutUsageConstant        = "Maximum duration of a single git query"
	flagBackendNameConstant         = "backend"
	flagFormatUsageConstant         = "Report format"
	flagBackendUsageConstant        = "Implementation answering git queries"
	statusFailedTemplateConstant    = "status report failed: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded status configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the status cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	Discoverer                   RepositoryDiscoverer
	QueryRunner                  gitrepo.QueryRunner
	GitExecutor                  gitrepo.GitExecutor
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(flagRootNameConstant, "", flagRootUsageConstant)
	command.Flags().String(flagFormatNameConstant, "", flags.FormatChoiceUsage(defaults.Format, ui.SupportedOutputFormats(), flagFormatUsageConstant))
	command.Flags().Int(flagConcurrencyNameConstant, 0, flagConcurrencyUsageConstant)
	command.Flags().Int(flagProcessesNameConstant, 0, flagProcessesUsageConstant)
	command.Flags().Duration(flagTimeoutNameConstant, 0, flagTimeoutUsageConstant)
	command.Flags().String(flagBackendNameConstant, "", flags.FormatChoiceUsage(defaults.Backend, SupportedBackends(), flagBackendUsageConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command, arguments)
	if configurationError != nil {
		return configurationError
	}

	renderer, rendererError := ui.NewReportRenderer(ui.OutputFormat(configuration.Format))
	if rendererError != nil {
		return rendererError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	records, buildError := service.Build(command.Context(), configuration.Root)
	if buildError != nil {
		return fmt.Errorf(statusFailedTemplateConstant, buildError)
	}

	return renderer.Render(command.OutOrStdout(), ReportRows(records))
}

func (builder *CommandBuilder) buildService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	var observer execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observer = execshell.NewLoggingCommandEventObserver(logger)
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, observer, configuration.QueryTimeout)
	if executorError != nil {
		return nil, executorError
	}

	processPool := gitrepo.NewProcessPool(configuration.MaximumProcesses)
	queryRunner, runnerError := dependencies.ResolveQueryRunner(builder.QueryRunner, gitrepo.Backend(configuration.Backend), gitExecutor, processPool, configuration.QueryTimeout)
	if runnerError != nil {
		return nil, runnerError
	}

	resolver, resolverError := NewResolver(queryRunner)
	if resolverError != nil {
		return nil, resolverError
	}

	discoverer := dependencies.ResolveRepositoryDiscoverer(builder.Discoverer)
	return NewService(logger, discoverer, resolver, WithConcurrency(configuration.Concurrency))
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command, arguments []string) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(flagRootNameConstant) {
		configuration.Root, _ = flagSet.GetString(flagRootNameConstant)
	}
	if len(arguments) > 0 {
		configuration.Root = arguments[0]
	}
	if flagSet.Changed(flagFormatNameConstant) {
		configuration.Format, _ = flagSet.GetString(flagFormatNameConstant)
	}
	if flagSet.Changed(flagConcurrencyNameConstant) {
		configuration.Concurrency, _ = flagSet.GetInt(flagConcurrencyNameConstant)
	}
	if flagSet.Changed(flagProcessesNameConstant) {
		configuration.MaximumProcesses, _ = flagSet.GetInt(flagProcessesNameConstant)
	}
	if flagSet.Changed(flagTimeoutNameConstant) {
		configuration.QueryTimeout, _ = flagSet.GetDuration(flagTimeoutNameConstant)
	}
	if flagSet.Changed(flagBackendNameConstant) {
		configuration.Backend, _ = flagSet.GetString(flagBackendNameConstant)
	}

	sanitized := configuration.sanitize()
	if validationError := sanitized.validate(); validationError != nil {
		return CommandConfiguration{}, validationError
	}
	return sanitized, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
