package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/gitstatus/internal/gitrepo"
	"github.com/temirov/gitstatus/internal/ui"
	"github.com/temirov/gitstatus/internal/utils/flags"
)

const (
	defaultConcurrencyConstant           = 8
	defaultMaximumProcessesConstant      = 16
	defaultQueryTimeoutConstant          = 10 * time.Second
	configurationRootKeyConstant         = "root"
	configurationFormatKeyConstant       = "format"
	configurationConcurrencyKeyConstant  = "concurrency"
	configurationProcessesKeyConstant    = "max_processes"
	configurationQueryTimeoutKeyConstant = "query_timeout"
	configurationBackendKeyConstant      = "backend"
	invalidPositiveValueTemplateConstant = "%s must be positive, got %d"
	invalidTimeoutTemplateConstant       = "query timeout must be positive, got %s"
	invalidChoiceTemplateConstant        = "%w: %w"
	formatChoiceNameConstant             = "format"
	backendChoiceNameConstant            = "backend"
	concurrencyValueNameConstant         = "concurrency"
	processesValueNameConstant           = "max processes"
)

// ErrInvalidConfiguration marks configuration values the status command cannot honor.
var ErrInvalidConfiguration = errors.New("invalid status configuration")

// SupportedBackends lists query backends in presentation order.
func SupportedBackends() []string {
	return []string{string(gitrepo.BackendGit), string(gitrepo.BackendGoGit)}
}

// CommandConfiguration captures persistent settings for the status command.
type CommandConfiguration struct {
	Root             string        `mapstructure:"root"`
	Format           string        `mapstructure:"format"`
	Concurrency      int           `mapstructure:"concurrency"`
	MaximumProcesses int           `mapstructure:"max_processes"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
	Backend          string        `mapstructure:"backend"`
}

// DefaultCommandConfiguration returns baseline configuration values for the status command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:             defaultRootPathConstant,
		Format:           string(ui.OutputFormatTable),
		Concurrency:      defaultConcurrencyConstant,
		MaximumProcesses: defaultMaximumProcessesConstant,
		QueryTimeout:     defaultQueryTimeoutConstant,
		Backend:          string(gitrepo.BackendGit),
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys beneath rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationRootKeyConstant:         defaults.Root,
		rootKey + "." + configurationFormatKeyConstant:       defaults.Format,
		rootKey + "." + configurationConcurrencyKeyConstant:  defaults.Concurrency,
		rootKey + "." + configurationProcessesKeyConstant:    defaults.MaximumProcesses,
		rootKey + "." + configurationQueryTimeoutKeyConstant: defaults.QueryTimeout.String(),
		rootKey + "." + configurationBackendKeyConstant:      defaults.Backend,
	}
}

// sanitize trims textual values and fills unset values with defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	if len(sanitized.Format) == 0 {
		sanitized.Format = defaults.Format
	}
	sanitized.Backend = strings.ToLower(strings.TrimSpace(configuration.Backend))
	if len(sanitized.Backend) == 0 {
		sanitized.Backend = defaults.Backend
	}
	if sanitized.Concurrency == 0 {
		sanitized.Concurrency = defaults.Concurrency
	}
	if sanitized.MaximumProcesses == 0 {
		sanitized.MaximumProcesses = defaults.MaximumProcesses
	}
	if sanitized.QueryTimeout == 0 {
		sanitized.QueryTimeout = defaults.QueryTimeout
	}

	return sanitized
}

// validate reports the first value the command cannot honor.
func (configuration CommandConfiguration) validate() error {
	if choiceError := flags.ValidateChoice(formatChoiceNameConstant, configuration.Format, ui.SupportedOutputFormats()); choiceError != nil {
		return fmt.Errorf(invalidChoiceTemplateConstant, ErrInvalidConfiguration, choiceError)
	}
	if choiceError := flags.ValidateChoice(backendChoiceNameConstant, configuration.Backend, SupportedBackends()); choiceError != nil {
		return fmt.Errorf(invalidChoiceTemplateConstant, ErrInvalidConfiguration, choiceError)
	}
	if configuration.Concurrency < 0 {
		return fmt.Errorf("%w: "+invalidPositiveValueTemplateConstant, ErrInvalidConfiguration, concurrencyValueNameConstant, configuration.Concurrency)
	}
	if configuration.MaximumProcesses < 0 {
		return fmt.Errorf("%w: "+invalidPositiveValueTemplateConstant, ErrInvalidConfiguration, processesValueNameConstant, configuration.MaximumProcesses)
	}
	if configuration.QueryTimeout < 0 {
		return fmt.Errorf("%w: "+invalidTimeoutTemplateConstant, ErrInvalidConfiguration, configuration.QueryTimeout)
	}
	return nil
}
