package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstatus/internal/status"
)

const (
	testConfigurationFileNameConstant = "gitstatus.yaml"
	testFormatEnvironmentVariable     = "GITSTATUS_TOOLS_STATUS_FORMAT"
	testLogLevelEnvironmentVariable   = "GITSTATUS_COMMON_LOG_LEVEL"
)

type recordingDiscoverer struct {
	roots []string
}

func (discoverer *recordingDiscoverer) DiscoverRepositories(root string) ([]string, error) {
	discoverer.roots = append(discoverer.roots, root)
	return nil, nil
}

func executeApplication(testInstance *testing.T, discoverer *recordingDiscoverer, arguments ...string) (*Application, string, error) {
	testInstance.Helper()
	testInstance.Setenv(testLogLevelEnvironmentVariable, "error")

	application, creationError := newApplication(status.CommandBuilder{Discoverer: discoverer})
	require.NoError(testInstance, creationError)

	var output bytes.Buffer
	application.rootCommand.SetOut(&output)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return application, output.String(), executionError
}

func writeConfiguration(testInstance *testing.T, content string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o600))
	return configurationPath
}

func TestApplicationFormatPrecedence(testInstance *testing.T) {
	configurationPath := writeConfiguration(testInstance, "tools:\n  status:\n    format: json\n")

	testCases := []struct {
		name           string
		environment    string
		arguments      []string
		expectedOutput string
	}{
		{name: "embedded_default", arguments: []string{"status"}, expectedOutput: "FOLDER  BRANCH  STATUS"},
		{name: "configuration_file", arguments: []string{"--config", configurationPath, "status"}, expectedOutput: "[]\n"},
		{name: "environment", environment: "csv", arguments: []string{"--config", configurationPath, "status"}, expectedOutput: "folder_name,branch,status,reason\n"},
		{name: "flag", environment: "csv", arguments: []string{"--config", configurationPath, "status", "--format", "json"}, expectedOutput: "[]\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			if len(testCase.environment) > 0 {
				testInstance.Setenv(testFormatEnvironmentVariable, testCase.environment)
			}

			_, output, executionError := executeApplication(testInstance, &recordingDiscoverer{}, testCase.arguments...)
			require.NoError(testInstance, executionError)
			require.Contains(testInstance, output, testCase.expectedOutput)
		})
	}
}

func TestApplicationPassesConfiguredRootToDiscovery(testInstance *testing.T) {
	configurationRoot := testInstance.TempDir()
	configurationPath := writeConfiguration(testInstance, "tools:\n  status:\n    root: "+configurationRoot+"\n    format: json\n")

	discoverer := &recordingDiscoverer{}
	_, output, executionError := executeApplication(testInstance, discoverer, "--config", configurationPath, "status")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{configurationRoot}, discoverer.roots)

	var decoded []map[string]string
	require.NoError(testInstance, json.Unmarshal([]byte(output), &decoded))
	require.Empty(testInstance, decoded)
}

func TestApplicationAppliesLoggingFlags(testInstance *testing.T) {
	application, _, executionError := executeApplication(testInstance, &recordingDiscoverer{}, "--log-level", "warn", "--log-format", "console", "status", "--format", "csv")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "warn", application.configuration.Common.LogLevel)
	require.True(testInstance, application.humanReadableLoggingEnabled())
	require.Equal(testInstance, status.DefaultCommandConfiguration().Concurrency, application.configuration.Tools.Status.Concurrency)
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	_, _, executionError := executeApplication(testInstance, &recordingDiscoverer{}, "--log-level", "chatty", "status")
	require.ErrorContains(testInstance, executionError, "unable to create logger")
}

func TestApplicationRejectsMissingConfigurationFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), "absent.yaml")
	_, _, executionError := executeApplication(testInstance, &recordingDiscoverer{}, "--config", missingPath, "status")
	require.ErrorContains(testInstance, executionError, "unable to load configuration")
}

func TestApplicationRegistersStatusCommand(testInstance *testing.T) {
	application, creationError := NewApplication()
	require.NoError(testInstance, creationError)

	statusCommand, _, findError := application.rootCommand.Find([]string{"status"})
	require.NoError(testInstance, findError)
	require.Equal(testInstance, "status", statusCommand.Name())
}
