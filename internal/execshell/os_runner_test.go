package execshell_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstatus/internal/execshell"
)

const (
	testShellCommandNameConstant = "sh"
	testShellScriptFlagConstant  = "-c"
)

func requireShell(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(testShellCommandNameConstant); lookupError != nil {
		testInstance.Skip("sh not available")
	}
}

func TestOSCommandRunnerUsesCommandWorkingDirectory(testInstance *testing.T) {
	requireShell(testInstance)

	processDirectoryBefore, directoryError := os.Getwd()
	require.NoError(testInstance, directoryError)

	targetDirectory := testInstance.TempDir()
	resolvedTargetDirectory, resolveError := filepath.EvalSymlinks(targetDirectory)
	require.NoError(testInstance, resolveError)

	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(testShellCommandNameConstant),
		Details: execshell.CommandDetails{
			Arguments:        []string{testShellScriptFlagConstant, "pwd -P"},
			WorkingDirectory: targetDirectory,
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, result.ExitCode)
	require.Equal(testInstance, resolvedTargetDirectory, strings.TrimSpace(result.StandardOutput))

	processDirectoryAfter, directoryError := os.Getwd()
	require.NoError(testInstance, directoryError)
	require.Equal(testInstance, processDirectoryBefore, processDirectoryAfter)
}

func TestOSCommandRunnerReportsExitCodeAndEnvironment(testInstance *testing.T) {
	requireShell(testInstance)

	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(testShellCommandNameConstant),
		Details: execshell.CommandDetails{
			Arguments:            []string{testShellScriptFlagConstant, "echo \"$GITSTATUS_TEST_VALUE\" >&2; exit 3"},
			EnvironmentVariables: map[string]string{"GITSTATUS_TEST_VALUE": "observed"},
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
	require.Equal(testInstance, "observed", strings.TrimSpace(result.StandardError))
}

func TestOSCommandRunnerReturnsErrorForMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName("gitstatus-missing-executable"),
	})
	require.Error(testInstance, runError)
}
