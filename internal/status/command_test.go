package status_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitstatus/internal/execshell"
	"github.com/temirov/gitstatus/internal/gitrepo"
	"github.com/temirov/gitstatus/internal/status"
	"github.com/temirov/gitstatus/internal/utils/flags"
)

const (
	commandRootConstant          = "/projects"
	expectedCommandCSVConstant   = "folder_name,branch,status,reason\nalpha,main,needs-pull,\nbeta,develop,unavailable,no-upstream\n"
	configuredRootConstant       = "/configured"
	abbreviatedReferenceArgument = "--abbrev-ref"
)

func commandFixtures() (*stubDiscoverer, *stubQueryRunner) {
	alphaPath := filepath.Join(commandRootConstant, "alpha")
	betaPath := filepath.Join(commandRootConstant, "beta")
	runner := newStubQueryRunner(0).
		repository(alphaPath, "main", "a", "b", "a").
		repository(betaPath, "develop", "c", "", "")
	runner.answer(betaPath, gitrepo.QueryUpstreamHead, stubQueryAnswer{err: gitrepo.ErrNoUpstream})
	runner.answer(betaPath, gitrepo.QueryMergeBase, stubQueryAnswer{err: gitrepo.ErrNoUpstream})
	return &stubDiscoverer{repositories: []string{alphaPath, betaPath}}, runner
}

func executeStatusCommand(testInstance *testing.T, builder *status.CommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	command.SilenceUsage = true
	command.SilenceErrors = true

	executionError := command.Execute()
	return output.String(), executionError
}

func TestStatusCommandRendersFormats(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		verify    func(testInstance *testing.T, output string)
	}{
		{
			name:      "csv",
			arguments: []string{commandRootConstant, "--format", "csv"},
			verify: func(testInstance *testing.T, output string) {
				require.Equal(testInstance, expectedCommandCSVConstant, output)
			},
		},
		{
			name:      "json",
			arguments: []string{"--root", commandRootConstant, "--format", "JSON"},
			verify: func(testInstance *testing.T, output string) {
				var decoded []map[string]string
				require.NoError(testInstance, json.Unmarshal([]byte(output), &decoded))
				require.Len(testInstance, decoded, 2)
				require.Equal(testInstance, "needs-pull", decoded[0]["status"])
				require.Equal(testInstance, "no-upstream", decoded[1]["reason"])
			},
		},
		{
			name:      "table",
			arguments: []string{commandRootConstant},
			verify: func(testInstance *testing.T, output string) {
				lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
				require.Len(testInstance, lines, 3)
				require.Equal(testInstance, []string{"alpha", "main", "Need", "to", "pull"}, strings.Fields(lines[1]))
				require.Equal(testInstance, []string{"beta", "develop", "--"}, strings.Fields(lines[2]))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			discoverer, runner := commandFixtures()
			builder := &status.CommandBuilder{
				LoggerProvider: func() *zap.Logger { return zap.NewNop() },
				Discoverer:     discoverer,
				QueryRunner:    runner,
			}

			output, executionError := executeStatusCommand(testInstance, builder, testCase.arguments...)
			require.NoError(testInstance, executionError)
			testCase.verify(testInstance, output)
		})
	}
}

func TestStatusCommandRootPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name         string
		arguments    []string
		expectedRoot string
	}{
		{name: "configuration", arguments: nil, expectedRoot: configuredRootConstant},
		{name: "flag", arguments: []string{"--root", "/flagged"}, expectedRoot: "/flagged"},
		{name: "positional", arguments: []string{"/positional", "--root", "/flagged"}, expectedRoot: "/positional"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			discoverer := &stubDiscoverer{}
			builder := &status.CommandBuilder{
				ConfigurationProvider: func() status.CommandConfiguration {
					configuration := status.DefaultCommandConfiguration()
					configuration.Root = configuredRootConstant
					configuration.Format = "csv"
					return configuration
				},
				Discoverer:  discoverer,
				QueryRunner: newStubQueryRunner(0),
			}

			_, executionError := executeStatusCommand(testInstance, builder, testCase.arguments...)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, []string{testCase.expectedRoot}, discoverer.roots)
		})
	}
}

func TestStatusCommandRejectsInvalidValues(testInstance *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		unsupportedChoice bool
	}{
		{name: "format", arguments: []string{"--format", "xml"}, unsupportedChoice: true},
		{name: "backend", arguments: []string{"--backend", "svn"}, unsupportedChoice: true},
		{name: "concurrency", arguments: []string{"--concurrency=-2"}},
		{name: "processes", arguments: []string{"--max-processes=-1"}},
		{name: "timeout", arguments: []string{"--timeout=-1s"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			discoverer := &stubDiscoverer{}
			builder := &status.CommandBuilder{Discoverer: discoverer, QueryRunner: newStubQueryRunner(0)}

			_, executionError := executeStatusCommand(testInstance, builder, testCase.arguments...)
			require.ErrorIs(testInstance, executionError, status.ErrInvalidConfiguration)
			require.Equal(testInstance, testCase.unsupportedChoice, errors.Is(executionError, flags.ErrUnsupportedChoice))
			require.Empty(testInstance, discoverer.roots)
		})
	}
}

func TestStatusCommandRejectsExtraArguments(testInstance *testing.T) {
	builder := &status.CommandBuilder{Discoverer: &stubDiscoverer{}, QueryRunner: newStubQueryRunner(0)}
	_, executionError := executeStatusCommand(testInstance, builder, "/one", "/two")
	require.Error(testInstance, executionError)
}

func TestStatusCommandReportsRootFailure(testInstance *testing.T) {
	builder := &status.CommandBuilder{Discoverer: &stubDiscoverer{err: context.Canceled}, QueryRunner: newStubQueryRunner(0)}
	_, executionError := executeStatusCommand(testInstance, builder, commandRootConstant)
	require.ErrorIs(testInstance, executionError, context.Canceled)
	require.Contains(testInstance, executionError.Error(), "status report failed")
}

type stallingCommandRunner struct{}

func (stallingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	for _, argument := range command.Details.Arguments {
		if argument == abbreviatedReferenceArgument {
			return execshell.ExecutionResult{StandardOutput: "main\n"}, nil
		}
	}
	<-executionContext.Done()
	return execshell.ExecutionResult{}, executionContext.Err()
}

func TestStatusCommandReportsTimedOutQueries(testInstance *testing.T) {
	repositoryPath := filepath.Join(commandRootConstant, "slow")
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), stallingCommandRunner{}, execshell.WithCommandTimeout(20*time.Millisecond))
	require.NoError(testInstance, executorError)

	builder := &status.CommandBuilder{
		ConfigurationProvider: func() status.CommandConfiguration {
			configuration := status.DefaultCommandConfiguration()
			configuration.Format = "csv"
			configuration.QueryTimeout = time.Hour
			return configuration
		},
		Discoverer:  &stubDiscoverer{repositories: []string{repositoryPath}},
		GitExecutor: executor,
	}

	output, executionError := executeStatusCommand(testInstance, builder, commandRootConstant)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "folder_name,branch,status,reason\nslow,main,unavailable,timed-out\n", output)
}

func TestStatusCommandBuildsFlags(testInstance *testing.T) {
	builder := &status.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	for _, flagName := range []string{"root", "format", "concurrency", "max-processes", "timeout", "backend"} {
		require.NotNil(testInstance, command.Flags().Lookup(flagName), flagName)
	}
	require.Equal(testInstance, "`<TABLE|csv|json>` Report format", command.Flags().Lookup("format").Usage)
	require.Equal(testInstance, "`<GIT|go-git>` Implementation answering git queries", command.Flags().Lookup("backend").Usage)
	require.IsType(testInstance, &cobra.Command{}, command)
}
