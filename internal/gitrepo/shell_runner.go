package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/gitstatus/internal/execshell"
)

const (
	gitRevParseSubcommandConstant     = "rev-parse"
	gitMergeBaseSubcommandConstant    = "merge-base"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitHeadReferenceConstant          = "HEAD"
	gitUpstreamReferenceConstant      = "@{u}"
	gitTerminalPromptVariableConstant = "GIT_TERMINAL_PROMPT"
	gitOptionalLocksVariableConstant  = "GIT_OPTIONAL_LOCKS"
	disabledEnvironmentValueConstant  = "0"
)

var queryArguments = map[QueryKind][]string{
	QueryCurrentBranch: {gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
	QueryLocalHead:     {gitRevParseSubcommandConstant, gitHeadReferenceConstant},
	QueryUpstreamHead:  {gitRevParseSubcommandConstant, gitUpstreamReferenceConstant},
	QueryMergeBase:     {gitMergeBaseSubcommandConstant, gitHeadReferenceConstant, gitUpstreamReferenceConstant},
}

var noUpstreamStandardErrorMarkers = []string{
	"no upstream configured",
	"does not point to a branch",
	"no such branch",
	"'@{u}': unknown revision",
	"not a valid object name @{u}",
	"not stored as a remote-tracking branch",
}

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ShellQueryRunner answers queries by running git in the repository directory.
type ShellQueryRunner struct {
	executor GitExecutor
	pool     *ProcessPool
}

// NewShellQueryRunner builds a runner around a git executor. The pool may be nil.
func NewShellQueryRunner(executor GitExecutor, pool *ProcessPool) (*ShellQueryRunner, error) {
	if executor == nil {
		return nil, execshell.ErrCommandRunnerNotConfigured
	}
	return &ShellQueryRunner{executor: executor, pool: pool}, nil
}

// RunQuery executes the git command for kind with its working directory set to repositoryPath.
func (runner *ShellQueryRunner) RunQuery(executionContext context.Context, repositoryPath string, kind QueryKind) (string, error) {
	arguments, known := queryArguments[kind]
	if !known {
		return "", newQueryError(kind, repositoryPath, unknownQueryKindError(kind))
	}

	details := execshell.CommandDetails{
		Arguments:        append([]string{}, arguments...),
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptVariableConstant: disabledEnvironmentValueConstant,
			gitOptionalLocksVariableConstant:  disabledEnvironmentValueConstant,
		},
	}

	var executionResult execshell.ExecutionResult
	runError := runner.pool.Run(executionContext, func() error {
		var executionError error
		executionResult, executionError = runner.executor.ExecuteGit(executionContext, details)
		return executionError
	})
	if runError != nil {
		queryError := newQueryError(kind, repositoryPath, runError)
		var failedError execshell.CommandFailedError
		if errors.As(runError, &failedError) {
			queryError.noUpstream = reportsMissingUpstream(failedError.Result.StandardError)
		}
		return "", queryError
	}

	return NormalizeQueryOutput(executionResult.StandardOutput), nil
}

func reportsMissingUpstream(standardError string) bool {
	loweredStandardError := strings.ToLower(standardError)
	for _, marker := range noUpstreamStandardErrorMarkers {
		if strings.Contains(loweredStandardError, marker) {
			return true
		}
	}
	return false
}
