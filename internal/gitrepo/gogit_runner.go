package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	localRemoteNameConstant        = "."
	noMergeBaseMessageConstant     = "no merge base between HEAD and upstream"
	upstreamLookupTemplateConstant = "%w: %s"
)

var errNoMergeBase = errors.New(noMergeBaseMessageConstant)

// GoGitQueryRunner answers queries in process with go-git. Upstreams are
// resolved from branch.<name>.remote and branch.<name>.merge through the
// remote's fetch refspecs, matching git's @{u} resolution.
type GoGitQueryRunner struct {
	pool           *ProcessPool
	queryTimeout   time.Duration
	openRepository func(repositoryPath string) (*git.Repository, error)
}

// GoGitQueryRunnerOption customizes a GoGitQueryRunner.
type GoGitQueryRunnerOption func(*GoGitQueryRunner)

// WithQueryTimeout bounds every query. Non-positive values disable the bound.
func WithQueryTimeout(timeout time.Duration) GoGitQueryRunnerOption {
	return func(runner *GoGitQueryRunner) {
		runner.queryTimeout = timeout
	}
}

// NewGoGitQueryRunner builds an in-process runner. The pool may be nil.
func NewGoGitQueryRunner(pool *ProcessPool, options ...GoGitQueryRunnerOption) *GoGitQueryRunner {
	runner := &GoGitQueryRunner{pool: pool, openRepository: git.PlainOpen}
	for _, option := range options {
		if option != nil {
			option(runner)
		}
	}
	return runner
}

type goGitQueryOutcome struct {
	output string
	err    error
}

// RunQuery opens the repository at repositoryPath and resolves kind. go-git
// calls cannot be interrupted, so a query whose context ends first returns the
// context error while the abandoned call finishes in the background.
func (runner *GoGitQueryRunner) RunQuery(executionContext context.Context, repositoryPath string, kind QueryKind) (string, error) {
	if runner.queryTimeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, runner.queryTimeout)
		defer cancel()
	}

	var output string
	runError := runner.pool.Run(executionContext, func() error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		outcomes := make(chan goGitQueryOutcome, 1)
		go func() {
			repository, openError := runner.openRepository(repositoryPath)
			if openError != nil {
				outcomes <- goGitQueryOutcome{err: openError}
				return
			}
			resolvedOutput, queryError := resolveGoGitQuery(repository, kind)
			outcomes <- goGitQueryOutcome{output: resolvedOutput, err: queryError}
		}()

		select {
		case outcome := <-outcomes:
			output = outcome.output
			return outcome.err
		case <-executionContext.Done():
			return executionContext.Err()
		}
	})
	if runError != nil {
		return "", newQueryError(kind, repositoryPath, runError)
	}
	return output, nil
}

func resolveGoGitQuery(repository *git.Repository, kind QueryKind) (string, error) {
	switch kind {
	case QueryCurrentBranch:
		head, headError := repository.Head()
		if headError != nil {
			return "", headError
		}
		if !head.Name().IsBranch() {
			return plumbing.HEAD.String(), nil
		}
		return head.Name().Short(), nil
	case QueryLocalHead:
		head, headError := repository.Head()
		if headError != nil {
			return "", headError
		}
		return head.Hash().String(), nil
	case QueryUpstreamHead:
		upstream, upstreamError := resolveUpstreamReference(repository)
		if upstreamError != nil {
			return "", upstreamError
		}
		return upstream.Hash().String(), nil
	case QueryMergeBase:
		return resolveMergeBase(repository)
	default:
		return "", unknownQueryKindError(kind)
	}
}

func resolveUpstreamReference(repository *git.Repository) (*plumbing.Reference, error) {
	head, headError := repository.Head()
	if headError != nil {
		return nil, headError
	}
	if !head.Name().IsBranch() {
		return nil, ErrNoUpstream
	}

	branchName := head.Name().Short()
	branchConfiguration, branchError := repository.Branch(branchName)
	if branchError != nil {
		if errors.Is(branchError, git.ErrBranchNotFound) {
			return nil, fmt.Errorf(upstreamLookupTemplateConstant, ErrNoUpstream, branchName)
		}
		return nil, branchError
	}
	if len(branchConfiguration.Remote) == 0 || len(branchConfiguration.Merge) == 0 {
		return nil, fmt.Errorf(upstreamLookupTemplateConstant, ErrNoUpstream, branchName)
	}

	trackingReferenceName := branchConfiguration.Merge
	if branchConfiguration.Remote != localRemoteNameConstant {
		remote, remoteError := repository.Remote(branchConfiguration.Remote)
		if remoteError != nil {
			if errors.Is(remoteError, git.ErrRemoteNotFound) {
				return nil, fmt.Errorf(upstreamLookupTemplateConstant, ErrNoUpstream, branchConfiguration.Remote)
			}
			return nil, remoteError
		}

		trackingReferenceName = ""
		for _, fetchSpecification := range remote.Config().Fetch {
			if fetchSpecification.Match(branchConfiguration.Merge) {
				trackingReferenceName = fetchSpecification.Dst(branchConfiguration.Merge)
				break
			}
		}
		if len(trackingReferenceName) == 0 {
			return nil, fmt.Errorf(upstreamLookupTemplateConstant, ErrNoUpstream, branchName)
		}
	}

	trackingReference, referenceError := repository.Reference(trackingReferenceName, true)
	if referenceError != nil {
		if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf(upstreamLookupTemplateConstant, ErrNoUpstream, trackingReferenceName)
		}
		return nil, referenceError
	}
	return trackingReference, nil
}

func resolveMergeBase(repository *git.Repository) (string, error) {
	head, headError := repository.Head()
	if headError != nil {
		return "", headError
	}
	upstream, upstreamError := resolveUpstreamReference(repository)
	if upstreamError != nil {
		return "", upstreamError
	}

	localCommit, localError := repository.CommitObject(head.Hash())
	if localError != nil {
		return "", localError
	}
	upstreamCommit, upstreamCommitError := repository.CommitObject(upstream.Hash())
	if upstreamCommitError != nil {
		return "", upstreamCommitError
	}

	mergeBases, mergeBaseError := localCommit.MergeBase(upstreamCommit)
	if mergeBaseError != nil {
		return "", mergeBaseError
	}
	if len(mergeBases) == 0 {
		return "", errNoMergeBase
	}
	return mergeBases[0].Hash.String(), nil
}
