package status

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitstatus/internal/gitrepo"
)

const (
	queryRunnerMissingMessageConstant = "status resolver requires a query runner"
	branchQueryErrorTemplateConstant  = "unable to determine branch of %s: %w"
)

// ErrQueryRunnerNotConfigured indicates a resolver was built without a query runner.
var ErrQueryRunnerNotConfigured = errors.New(queryRunnerMissingMessageConstant)

// Resolver gathers the branch and commit references of a repository.
type Resolver struct {
	queryRunner gitrepo.QueryRunner
}

// NewResolver constructs a Resolver over the provided query runner.
func NewResolver(queryRunner gitrepo.QueryRunner) (*Resolver, error) {
	if queryRunner == nil {
		return nil, ErrQueryRunnerNotConfigured
	}
	return &Resolver{queryRunner: queryRunner}, nil
}

type queryOutcome struct {
	output string
	err    error
}

// Resolve runs the branch query and the three commit queries concurrently.
// A branch failure is returned as an error; commit failures produce an
// unavailable record.
func (resolver *Resolver) Resolve(executionContext context.Context, repositoryPath string) (RepositoryInfo, error) {
	branchOutcome := make(chan queryOutcome, 1)
	go func() {
		output, queryError := resolver.queryRunner.RunQuery(executionContext, repositoryPath, gitrepo.QueryCurrentBranch)
		branchOutcome <- queryOutcome{output: output, err: queryError}
	}()

	state, reason := resolver.resolveSyncState(executionContext, repositoryPath)

	branch := <-branchOutcome
	if branch.err != nil {
		return RepositoryInfo{}, fmt.Errorf(branchQueryErrorTemplateConstant, repositoryPath, branch.err)
	}

	return RepositoryInfo{
		FolderName: filepath.Base(repositoryPath),
		Path:       repositoryPath,
		Branch:     branch.output,
		Status:     state,
		Reason:     reason,
	}, nil
}

func (resolver *Resolver) resolveSyncState(executionContext context.Context, repositoryPath string) (SyncState, UnavailableReason) {
	var localHead, upstreamHead, mergeBase string

	queryGroup, queryContext := errgroup.WithContext(executionContext)
	runQuery := func(kind gitrepo.QueryKind, destination *string) {
		queryGroup.Go(func() error {
			output, queryError := resolver.queryRunner.RunQuery(queryContext, repositoryPath, kind)
			if queryError != nil {
				return queryError
			}
			*destination = output
			return nil
		})
	}
	runQuery(gitrepo.QueryLocalHead, &localHead)
	runQuery(gitrepo.QueryUpstreamHead, &upstreamHead)
	runQuery(gitrepo.QueryMergeBase, &mergeBase)

	if groupError := queryGroup.Wait(); groupError != nil {
		return SyncStateUnavailable, unavailableReasonFor(groupError)
	}

	return Classify(CommitRef(localHead), CommitRef(upstreamHead), CommitRef(mergeBase)), ReasonNone
}

func unavailableReasonFor(queryError error) UnavailableReason {
	switch {
	case errors.Is(queryError, gitrepo.ErrNoUpstream):
		return ReasonNoUpstream
	case errors.Is(queryError, context.DeadlineExceeded):
		return ReasonTimedOut
	default:
		return ReasonQueryFailed
	}
}
