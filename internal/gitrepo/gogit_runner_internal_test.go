package gitrepo

import (
	"context"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
)

func TestGoGitQueryRunnerTimesOutStalledQuery(testInstance *testing.T) {
	release := make(chan struct{})
	defer close(release)

	runner := NewGoGitQueryRunner(NewProcessPool(1), WithQueryTimeout(20*time.Millisecond))
	runner.openRepository = func(string) (*git.Repository, error) {
		<-release
		return nil, git.ErrRepositoryNotExists
	}

	startTime := time.Now()
	_, queryError := runner.RunQuery(context.Background(), "/repositories/stalled", QueryLocalHead)
	require.ErrorIs(testInstance, queryError, context.DeadlineExceeded)
	require.Less(testInstance, time.Since(startTime), 5*time.Second)

	var typedError QueryError
	require.ErrorAs(testInstance, queryError, &typedError)
	require.Equal(testInstance, QueryLocalHead, typedError.Kind)
	require.False(testInstance, typedError.Is(ErrNoUpstream))
}

func TestGoGitQueryRunnerWithoutTimeoutWaitsForQuery(testInstance *testing.T) {
	runner := NewGoGitQueryRunner(nil, WithQueryTimeout(0))
	runner.openRepository = func(string) (*git.Repository, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, git.ErrRepositoryNotExists
	}

	_, queryError := runner.RunQuery(context.Background(), "/repositories/slow", QueryLocalHead)
	require.ErrorIs(testInstance, queryError, git.ErrRepositoryNotExists)
}
