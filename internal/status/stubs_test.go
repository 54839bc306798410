package status_test

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/temirov/gitstatus/internal/gitrepo"
)

type stubQueryAnswer struct {
	output string
	err    error
	block  bool
}

type stubQueryRunner struct {
	mutex       sync.Mutex
	answers     map[string]map[gitrepo.QueryKind]stubQueryAnswer
	maximumWait time.Duration
	calls       []gitrepo.QueryKind
}

func newStubQueryRunner(maximumWait time.Duration) *stubQueryRunner {
	return &stubQueryRunner{answers: make(map[string]map[gitrepo.QueryKind]stubQueryAnswer), maximumWait: maximumWait}
}

func (runner *stubQueryRunner) answer(repositoryPath string, kind gitrepo.QueryKind, answer stubQueryAnswer) *stubQueryRunner {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	if runner.answers[repositoryPath] == nil {
		runner.answers[repositoryPath] = make(map[gitrepo.QueryKind]stubQueryAnswer)
	}
	runner.answers[repositoryPath][kind] = answer
	return runner
}

func (runner *stubQueryRunner) repository(repositoryPath string, branch string, local string, upstream string, base string) *stubQueryRunner {
	runner.answer(repositoryPath, gitrepo.QueryCurrentBranch, stubQueryAnswer{output: branch})
	runner.answer(repositoryPath, gitrepo.QueryLocalHead, stubQueryAnswer{output: local})
	runner.answer(repositoryPath, gitrepo.QueryUpstreamHead, stubQueryAnswer{output: upstream})
	return runner.answer(repositoryPath, gitrepo.QueryMergeBase, stubQueryAnswer{output: base})
}

func (runner *stubQueryRunner) RunQuery(executionContext context.Context, repositoryPath string, kind gitrepo.QueryKind) (string, error) {
	runner.mutex.Lock()
	runner.calls = append(runner.calls, kind)
	answer, known := runner.answers[repositoryPath][kind]
	var delay time.Duration
	if runner.maximumWait > 0 {
		delay = time.Duration(rand.Int63n(int64(runner.maximumWait)))
	}
	runner.mutex.Unlock()

	if !known {
		return "", gitrepo.QueryError{Kind: kind, RepositoryPath: repositoryPath, Cause: gitrepo.ErrUnknownQueryKind}
	}

	if answer.block {
		<-executionContext.Done()
		return "", gitrepo.QueryError{Kind: kind, RepositoryPath: repositoryPath, Cause: executionContext.Err()}
	}

	select {
	case <-time.After(delay):
	case <-executionContext.Done():
		return "", gitrepo.QueryError{Kind: kind, RepositoryPath: repositoryPath, Cause: executionContext.Err()}
	}

	if answer.err != nil {
		return "", gitrepo.QueryError{Kind: kind, RepositoryPath: repositoryPath, Cause: answer.err}
	}
	return answer.output, nil
}

type stubDiscoverer struct {
	repositories []string
	err          error
	roots        []string
}

func (discoverer *stubDiscoverer) DiscoverRepositories(root string) ([]string, error) {
	discoverer.roots = append(discoverer.roots, root)
	if discoverer.err != nil {
		return nil, discoverer.err
	}
	return append([]string{}, discoverer.repositories...), nil
}
