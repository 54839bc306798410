package gitrepo

import (
	"errors"
	"fmt"
	"time"
)

// Backend names an implementation of QueryRunner.
type Backend string

// Supported query backends.
const (
	BackendGit   Backend = "git"
	BackendGoGit Backend = "go-git"
)

// ErrUnknownBackend indicates a backend name outside the supported set.
var ErrUnknownBackend = errors.New("unknown query backend")

// NewQueryRunner builds the runner for backend. The executor is only consulted by
// the git backend, which bounds its commands itself; queryTimeout applies to go-git.
func NewQueryRunner(backend Backend, executor GitExecutor, pool *ProcessPool, queryTimeout time.Duration) (QueryRunner, error) {
	switch backend {
	case BackendGit:
		return NewShellQueryRunner(executor, pool)
	case BackendGoGit:
		return NewGoGitQueryRunner(pool, WithQueryTimeout(queryTimeout)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}
