package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitstatus/internal/execshell"
	"github.com/temirov/gitstatus/internal/gitrepo"
	"github.com/temirov/gitstatus/internal/repos/discovery"
)

// RepositoryDiscoverer lists repositories directly under a root directory.
type RepositoryDiscoverer interface {
	DiscoverRepositories(root string) ([]string, error)
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing RepositoryDiscoverer) RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default
// that bounds every command by commandTimeout.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver, commandTimeout time.Duration) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	executorOptions := []execshell.ShellExecutorOption{execshell.WithCommandTimeout(commandTimeout)}
	if observer != nil {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(observer))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveQueryRunner returns the provided runner or builds the one selected by backend.
func ResolveQueryRunner(existing gitrepo.QueryRunner, backend gitrepo.Backend, executor gitrepo.GitExecutor, pool *gitrepo.ProcessPool, queryTimeout time.Duration) (gitrepo.QueryRunner, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewQueryRunner(backend, executor, pool, queryTimeout)
}
