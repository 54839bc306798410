package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	noUpstreamMessageConstant        = "no upstream configured"
	unknownQueryKindMessageConstant  = "unknown query kind"
	queryErrorTemplateConstant       = "%s query failed in %s: %v"
	crlfLineTerminatorConstant       = "\r\n"
	lfLineTerminatorConstant         = "\n"
	unknownQueryKindTemplateConstant = "%w: %s"
)

// QueryKind names one of the reference queries issued per repository.
type QueryKind string

// Supported query kinds.
const (
	QueryCurrentBranch QueryKind = "current-branch"
	QueryLocalHead     QueryKind = "local-head"
	QueryUpstreamHead  QueryKind = "upstream-head"
	QueryMergeBase     QueryKind = "merge-base"
)

// ErrNoUpstream reports a branch without a configured upstream, or a detached HEAD.
var ErrNoUpstream = errors.New(noUpstreamMessageConstant)

// ErrUnknownQueryKind reports a QueryKind the runner does not implement.
var ErrUnknownQueryKind = errors.New(unknownQueryKindMessageConstant)

// QueryRunner resolves a single query against the repository at repositoryPath.
// Implementations must not depend on the process working directory.
type QueryRunner interface {
	RunQuery(executionContext context.Context, repositoryPath string, kind QueryKind) (string, error)
}

// QueryError describes a failed query. It matches ErrNoUpstream when the cause
// indicates a missing upstream and unwraps to the underlying cause otherwise.
type QueryError struct {
	Kind           QueryKind
	RepositoryPath string
	Cause          error
	noUpstream     bool
}

// Error describes the failed query.
func (queryError QueryError) Error() string {
	return fmt.Sprintf(queryErrorTemplateConstant, queryError.Kind, queryError.RepositoryPath, queryError.Cause)
}

// Unwrap exposes the underlying cause.
func (queryError QueryError) Unwrap() error {
	return queryError.Cause
}

// Is reports whether the query failed because no upstream is configured.
func (queryError QueryError) Is(target error) bool {
	return target == ErrNoUpstream && queryError.noUpstream
}

// NormalizeQueryOutput strips exactly one trailing line terminator.
func NormalizeQueryOutput(output string) string {
	if trimmed, found := strings.CutSuffix(output, crlfLineTerminatorConstant); found {
		return trimmed
	}
	return strings.TrimSuffix(output, lfLineTerminatorConstant)
}

func newQueryError(kind QueryKind, repositoryPath string, cause error) QueryError {
	return QueryError{Kind: kind, RepositoryPath: repositoryPath, Cause: cause}
}

func unknownQueryKindError(kind QueryKind) error {
	return fmt.Errorf(unknownQueryKindTemplateConstant, ErrUnknownQueryKind, kind)
}
