// Package testsupport builds git repositories with known commit graphs for tests.
package testsupport

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultBranchName is the branch checked out in fixture repositories.
	DefaultBranchName = "main"
	// RemoteName is the remote configured as upstream in fixture repositories.
	RemoteName = "origin"

	fixtureAuthorNameConstant        = "Fixture Author"
	fixtureAuthorEmailConstant       = "fixture@example.com"
	fixtureRemoteURLTemplateConstant = "https://example.invalid/%s.git"
	baseCommitMessageTemplate        = "base commit for %s"
	localCommitMessageTemplate       = "local commit for %s"
	upstreamCommitMessageTemplate    = "upstream commit for %s"
)

var fixtureEpoch = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

// SyncScenario selects the relationship between the local branch and its upstream.
type SyncScenario string

// Supported scenarios. ScenarioGoneUpstream configures an upstream whose
// remote-tracking ref was never fetched or has been pruned.
const (
	ScenarioUpToDate     SyncScenario = "up-to-date"
	ScenarioBehind       SyncScenario = "behind"
	ScenarioAhead        SyncScenario = "ahead"
	ScenarioDiverged     SyncScenario = "diverged"
	ScenarioNoUpstream   SyncScenario = "no-upstream"
	ScenarioGoneUpstream SyncScenario = "gone-upstream"
)

// Fixture describes a created repository and the commits it points at.
type Fixture struct {
	Path         string
	Branch       string
	LocalHead    string
	UpstreamHead string
	MergeBase    string
}

type fixtureOptions struct {
	branchName string
}

// FixtureOption customizes repository creation.
type FixtureOption func(*fixtureOptions)

// WithBranchName checks out branchName instead of DefaultBranchName.
func WithBranchName(branchName string) FixtureOption {
	return func(options *fixtureOptions) {
		options.branchName = branchName
	}
}

// CreateRepository initializes parentDirectory/name with the commit graph for scenario.
// Upstream tracking refs are written directly, so no network access is needed.
func CreateRepository(testingInstance testing.TB, parentDirectory string, name string, scenario SyncScenario, options ...FixtureOption) Fixture {
	testingInstance.Helper()

	resolvedOptions := fixtureOptions{branchName: DefaultBranchName}
	for _, option := range options {
		option(&resolvedOptions)
	}

	repositoryPath := filepath.Join(parentDirectory, name)
	branchReferenceName := plumbing.NewBranchReferenceName(resolvedOptions.branchName)

	repository, initError := git.PlainInitWithOptions(repositoryPath, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: branchReferenceName},
	})
	require.NoError(testingInstance, initError)

	worktree, worktreeError := repository.Worktree()
	require.NoError(testingInstance, worktreeError)

	commitSequence := 0
	commit := func(messageTemplate string) plumbing.Hash {
		commitSequence++
		signature := &object.Signature{
			Name:  fixtureAuthorNameConstant,
			Email: fixtureAuthorEmailConstant,
			When:  fixtureEpoch.Add(time.Duration(commitSequence) * time.Minute),
		}
		hash, commitError := worktree.Commit(fmt.Sprintf(messageTemplate, name), &git.CommitOptions{
			Author:            signature,
			Committer:         signature,
			AllowEmptyCommits: true,
		})
		require.NoError(testingInstance, commitError)
		return hash
	}
	pointBranchAt := func(hash plumbing.Hash) {
		require.NoError(testingInstance, repository.Storer.SetReference(plumbing.NewHashReference(branchReferenceName, hash)))
	}

	baseHash := commit(baseCommitMessageTemplate)
	localHash := baseHash
	upstreamHash := baseHash

	switch scenario {
	case ScenarioUpToDate, ScenarioNoUpstream, ScenarioGoneUpstream:
	case ScenarioBehind:
		upstreamHash = commit(upstreamCommitMessageTemplate)
		pointBranchAt(baseHash)
	case ScenarioAhead:
		localHash = commit(localCommitMessageTemplate)
	case ScenarioDiverged:
		upstreamHash = commit(upstreamCommitMessageTemplate)
		pointBranchAt(baseHash)
		localHash = commit(localCommitMessageTemplate)
	default:
		testingInstance.Fatalf("unsupported fixture scenario %q", scenario)
	}

	fixture := Fixture{
		Path:      repositoryPath,
		Branch:    resolvedOptions.branchName,
		LocalHead: localHash.String(),
	}
	if scenario == ScenarioNoUpstream {
		return fixture
	}

	_, remoteError := repository.CreateRemote(&config.RemoteConfig{
		Name: RemoteName,
		URLs: []string{fmt.Sprintf(fixtureRemoteURLTemplateConstant, name)},
	})
	require.NoError(testingInstance, remoteError)

	require.NoError(testingInstance, repository.CreateBranch(&config.Branch{
		Name:   resolvedOptions.branchName,
		Remote: RemoteName,
		Merge:  branchReferenceName,
	}))

	if scenario == ScenarioGoneUpstream {
		return fixture
	}

	trackingReferenceName := plumbing.NewRemoteReferenceName(RemoteName, resolvedOptions.branchName)
	require.NoError(testingInstance, repository.Storer.SetReference(plumbing.NewHashReference(trackingReferenceName, upstreamHash)))

	fixture.UpstreamHead = upstreamHash.String()
	fixture.MergeBase = baseHash.String()
	return fixture
}

// CreateDetachedRepository initializes a repository whose HEAD points directly at a commit.
func CreateDetachedRepository(testingInstance testing.TB, parentDirectory string, name string) Fixture {
	testingInstance.Helper()

	fixture := CreateRepository(testingInstance, parentDirectory, name, ScenarioNoUpstream)

	repository, openError := git.PlainOpen(fixture.Path)
	require.NoError(testingInstance, openError)
	require.NoError(testingInstance, repository.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(fixture.LocalHead))))

	fixture.Branch = plumbing.HEAD.String()
	return fixture
}
