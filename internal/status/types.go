package status

import "context"

const (
	upToDateLabelConstant    = "Up-to-date"
	needsPullLabelConstant   = "Need to pull"
	needsPushLabelConstant   = "Need to push"
	divergedLabelConstant    = "Diverged"
	unavailableLabelConstant = "--"
)

// SyncState describes the relationship between a local branch and its upstream.
type SyncState string

// Supported synchronization states.
const (
	SyncStateUpToDate    SyncState = "up-to-date"
	SyncStateNeedsPull   SyncState = "needs-pull"
	SyncStateNeedsPush   SyncState = "needs-push"
	SyncStateDiverged    SyncState = "diverged"
	SyncStateUnavailable SyncState = "unavailable"
)

var syncStateLabels = map[SyncState]string{
	SyncStateUpToDate:    upToDateLabelConstant,
	SyncStateNeedsPull:   needsPullLabelConstant,
	SyncStateNeedsPush:   needsPushLabelConstant,
	SyncStateDiverged:    divergedLabelConstant,
	SyncStateUnavailable: unavailableLabelConstant,
}

// Label returns the human-readable rendering of the state.
func (state SyncState) Label() string {
	if label, known := syncStateLabels[state]; known {
		return label
	}
	return unavailableLabelConstant
}

// UnavailableReason qualifies why a repository has no sync state.
type UnavailableReason string

// Reasons attached to SyncStateUnavailable records.
const (
	ReasonNone         UnavailableReason = ""
	ReasonNoUpstream   UnavailableReason = "no-upstream"
	ReasonTimedOut     UnavailableReason = "timed-out"
	ReasonQueryFailed  UnavailableReason = "query-failed"
	ReasonBranchFailed UnavailableReason = "branch-failed"
)

// CommitRef is an opaque commit identifier compared only for equality.
type CommitRef string

// RepositoryInfo is one row of the status report.
type RepositoryInfo struct {
	FolderName string            `json:"folder_name"`
	Path       string            `json:"path"`
	Branch     string            `json:"branch"`
	Status     SyncState         `json:"status"`
	Reason     UnavailableReason `json:"reason,omitempty"`
	Failure    string            `json:"failure,omitempty"`
}

// RepositoryDiscoverer lists repositories directly under a root directory.
type RepositoryDiscoverer interface {
	DiscoverRepositories(root string) ([]string, error)
}

// RepositoryResolver resolves the status of a single repository.
type RepositoryResolver interface {
	Resolve(executionContext context.Context, repositoryPath string) (RepositoryInfo, error)
}
