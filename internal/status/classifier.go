package status

// Classify derives the sync state from the local head, upstream head, and their merge-base.
// Equality of local and upstream takes precedence over the merge-base comparisons.
func Classify(local CommitRef, upstream CommitRef, base CommitRef) SyncState {
	switch {
	case local == upstream:
		return SyncStateUpToDate
	case local == base:
		return SyncStateNeedsPull
	case upstream == base:
		return SyncStateNeedsPush
	default:
		return SyncStateDiverged
	}
}
