package status

import "github.com/temirov/gitstatus/internal/ui"

var syncStateTones = map[SyncState]ui.StatusTone{
	SyncStateUpToDate:    ui.ToneSuccess,
	SyncStateNeedsPull:   ui.ToneWarning,
	SyncStateNeedsPush:   ui.ToneInfo,
	SyncStateDiverged:    ui.ToneError,
	SyncStateUnavailable: ui.ToneMuted,
}

// ReportRows converts records into renderable rows, preserving their order.
func ReportRows(records []RepositoryInfo) []ui.ReportRow {
	rows := make([]ui.ReportRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, ui.ReportRow{
			FolderName:  record.FolderName,
			Path:        record.Path,
			Branch:      record.Branch,
			Status:      string(record.Status),
			Reason:      string(record.Reason),
			Failure:     record.Failure,
			StatusLabel: record.Status.Label(),
			Tone:        syncStateTones[record.Status],
		})
	}
	return rows
}
