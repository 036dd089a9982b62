package dto

import (
	"time"

	"github.com/fekuna/cottontrace-service/internal/fibretrace"
)

type SyncStatus string

const (
	SyncNotSynced SyncStatus = "not_synced"
	SyncSyncing   SyncStatus = "syncing"
	SyncSynced    SyncStatus = "synced"
	SyncError     SyncStatus = "error"
)

// BatchSync is the partner sync state of one batch.
type BatchSync struct {
	BatchID    string     `json:"batchId"`
	Status     SyncStatus `json:"status"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// SyncResult pairs the partner response with the batch state after the
// call. A failed call is reported here, not as an error.
type SyncResult struct {
	Sync     BatchSync           `json:"sync"`
	Response fibretrace.Response `json:"response"`
}
