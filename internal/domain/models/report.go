package models

import (
	"time"
)

// CleanupEntry is the per-application outcome of one integrity sweep pass
type CleanupEntry struct {
	ApplicationID  string `json:"application_id"`
	FoldersRemoved int    `json:"folders_removed"`
	FilesMoved     int    `json:"files_moved"`
	Err            string `json:"error,omitempty"`
}

// CleanupReport is the process-local result of an integrity sweep run. It is
// never persisted; callers log it or hand it back over HTTP.
type CleanupReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Entries    []CleanupEntry `json:"entries"`
}

// Failures returns the number of applications the sweep could not fix
func (r *CleanupReport) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != "" {
			n++
		}
	}
	return n
}

// TotalFoldersRemoved sums folders removed across all applications
func (r *CleanupReport) TotalFoldersRemoved() int {
	n := 0
	for _, e := range r.Entries {
		n += e.FoldersRemoved
	}
	return n
}

// TotalFilesMoved sums files re-pointed across all applications
func (r *CleanupReport) TotalFilesMoved() int {
	n := 0
	for _, e := range r.Entries {
		n += e.FilesMoved
	}
	return n
}
