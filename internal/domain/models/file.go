package models

import (
	"time"
)

// UploadStatus tracks the lifecycle of a stored document
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// File is a stored document record. StorageKey is an opaque pointer into the
// object store; consolidation only ever re-points FolderID, never touches the
// stored object.
type File struct {
	ID            string       `json:"id" db:"id"`
	ApplicationID string       `json:"application_id" db:"application_id"`
	FolderID      *string      `json:"folder_id" db:"folder_id"` // NULL = not filed yet
	DocumentType  string       `json:"document_type" db:"document_type"`
	Filename      string       `json:"filename" db:"filename"`
	StorageKey    string       `json:"storage_key" db:"storage_key"`
	Size          int64        `json:"size" db:"size"`
	ContentType   string       `json:"content_type" db:"content_type"`
	UploadStatus  UploadStatus `json:"upload_status" db:"upload_status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}
