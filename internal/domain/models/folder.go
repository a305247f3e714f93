package models

import (
	"time"
)

// FolderType records how a folder came to exist
type FolderType string

const (
	FolderTypeSystem        FolderType = "system"         // default parent folder
	FolderTypeUserCreated   FolderType = "user_created"   // created explicitly by a user
	FolderTypeAutoGenerated FolderType = "auto_generated" // category folder created on upload
)

// DefaultParentFolderName is the name given to the top-level folder created
// when an application has none
const DefaultParentFolderName = "Application Documents"

type Folder struct {
	ID            string     `json:"id" db:"id"`
	ApplicationID string     `json:"application_id" db:"application_id"`
	ParentID      *string    `json:"parent_id" db:"parent_id"` // NULL = top-level folder
	Name          string     `json:"name" db:"name"`
	FolderType    FolderType `json:"folder_type" db:"folder_type"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// CategoryFolderName maps a document type to the name of the category child
// folder under the application's parent folder. Unknown or empty document
// types have no category folder; those files attach directly to the parent.
func CategoryFolderName(documentType string) (string, bool) {
	switch documentType {
	case "borrower":
		return "Borrower Documents", true
	case "guarantor":
		return "Guarantor Documents", true
	case "collateral":
		return "Collateral Documents", true
	default:
		return "", false
	}
}
