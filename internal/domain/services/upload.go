package services

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"loandesk/internal/domain"
)

// UploadResolver decides which folder a new file belongs to, guaranteeing
// the owning application has exactly one top-level folder before returning
type UploadResolver interface {
	// ResolveFolderForUpload returns the id of the folder the upload should
	// attach to. An explicitly requested folder is honored after an ownership
	// check; otherwise the application's parent folder (or a category child
	// under it) is used, created on demand.
	ResolveFolderForUpload(ctx context.Context, params UploadParams) (string, error)
}

// UploadParams is the validated form of upload-time folder parameters.
// Construct it with NewUploadParams; a zero value never passed validation
// and must not reach the resolver.
type UploadParams struct {
	applicationID string
	folderID      *string
	documentType  string
}

// NewUploadParams validates raw upload parameters once, up front. Identifier
// fields must be well-formed UUIDs; a malformed value fails with
// InvalidParameterError naming the offending field. Existence and ownership
// of the referenced rows are checked later, by the resolver.
func NewUploadParams(applicationID, folderID, documentType string) (UploadParams, error) {
	if applicationID == "" {
		return UploadParams{}, &domain.InvalidParameterError{Field: "application_id", Message: "is required"}
	}
	if _, err := uuid.Parse(applicationID); err != nil {
		return UploadParams{}, &domain.InvalidParameterError{Field: "application_id", Message: "must be a valid UUID"}
	}

	p := UploadParams{applicationID: applicationID, documentType: documentType}

	if folderID != "" {
		if _, err := uuid.Parse(folderID); err != nil {
			return UploadParams{}, &domain.InvalidParameterError{Field: "folder_id", Message: "must be a valid UUID"}
		}
		p.folderID = &folderID
	}

	if err := p.validate(); err != nil {
		return UploadParams{}, &domain.InvalidParameterError{Field: "document_type", Message: err.Error()}
	}

	return p, nil
}

// documentTypePattern keeps document types to simple lowercase tags
// ("borrower", "guarantor", "collateral", ...)
var documentTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func (p UploadParams) validate() error {
	if p.documentType == "" {
		return nil
	}
	return validation.Validate(p.documentType,
		validation.Length(1, 64),
		validation.Match(documentTypePattern).Error("must be a lowercase tag"),
	)
}

// ApplicationID returns the validated owning application id
func (p UploadParams) ApplicationID() string { return p.applicationID }

// FolderID returns the explicitly requested folder id, nil if none was given
func (p UploadParams) FolderID() *string { return p.folderID }

// DocumentType returns the categorical tag, empty if none was given
func (p UploadParams) DocumentType() string { return p.documentType }
