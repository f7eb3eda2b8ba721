package models

import (
	"encoding/json"
	"time"
)

// ImportJobStatus is the lifecycle state of an import job
type ImportJobStatus string

const (
	ImportJobStatusPending   ImportJobStatus = "pending"
	ImportJobStatusRunning   ImportJobStatus = "running"
	ImportJobStatusCompleted ImportJobStatus = "completed"
)

// ImportFile holds the raw homeowner directory export uploaded for a run.
type ImportFile struct {
	ID        string    `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	Filename  string    `json:"filename" db:"filename"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateImportFileRequest is the request for uploading a source file
type CreateImportFileRequest struct {
	Filename string `json:"filename" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// ImportJob is the unit of work for one source file.
// Only the orchestrator mutates it, at run start and finalization.
type ImportJob struct {
	ID                string          `json:"id" db:"id"`
	TenantID          string          `json:"tenant_id" db:"tenant_id"`
	FileID            string          `json:"file_id" db:"file_id"`
	Status            ImportJobStatus `json:"status" db:"status"`
	TotalRows         int             `json:"total_rows" db:"total_rows"`
	ProcessedRows     int             `json:"processed_rows" db:"processed_rows"`
	MatchedEmail      int             `json:"matched_email" db:"matched_email"`
	MatchedPhone      int             `json:"matched_phone" db:"matched_phone"`
	MatchedExternalID int             `json:"matched_external_id" db:"matched_external_id"`
	Unmatched         int             `json:"unmatched" db:"unmatched"`
	Conflicts         int             `json:"conflicts" db:"conflicts"`
	Summary           string          `json:"summary" db:"summary"`
	StartedAt         *time.Time      `json:"started_at,omitempty" db:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateImportJobRequest is the request for registering an import job
type CreateImportJobRequest struct {
	FileID string `json:"file_id" validate:"required"`
}

// ImportSummary is the response contract for a completed run.
type ImportSummary struct {
	JobID             string            `json:"job_id"`
	TotalRows         int               `json:"total_rows"`
	ProcessedRows     int               `json:"processed_rows"`
	SkippedRows       int               `json:"skipped_rows"`
	FailedRows        int               `json:"failed_rows"`
	MatchedEmail      int               `json:"matched_email"`
	MatchedPhone      int               `json:"matched_phone"`
	MatchedExternalID int               `json:"matched_external_id"`
	Unmatched         int               `json:"unmatched"`
	Conflicts         int               `json:"conflicts"`
	PersonsCreated    int               `json:"persons_created"`
	RolesCreated      int               `json:"roles_created"`
	ReviewIssues      int               `json:"review_issues"`
	ConflictSamples   []ConflictSample  `json:"conflict_samples,omitempty"`
}

// ConflictSample captures one cross-channel conflict for reporting.
// The orchestrator keeps at most a small fixed number of these in memory.
type ConflictSample struct {
	RowNumber       int    `json:"row_number"`
	UnitNumber      string `json:"unit_number"`
	EmailPersonID   string `json:"email_person_id"`
	PhonePersonID   string `json:"phone_person_id"`
	NormalizedEmail string `json:"normalized_email"`
	CanonicalPhone  string `json:"canonical_phone"`
}

// ImportRowSnapshot is the immutable audit record for one processed row.
// Created exactly once per processed row; never updated.
type ImportRowSnapshot struct {
	ID              string          `json:"id" db:"id"`
	TenantID        string          `json:"tenant_id" db:"tenant_id"`
	JobID           string          `json:"job_id" db:"job_id"`
	RowNumber       int             `json:"row_number" db:"row_number"`
	RawRecord       json.RawMessage `json:"raw_record" db:"raw_record"`
	UnitNumber      string          `json:"unit_number" db:"unit_number"`
	FirstName       string          `json:"first_name" db:"first_name"`
	LastName        string          `json:"last_name" db:"last_name"`
	Email           string          `json:"email" db:"email"`
	Phone           string          `json:"phone" db:"phone"`
	NormalizedEmail string          `json:"normalized_email" db:"normalized_email"`
	PhoneRaw        string          `json:"phone_raw" db:"phone_raw"`
	PhoneCanonical  *string         `json:"phone_canonical,omitempty" db:"phone_canonical"`
	MatchedPersonID *string         `json:"matched_person_id,omitempty" db:"matched_person_id"`
	MatchMethod     MatchMethod     `json:"match_method" db:"match_method"`
	MatchValue      string          `json:"match_value" db:"match_value"`
	StatusDetail    string          `json:"status_detail" db:"status_detail"`
	NeedsReview     bool            `json:"needs_review" db:"needs_review"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ReviewIssueType classifies why a row needs manual intervention
type ReviewIssueType string

const (
	// ReviewIssueUnitCreateRequired flags rows whose unit number has no match
	// in the unit directory.
	ReviewIssueUnitCreateRequired ReviewIssueType = "unit_create_required"
)

// ReviewIssue is an escalation record for a row that could not be resolved
// automatically.
type ReviewIssue struct {
	ID         string          `json:"id" db:"id"`
	TenantID   string          `json:"tenant_id" db:"tenant_id"`
	JobID      string          `json:"job_id" db:"job_id"`
	IssueType  ReviewIssueType `json:"issue_type" db:"issue_type"`
	UnitNumber string          `json:"unit_number" db:"unit_number"`
	RawRecord  json.RawMessage `json:"raw_record" db:"raw_record"`
	Reason     string          `json:"reason" db:"reason"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
