package models

import "time"

// InspectionRecord is the audit document written to Firestore for each
// processed submission. It tracks what was produced and how the best-effort
// side effects fared.
type InspectionRecord struct {
	SubmissionID   string    `firestore:"submissionId,omitempty"`
	Supplier       string    `firestore:"supplier,omitempty"`
	InspectionDate string    `firestore:"inspectionDate,omitempty"`
	ReportFilename string    `firestore:"reportFilename,omitempty"`
	PageCount      int       `firestore:"pageCount,omitempty"`
	ArchiveLink    string    `firestore:"archiveLink,omitempty"`
	LedgerStatus   string    `firestore:"ledgerStatus,omitempty"`
	ArchiveStatus  string    `firestore:"archiveStatus,omitempty"`
	Warnings       []string  `firestore:"warnings,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt,omitempty"`
}

// SideEffects reports the outcome of the best-effort post-assembly steps.
// A failed step carries its error here instead of failing the request.
type SideEffects struct {
	LedgerErr   error
	ArchiveErr  error
	ArchiveLink string
	AuditErr    error
}

// Result is what the pipeline hands back to the HTTP layer: the rendered
// report plus the side-effect outcomes for logging.
type Result struct {
	Filename    string
	PDF         []byte
	PageCount   int
	SideEffects SideEffects
	Warnings    []string
}
