// audit/model.go
package audit

import "time"

// Record is one append-only access-decision entry. Records are written once
// and never mutated; retrieval is a compliance-reporting concern outside the
// evaluation core.
type Record struct {
	Timestamp       time.Time `json:"timestamp"`
	PrincipalID     string    `json:"principal_id"`
	OrganizationID  string    `json:"organization_id"`
	Decision        string    `json:"decision"`
	Classification  string    `json:"classification,omitempty"`
	ConflictType    string    `json:"conflict_type,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	MatterID        string    `json:"matter_id,omitempty"`
	ClientID        string    `json:"client_id,omitempty"`
	OpposingParties []string  `json:"opposing_parties,omitempty"`
	WaiverID        string    `json:"waiver_id,omitempty"`
	CheckID         string    `json:"check_id,omitempty"`
}

// Adverse reports whether the record describes a denial or a detected
// conflict, which must be logged at warning severity.
func (r Record) Adverse() bool {
	if r.Decision == "DENIED" || r.Decision == "SCREENED" {
		return true
	}
	return r.ConflictType != "" && r.ConflictType != "NONE"
}
