// model/matter.go
package model

import "time"

// ConflictType categorizes a detected conflict of interest.
type ConflictType string

const (
	ConflictTypeNone          ConflictType = "NONE"
	ConflictTypeDirectAdverse ConflictType = "DIRECT_ADVERSE"
	ConflictTypeFormerClient  ConflictType = "FORMER_CLIENT"
	ConflictTypeImputed       ConflictType = "IMPUTED"
)

// ConflictStatus is the disposition of a conflict screening.
type ConflictStatus string

const (
	ConflictStatusCleared  ConflictStatus = "CLEARED"
	ConflictStatusActive   ConflictStatus = "ACTIVE"
	ConflictStatusWaived   ConflictStatus = "WAIVED"
	ConflictStatusScreened ConflictStatus = "SCREENED"
)

// MatterConflictMetadata is the adverse-party graph slice needed to screen a
// principal against one matter. Owned by the matter store; read-only here.
type MatterConflictMetadata struct {
	MatterID         string     `json:"matter_id"`
	ClientID         string     `json:"client_id"`
	OpposingParties  []string   `json:"opposing_parties,omitempty"`
	RelatedMatterIDs []string   `json:"related_matter_ids,omitempty"`
	ConflictChecked  bool       `json:"conflict_checked"`
	LastCheckedAt    *time.Time `json:"last_checked_at,omitempty"`
}

// ConflictWaiver records informed consent permitting access despite a
// detected conflict.
type ConflictWaiver struct {
	ID           string       `json:"id"`
	MatterID     string       `json:"matter_id"`
	ConflictType ConflictType `json:"conflict_type"`
	ClientID     string       `json:"client_id,omitempty"`
	Reason       string       `json:"reason"`
	ApprovedBy   string       `json:"approved_by"`
	SignedAt     time.Time    `json:"signed_at"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
}

// ValidFor reports whether the waiver covers the given matter and conflict
// type at the given instant.
func (w *ConflictWaiver) ValidFor(matterID string, conflictType ConflictType, now time.Time) bool {
	if w == nil {
		return false
	}
	if w.MatterID != matterID || w.ConflictType != conflictType {
		return false
	}
	if w.ExpiresAt != nil && w.ExpiresAt.Before(now) {
		return false
	}
	return true
}
