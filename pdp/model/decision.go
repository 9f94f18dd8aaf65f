package model

import (
	"time"

	"github.com/counselware/praxis/model"
)

// DecisionKind is the outcome of an evaluation.
type DecisionKind string

const (
	DecisionAllowed           DecisionKind = "ALLOWED"
	DecisionAllowedWithWaiver DecisionKind = "ALLOWED_WITH_WAIVER"
	DecisionDenied            DecisionKind = "DENIED"
	DecisionScreened          DecisionKind = "SCREENED"
)

// PrivilegeDecision is the immutable result of one privilege classification.
type PrivilegeDecision struct {
	Kind           DecisionKind         `json:"kind"`
	Allowed        bool                 `json:"allowed"`
	Classification model.Classification `json:"classification"`
	Reason         string               `json:"reason,omitempty"`
	WaivedAt       *time.Time           `json:"waived_at,omitempty"`
	WaiverReason   string               `json:"waiver_reason,omitempty"`

	// LogRequired marks decisions that must reach the audit sink.
	LogRequired bool `json:"log_required"`
}

// ConflictCheck is the immutable result of one conflict screening. Every
// check carries a unique id and timestamp and is audit-mandatory regardless
// of outcome.
type ConflictCheck struct {
	CheckID          string               `json:"check_id"`
	MatterID         string               `json:"matter_id"`
	ClientID         string               `json:"client_id,omitempty"`
	OpposingParties  []string             `json:"opposing_parties,omitempty"`
	ConflictDetected bool                 `json:"conflict_detected"`
	ConflictType     model.ConflictType   `json:"conflict_type"`
	Status           model.ConflictStatus `json:"status"`
	AccessGranted    bool                 `json:"access_granted"`
	Reason           string               `json:"reason,omitempty"`
	WaiverID         string               `json:"waiver_id,omitempty"`
	CheckedAt        time.Time            `json:"checked_at"`
}

// DecisionContext is attached to a request that was allowed to proceed, so
// downstream handlers can surface waiver banners or screening notes.
type DecisionContext struct {
	Kind      DecisionKind       `json:"kind"`
	Reason    string             `json:"reason,omitempty"`
	Privilege *PrivilegeDecision `json:"privilege,omitempty"`
	Conflict  *ConflictCheck     `json:"conflict,omitempty"`
}

// Waived reports whether the request proceeded only because of a waiver.
func (d *DecisionContext) Waived() bool {
	return d != nil && d.Kind == DecisionAllowedWithWaiver
}
