// model/principal.go
package model

import "time"

// Principal is the resolved user context for a single authenticated request.
// It is constructed once from session/token data and never mutated afterwards.
type Principal struct {
	ID                 string        `json:"id"`
	OrganizationID     string        `json:"organization_id"`
	Roles              []Role        `json:"roles"`
	Permissions        PermissionSet `json:"permissions"`
	IsAttorney         bool          `json:"is_attorney"`
	BarAdmissions      []string      `json:"bar_admissions,omitempty"`
	MatterIDs          []string      `json:"matter_ids,omitempty"`
	ClientIDs          []string      `json:"client_ids,omitempty"`
	FormerClientIDs    []string      `json:"former_client_ids,omitempty"`
	WaiverIDs          []string      `json:"waiver_ids,omitempty"`
	JointDefenseGroups []string      `json:"joint_defense_groups,omitempty"`
	Wall               *EthicalWall  `json:"wall,omitempty"`
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasMatterAccess reports whether the principal has been granted access to
// the given matter.
func (p *Principal) HasMatterAccess(matterID string) bool {
	return containsString(p.MatterIDs, matterID)
}

// RepresentsClient reports whether the principal currently represents the
// given client.
func (p *Principal) RepresentsClient(clientID string) bool {
	return containsString(p.ClientIDs, clientID)
}

// IsFormerClient reports whether the given party is a former client of the
// principal.
func (p *Principal) IsFormerClient(clientID string) bool {
	return containsString(p.FormerClientIDs, clientID)
}

// InJointDefenseGroup reports membership in a joint-defense group.
func (p *Principal) InJointDefenseGroup(groupID string) bool {
	return containsString(p.JointDefenseGroups, groupID)
}

// EthicalWall is a Chinese-Wall screen isolating a principal from specific
// matters, clients, and opposing parties. It is owned by the ethics
// administration; the evaluation core only reads it.
type EthicalWall struct {
	ID               string      `json:"id"`
	PrincipalID      string      `json:"principal_id"`
	MatterIDs        []string    `json:"matter_ids,omitempty"`
	ClientIDs        []string    `json:"client_ids,omitempty"`
	OpposingPartyIDs []string    `json:"opposing_party_ids,omitempty"`
	Reason           string      `json:"reason"`
	ApproverID       string      `json:"approver_id"`
	CreatedAt        time.Time   `json:"created_at"`
	ExpiresAt        *time.Time  `json:"expires_at,omitempty"`
	Certifications   []time.Time `json:"certifications,omitempty"`
}

// ActiveAt reports whether the wall still screens the principal at the given
// instant. An expired wall is treated as absent.
func (w *EthicalWall) ActiveAt(now time.Time) bool {
	if w == nil {
		return false
	}
	if w.ExpiresAt != nil && w.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// ScreensMatter reports whether the wall covers the given matter id.
func (w *EthicalWall) ScreensMatter(matterID string) bool {
	return containsString(w.MatterIDs, matterID)
}

// ScreensClient reports whether the wall covers the given client id.
func (w *EthicalWall) ScreensClient(clientID string) bool {
	return containsString(w.ClientIDs, clientID)
}

// ScreensParty reports whether the wall covers the given opposing party.
func (w *EthicalWall) ScreensParty(partyID string) bool {
	return containsString(w.OpposingPartyIDs, partyID)
}

func containsString(list []string, target string) bool {
	if target == "" {
		return false
	}
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
