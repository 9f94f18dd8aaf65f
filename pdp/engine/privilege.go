package engine

import (
	"fmt"

	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

// Reasons surfaced to callers on privilege denials.
const (
	ReasonAttorneyRequired    = "Attorney status required"
	ReasonNoMatterAccess      = "No access to associated matter"
	ReasonWorkProductAuthor   = "Work product access restricted to authoring attorney"
	ReasonJointDefenseOutside = "Not a member of the joint defense group"
	ReasonRoleNotEligible     = "Role not eligible for privileged material"
)

// PrivilegeClassifier decides whether a principal may access a resource at a
// given sensitivity classification.
type PrivilegeClassifier struct{}

func NewPrivilegeClassifier() *PrivilegeClassifier {
	return &PrivilegeClassifier{}
}

// CheckInput bundles one privilege check. Metadata may be nil when the
// resource carries no sensitivity record, in which case the classifier falls
// back to role-based access.
type CheckInput struct {
	Principal              *model.Principal
	Metadata               *model.PrivilegeMetadata
	RequiredClassification model.Classification
	RequireAttorney        bool

	// Reviewers is the designated reviewer allow-list for work product,
	// supplied by the document store alongside the metadata.
	Reviewers []string
}

// Check runs the classification decision. The resulting PrivilegeDecision is
// immutable; LogRequired marks the branches that must reach the audit sink.
func (pc *PrivilegeClassifier) Check(in CheckInput) *pdp_model.PrivilegeDecision {
	if in.Principal == nil {
		return deny(in.RequiredClassification, "No principal in request")
	}

	if in.Metadata == nil {
		return pc.checkByRole(in)
	}

	meta := in.Metadata

	// A recorded privilege waiver overrides the classification entirely,
	// but the access must always be audited.
	if meta.Waived {
		decision := &pdp_model.PrivilegeDecision{
			Kind:           pdp_model.DecisionAllowed,
			Allowed:        true,
			Classification: meta.Classification,
			Reason:         waiverWarning(meta),
			WaivedAt:       meta.WaivedAt,
			WaiverReason:   meta.WaiverReason,
			LogRequired:    true,
		}
		return decision
	}

	// Strictly below the required classification: accessible regardless of
	// any other restriction. Privileged-and-above material is still logged.
	if meta.Classification.Rank() < in.RequiredClassification.Rank() {
		return &pdp_model.PrivilegeDecision{
			Kind:           pdp_model.DecisionAllowed,
			Allowed:        true,
			Classification: meta.Classification,
			LogRequired:    meta.Classification.AtLeast(model.ClassificationPrivileged),
		}
	}

	if in.RequireAttorney && !in.Principal.IsAttorney {
		return deny(meta.Classification, ReasonAttorneyRequired)
	}

	if meta.MatterID != "" && !in.Principal.HasMatterAccess(meta.MatterID) {
		return deny(meta.Classification, ReasonNoMatterAccess)
	}

	if meta.Classification == model.ClassificationWorkProduct {
		if in.Principal.ID != meta.AttorneyID && !isDesignatedReviewer(in.Principal.ID, in.Reviewers) {
			return deny(meta.Classification, ReasonWorkProductAuthor)
		}
	}

	if meta.Classification == model.ClassificationJointDefense {
		if meta.JointDefenseGroupID == "" {
			// No group recorded on the resource, so there is nothing to
			// verify membership against. Surface the gap for compliance
			// review rather than denying retroactively tagged material.
			logger.Warn("Joint defense resource without group id, allowing without membership check",
				zap.String("resourceID", meta.ResourceID),
				zap.String("principalID", in.Principal.ID))
		} else if !in.Principal.InJointDefenseGroup(meta.JointDefenseGroupID) {
			return deny(meta.Classification, ReasonJointDefenseOutside)
		}
	}

	return &pdp_model.PrivilegeDecision{
		Kind:           pdp_model.DecisionAllowed,
		Allowed:        true,
		Classification: meta.Classification,
		LogRequired:    true,
	}
}

// checkByRole is the fallback when no privilege metadata is available: the
// attorney flag and role set are all there is to go on.
func (pc *PrivilegeClassifier) checkByRole(in CheckInput) *pdp_model.PrivilegeDecision {
	if in.RequireAttorney && !in.Principal.IsAttorney {
		return deny(in.RequiredClassification, ReasonAttorneyRequired)
	}

	if in.RequiredClassification.AtLeast(model.ClassificationPrivileged) {
		eligible := false
		for _, role := range in.Principal.Roles {
			if _, ok := model.PrivilegeEligibleRoles[role]; ok {
				eligible = true
				break
			}
		}
		if !eligible && !in.Principal.HasRole(model.RoleSuperAdmin) {
			return deny(in.RequiredClassification, ReasonRoleNotEligible)
		}
	}

	return &pdp_model.PrivilegeDecision{
		Kind:           pdp_model.DecisionAllowed,
		Allowed:        true,
		Classification: in.RequiredClassification,
		LogRequired:    in.RequiredClassification.AtLeast(model.ClassificationPrivileged),
	}
}

func deny(classification model.Classification, reason string) *pdp_model.PrivilegeDecision {
	return &pdp_model.PrivilegeDecision{
		Kind:           pdp_model.DecisionDenied,
		Allowed:        false,
		Classification: classification,
		Reason:         reason,
		LogRequired:    true,
	}
}

func waiverWarning(meta *model.PrivilegeMetadata) string {
	if meta.WaivedAt != nil {
		return fmt.Sprintf("Privilege waived at %s: %s", meta.WaivedAt.Format("2006-01-02"), meta.WaiverReason)
	}
	return fmt.Sprintf("Privilege waived: %s", meta.WaiverReason)
}

func isDesignatedReviewer(principalID string, reviewers []string) bool {
	for _, reviewer := range reviewers {
		if reviewer == principalID {
			return true
		}
	}
	return false
}
