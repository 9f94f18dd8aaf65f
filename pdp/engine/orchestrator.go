package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/counselware/praxis/audit"
	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

// Orchestrator sequences the evaluators for one access request: permission
// check first, then privilege classification and conflict screening as the
// route policy demands. Negative outcomes become AccessDeniedError values;
// positive outcomes produce a DecisionContext for downstream handlers.
type Orchestrator struct {
	permissions *PermissionEvaluator
	privilege   *PrivilegeClassifier
	conflicts   *ConflictScreener
	audit       audit.Service
}

func NewOrchestrator(waivers WaiverResolver, auditService audit.Service) *Orchestrator {
	return &Orchestrator{
		permissions: NewPermissionEvaluator(),
		privilege:   NewPrivilegeClassifier(),
		conflicts:   NewConflictScreener(waivers),
		audit:       auditService,
	}
}

// Authorize evaluates the request and either returns the decision context or
// an error describing the denial. Collaborator failures propagate unchanged;
// the caller decides whether to fail closed.
func (o *Orchestrator) Authorize(ctx context.Context, request *pdp_model.AccessRequest) (*pdp_model.DecisionContext, error) {
	if request == nil || request.Principal == nil {
		return nil, praxis_errors.ErrAuthenticationMissing
	}

	principal := request.Principal
	decision := &pdp_model.DecisionContext{Kind: pdp_model.DecisionAllowed}

	// Coarse capability check first: cheapest, and most requests stop here.
	if !o.permissions.Evaluate(principal, request.Policy.RequiredPermissions) {
		o.writeRecord(ctx, audit.Record{
			PrincipalID:    principal.ID,
			OrganizationID: principal.OrganizationID,
			Decision:       string(pdp_model.DecisionDenied),
			Reason:         "Insufficient permissions",
		})
		return nil, praxis_errors.NewPermissionDenial("Insufficient permissions")
	}

	if request.Policy.PrivilegeSensitive() {
		privilegeDecision, err := o.classifyPrivilege(ctx, request)
		if err != nil {
			return nil, err
		}
		decision.Privilege = privilegeDecision
		if privilegeDecision.WaivedAt != nil || privilegeDecision.WaiverReason != "" {
			decision.Kind = pdp_model.DecisionAllowedWithWaiver
			decision.Reason = privilegeDecision.Reason
		}
	}

	if request.Policy.ScreenConflicts {
		conflictCheck, err := o.screenConflicts(ctx, request)
		if err != nil {
			return nil, err
		}
		if conflictCheck != nil {
			decision.Conflict = conflictCheck
			if conflictCheck.Status == model.ConflictStatusWaived {
				decision.Kind = pdp_model.DecisionAllowedWithWaiver
				decision.Reason = conflictCheck.Reason
			}
		}
	}

	return decision, nil
}

func (o *Orchestrator) classifyPrivilege(ctx context.Context, request *pdp_model.AccessRequest) (*pdp_model.PrivilegeDecision, error) {
	required := model.ClassificationPublic
	if request.Policy.RequiredClassification != nil {
		required = *request.Policy.RequiredClassification
	}

	privilegeDecision := o.privilege.Check(CheckInput{
		Principal:              request.Principal,
		Metadata:               request.Privilege,
		RequiredClassification: required,
		RequireAttorney:        request.Policy.RequireAttorney,
		Reviewers:              request.Reviewers,
	})

	if privilegeDecision.LogRequired {
		o.writeRecord(ctx, audit.Record{
			PrincipalID:    request.Principal.ID,
			OrganizationID: request.Principal.OrganizationID,
			Decision:       string(privilegeDecision.Kind),
			Classification: privilegeDecision.Classification.String(),
			Reason:         privilegeDecision.Reason,
		})
	}

	if !privilegeDecision.Allowed {
		return nil, praxis_errors.NewPrivilegeDenial(privilegeDecision.Reason, privilegeDecision.Classification)
	}
	return privilegeDecision, nil
}

func (o *Orchestrator) screenConflicts(ctx context.Context, request *pdp_model.AccessRequest) (*pdp_model.ConflictCheck, error) {
	principal := request.Principal

	// Fail open on missing matter context: the screener cannot run without
	// knowing the matter, so the access proceeds with a logged warning. This
	// is a deliberate policy default, not an oversight.
	if request.Matter == nil {
		logger.Warn("Conflict screening skipped: no matter context resolvable",
			zap.String("principalID", principal.ID))
		o.writeRecord(ctx, audit.Record{
			PrincipalID:    principal.ID,
			OrganizationID: principal.OrganizationID,
			Decision:       string(pdp_model.DecisionAllowed),
			ConflictType:   string(model.ConflictTypeNone),
			Reason:         "Conflict screening skipped: no matter context",
		})
		return nil, nil
	}

	conflictCheck, err := o.conflicts.Screen(ctx, principal, request.Matter)
	if err != nil {
		return nil, err
	}

	// Conflict checks are audit-mandatory regardless of outcome.
	record := audit.Record{
		Timestamp:       conflictCheck.CheckedAt,
		PrincipalID:     principal.ID,
		OrganizationID:  principal.OrganizationID,
		ConflictType:    string(conflictCheck.ConflictType),
		Reason:          conflictCheck.Reason,
		MatterID:        conflictCheck.MatterID,
		ClientID:        conflictCheck.ClientID,
		OpposingParties: conflictCheck.OpposingParties,
		WaiverID:        conflictCheck.WaiverID,
		CheckID:         conflictCheck.CheckID,
	}
	switch {
	case conflictCheck.Status == model.ConflictStatusScreened:
		record.Decision = string(pdp_model.DecisionScreened)
	case conflictCheck.Status == model.ConflictStatusWaived:
		record.Decision = string(pdp_model.DecisionAllowedWithWaiver)
	case conflictCheck.AccessGranted:
		record.Decision = string(pdp_model.DecisionAllowed)
	default:
		record.Decision = string(pdp_model.DecisionDenied)
	}
	o.writeRecord(ctx, record)

	if !conflictCheck.AccessGranted {
		return nil, praxis_errors.NewConflictDenial(conflictCheck.Reason, conflictCheck.ConflictType)
	}
	return conflictCheck, nil
}

// writeRecord appends to the audit sink. A sink failure is logged but does
// not overturn the access decision.
func (o *Orchestrator) writeRecord(ctx context.Context, record audit.Record) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := o.audit.RecordDecision(ctx, record); err != nil {
		logger.Error("Failed to write access decision record",
			zap.Error(err),
			zap.String("principalID", record.PrincipalID),
			zap.String("decision", record.Decision))
	}
}
