package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	test_mock "github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/audit"
	praxis_errors "github.com/counselware/praxis/errors"
	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/pdp/engine"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/test/mock"
)

func newOrchestrator() (*engine.Orchestrator, *mock.MockWaiverResolver, *mock.MockAuditService) {
	resolver := new(mock.MockWaiverResolver)
	auditService := new(mock.MockAuditService)
	auditService.On("RecordDecision", test_mock.Anything, test_mock.Anything).Return(nil)
	return engine.NewOrchestrator(resolver, auditService), resolver, auditService
}

func TestOrchestrator_NilPrincipal(t *testing.T) {
	orchestrator, _, _ := newOrchestrator()

	_, err := orchestrator.Authorize(context.Background(), &pdp_model.AccessRequest{})
	assert.ErrorIs(t, err, praxis_errors.ErrAuthenticationMissing)

	_, err = orchestrator.Authorize(context.Background(), nil)
	assert.ErrorIs(t, err, praxis_errors.ErrAuthenticationMissing)
}

func TestOrchestrator_PermissionDenied(t *testing.T) {
	orchestrator, _, auditService := newOrchestrator()

	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "user-1",
			Permissions: model.NewPermissionSet(model.PermissionMatterRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionWallManage},
		},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, praxis_errors.ErrPermissionDenied)

	var denial *praxis_errors.AccessDeniedError
	assert.True(t, errors.As(err, &denial))
	assert.Equal(t, "Insufficient permissions", denial.Reason)

	auditService.AssertCalled(t, "RecordDecision", test_mock.Anything, test_mock.MatchedBy(func(record audit.Record) bool {
		return record.Decision == string(pdp_model.DecisionDenied) && record.PrincipalID == "user-1"
	}))
}

func TestOrchestrator_PrivilegeDenied(t *testing.T) {
	orchestrator, _, auditService := newOrchestrator()

	required := model.ClassificationWorkProduct
	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "atty-2",
			IsAttorney:  true,
			MatterIDs:   []string{"matter-1"},
			Permissions: model.NewPermissionSet(model.PermissionDocumentRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions:    []model.Permission{model.PermissionDocumentRead},
			RequiredClassification: &required,
		},
		Privilege: &model.PrivilegeMetadata{
			ResourceID:     "doc-1",
			Classification: model.ClassificationWorkProduct,
			AttorneyID:     "atty-1",
			MatterID:       "matter-1",
		},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, praxis_errors.ErrPrivilegeDenied)

	var denial *praxis_errors.AccessDeniedError
	assert.True(t, errors.As(err, &denial))
	assert.Equal(t, "Work product access restricted to authoring attorney", denial.Reason)

	auditService.AssertCalled(t, "RecordDecision", test_mock.Anything, test_mock.MatchedBy(func(record audit.Record) bool {
		return record.Decision == string(pdp_model.DecisionDenied) &&
			record.Classification == model.ClassificationWorkProduct.String()
	}))
}

func TestOrchestrator_ConflictDenied(t *testing.T) {
	orchestrator, resolver, auditService := newOrchestrator()
	resolver.On("FindValidWaiver", test_mock.Anything, test_mock.Anything, test_mock.Anything, test_mock.Anything).
		Return("", nil)

	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "atty-1",
			ClientIDs:   []string{"party-x"},
			Permissions: model.NewPermissionSet(model.PermissionMatterRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionMatterRead},
			ScreenConflicts:     true,
		},
		Matter: &model.MatterConflictMetadata{
			MatterID:        "matter-1",
			OpposingParties: []string{"party-x"},
		},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, praxis_errors.ErrConflictDetected)

	var denial *praxis_errors.AccessDeniedError
	assert.True(t, errors.As(err, &denial))
	assert.Equal(t, model.ConflictTypeDirectAdverse, denial.ConflictType)

	// The screening itself is audit-mandatory even though access was denied.
	auditService.AssertCalled(t, "RecordDecision", test_mock.Anything, test_mock.MatchedBy(func(record audit.Record) bool {
		return record.Decision == string(pdp_model.DecisionDenied) &&
			record.ConflictType == string(model.ConflictTypeDirectAdverse) &&
			record.CheckID != ""
	}))
}

func TestOrchestrator_WaivedConflict(t *testing.T) {
	orchestrator, resolver, auditService := newOrchestrator()
	resolver.On("FindValidWaiver", test_mock.Anything, []string{"waiver-1"}, "matter-1", model.ConflictTypeDirectAdverse).
		Return("waiver-1", nil)

	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "atty-1",
			ClientIDs:   []string{"party-x"},
			WaiverIDs:   []string{"waiver-1"},
			Permissions: model.NewPermissionSet(model.PermissionMatterRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionMatterRead},
			ScreenConflicts:     true,
		},
		Matter: &model.MatterConflictMetadata{
			MatterID:        "matter-1",
			OpposingParties: []string{"party-x"},
		},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.NoError(t, err)
	assert.True(t, decision.Waived())
	assert.Equal(t, pdp_model.DecisionAllowedWithWaiver, decision.Kind)
	assert.Equal(t, "waiver-1", decision.Conflict.WaiverID)

	auditService.AssertCalled(t, "RecordDecision", test_mock.Anything, test_mock.MatchedBy(func(record audit.Record) bool {
		return record.Decision == string(pdp_model.DecisionAllowedWithWaiver) &&
			record.WaiverID == "waiver-1"
	}))
}

func TestOrchestrator_MissingMatterContext_FailsOpen(t *testing.T) {
	orchestrator, _, auditService := newOrchestrator()

	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "atty-1",
			Permissions: model.NewPermissionSet(model.PermissionMatterRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionMatterRead},
			ScreenConflicts:     true,
		},
		// Matter left nil: context could not be resolved.
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.NoError(t, err)
	assert.Nil(t, decision.Conflict)
	assert.Equal(t, pdp_model.DecisionAllowed, decision.Kind)

	auditService.AssertCalled(t, "RecordDecision", test_mock.Anything, test_mock.MatchedBy(func(record audit.Record) bool {
		return record.Reason == "Conflict screening skipped: no matter context"
	}))
}

func TestOrchestrator_AuditSinkFailureDoesNotOverturn(t *testing.T) {
	resolver := new(mock.MockWaiverResolver)
	auditService := new(mock.MockAuditService)
	auditService.On("RecordDecision", test_mock.Anything, test_mock.Anything).
		Return(errors.New("sink unavailable"))
	orchestrator := engine.NewOrchestrator(resolver, auditService)

	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "atty-1",
			Permissions: model.NewPermissionSet(model.PermissionMatterRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionMatterRead},
			ScreenConflicts:     true,
		},
		Matter: &model.MatterConflictMetadata{MatterID: "matter-1"},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, pdp_model.DecisionAllowed, decision.Kind)
	assert.NotNil(t, decision.Conflict)
	assert.Equal(t, model.ConflictStatusCleared, decision.Conflict.Status)
}

func TestOrchestrator_PrivilegeWaiver_AllowedWithWaiver(t *testing.T) {
	orchestrator, _, _ := newOrchestrator()

	required := model.ClassificationPrivileged
	request := &pdp_model.AccessRequest{
		Principal: &model.Principal{
			ID:          "staff-1",
			Permissions: model.NewPermissionSet(model.PermissionDocumentRead),
		},
		Policy: pdp_model.RoutePolicy{
			RequiredPermissions:    []model.Permission{model.PermissionDocumentRead},
			RequiredClassification: &required,
		},
		Privilege: &model.PrivilegeMetadata{
			ResourceID:     "doc-1",
			Classification: model.ClassificationPrivileged,
			Waived:         true,
			WaiverReason:   "Produced in discovery",
		},
	}

	decision, err := orchestrator.Authorize(context.Background(), request)
	assert.NoError(t, err)
	assert.True(t, decision.Waived())
	assert.NotNil(t, decision.Privilege)
	assert.Contains(t, decision.Reason, "Produced in discovery")
}
