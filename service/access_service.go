package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/counselware/praxis/dao"
	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/pdp/engine"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/util"
)

// IAccessService is the policy-check entry point for controllers and the
// enforcement middleware.
type IAccessService interface {
	CheckAccess(ctx context.Context, principal *model.Principal, policy pdp_model.RoutePolicy, resourceID, matterID string) (*pdp_model.DecisionContext, error)
	ScreenMatter(ctx context.Context, principal *model.Principal, matterID string) (*pdp_model.ConflictCheck, error)
}

// AccessService resolves the metadata snapshots a request needs, runs the
// orchestrator over them, and publishes the resulting domain events.
type AccessService struct {
	orchestrator    *engine.Orchestrator
	matterDAO       *dao.MatterDAO
	privilegeDAO    *dao.PrivilegeDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

func NewAccessService(
	orchestrator *engine.Orchestrator,
	matterDAO *dao.MatterDAO,
	privilegeDAO *dao.PrivilegeDAO,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *AccessService {
	return &AccessService{
		orchestrator:    orchestrator,
		matterDAO:       matterDAO,
		privilegeDAO:    privilegeDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

// CheckAccess evaluates one access attempt. resourceID and matterID may be
// empty when the route carries no such context; an unresolvable matter means
// the conflict screen is skipped with a logged warning rather than a denial.
func (s *AccessService) CheckAccess(ctx context.Context, principal *model.Principal, policy pdp_model.RoutePolicy, resourceID, matterID string) (*pdp_model.DecisionContext, error) {
	request := &pdp_model.AccessRequest{
		Principal: principal,
		Policy:    policy,
		Timestamp: time.Now(),
	}

	g, fetchCtx := errgroup.WithContext(ctx)

	if policy.PrivilegeSensitive() && resourceID != "" {
		g.Go(func() error {
			meta, reviewers, err := s.resolvePrivilege(fetchCtx, resourceID)
			if err != nil {
				return err
			}
			request.Privilege = meta
			request.Reviewers = reviewers
			return nil
		})
	}

	if policy.ScreenConflicts && matterID != "" {
		g.Go(func() error {
			matter, err := s.resolveMatter(fetchCtx, matterID)
			if errors.Is(err, praxis_errors.ErrMatterNotFound) {
				// Leave the matter context empty so the orchestrator takes
				// its fail-open path with a warning audit record.
				logger.Warn("Matter not found for conflict screening",
					zap.String("matterID", matterID),
					zap.String("principalID", principal.ID))
				return nil
			}
			if err != nil {
				return err
			}
			request.Matter = matter
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Failed to resolve access metadata",
			zap.Error(err),
			zap.String("principalID", principal.ID),
			zap.String("resourceID", resourceID),
			zap.String("matterID", matterID))
		return nil, err
	}

	decision, err := s.orchestrator.Authorize(ctx, request)
	if err != nil {
		s.publishDenial(ctx, principal, err)
		return nil, err
	}

	if decision.Conflict != nil && decision.Conflict.ConflictDetected {
		s.eventBus.Publish(ctx, util.EventConflictDetected, *decision.Conflict)
		if notifyErr := s.notificationSvc.NotifyConflictDetected(ctx, principal.ID, decision.Conflict); notifyErr != nil {
			logger.Warn("Failed to notify ethics desk of conflict", zap.Error(notifyErr))
		}
	}

	return decision, nil
}

// ScreenMatter runs a standalone conflict screen for a principal against one
// matter, stamping the matter afterwards.
func (s *AccessService) ScreenMatter(ctx context.Context, principal *model.Principal, matterID string) (*pdp_model.ConflictCheck, error) {
	policy := pdp_model.RoutePolicy{
		RequiredPermissions: []model.Permission{model.PermissionConflictCheck},
		ScreenConflicts:     true,
	}

	decision, err := s.CheckAccess(ctx, principal, policy, "", matterID)
	if err != nil {
		var denial *praxis_errors.AccessDeniedError
		if errors.As(err, &denial) && errors.Is(err, praxis_errors.ErrConflictDetected) {
			// The screen itself ran; the matter gets stamped either way.
			s.markChecked(ctx, matterID)
		}
		return nil, err
	}

	// A nil conflict check means the matter could not be resolved; for an
	// explicit screening request that is an error, not a fail-open.
	if decision.Conflict == nil {
		return nil, praxis_errors.ErrMatterNotFound
	}

	s.markChecked(ctx, matterID)
	return decision.Conflict, nil
}

func (s *AccessService) resolvePrivilege(ctx context.Context, resourceID string) (*model.PrivilegeMetadata, []string, error) {
	meta, err := s.cacheService.GetPrivilegeMetadata(ctx, resourceID)
	if err != nil {
		logger.Warn("Privilege metadata cache read failed", zap.Error(err), zap.String("resourceID", resourceID))
	}
	if meta == nil {
		meta, err = s.privilegeDAO.GetResourceMetadata(ctx, resourceID)
		if err != nil {
			return nil, nil, err
		}
		if meta != nil {
			if cacheErr := s.cacheService.SetPrivilegeMetadata(ctx, *meta); cacheErr != nil {
				logger.Warn("Failed to cache privilege metadata", zap.Error(cacheErr), zap.String("resourceID", resourceID))
			}
		}
	}

	var reviewers []string
	if meta != nil && meta.Classification == model.ClassificationWorkProduct {
		reviewers, err = s.privilegeDAO.GetDesignatedReviewers(ctx, resourceID)
		if err != nil {
			return nil, nil, err
		}
	}
	return meta, reviewers, nil
}

func (s *AccessService) resolveMatter(ctx context.Context, matterID string) (*model.MatterConflictMetadata, error) {
	matter, err := s.cacheService.GetMatterConflictMetadata(ctx, matterID)
	if err != nil {
		logger.Warn("Matter metadata cache read failed", zap.Error(err), zap.String("matterID", matterID))
	}
	if matter != nil {
		return matter, nil
	}

	matter, err = s.matterDAO.GetConflictMetadata(ctx, matterID)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cacheService.SetMatterConflictMetadata(ctx, *matter); cacheErr != nil {
		logger.Warn("Failed to cache matter conflict metadata", zap.Error(cacheErr), zap.String("matterID", matterID))
	}
	return matter, nil
}

func (s *AccessService) publishDenial(ctx context.Context, principal *model.Principal, err error) {
	var denial *praxis_errors.AccessDeniedError
	if !errors.As(err, &denial) {
		return
	}

	s.eventBus.Publish(ctx, util.EventAccessDenied, map[string]interface{}{
		"principalID":  principal.ID,
		"reason":       denial.Reason,
		"conflictType": string(denial.ConflictType),
	})

	if errors.Is(err, praxis_errors.ErrConflictDetected) && denial.ConflictType == model.ConflictTypeImputed {
		s.eventBus.Publish(ctx, util.EventWallScreened, principal.ID)
		if notifyErr := s.notificationSvc.NotifyWallBreachAttempt(ctx, principal.ID, "", denial.Reason); notifyErr != nil {
			logger.Warn("Failed to notify ethics desk of wall breach attempt", zap.Error(notifyErr))
		}
	}
}

func (s *AccessService) markChecked(ctx context.Context, matterID string) {
	if err := s.matterDAO.MarkConflictChecked(ctx, matterID, time.Now()); err != nil {
		logger.Warn("Failed to stamp matter as conflict-checked",
			zap.Error(err),
			zap.String("matterID", matterID))
	}
	if err := s.cacheService.DeleteMatterConflictMetadata(ctx, matterID); err != nil {
		logger.Warn("Failed to invalidate matter metadata cache",
			zap.Error(err),
			zap.String("matterID", matterID))
	}
}
