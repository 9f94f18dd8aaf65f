package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/counselware/praxis/dao"
	"github.com/counselware/praxis/db"
	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/util"
)

const wallLockTTL = 10 * time.Second

// IEthicsService administers ethical walls and conflict waivers.
type IEthicsService interface {
	CreateWall(ctx context.Context, wall model.EthicalWall) (*model.EthicalWall, error)
	GetWallForPrincipal(ctx context.Context, principalID string) (*model.EthicalWall, error)
	CertifyWall(ctx context.Context, wallID, principalID string) error
	RemoveWall(ctx context.Context, wallID, principalID string) error
	RecordWaiver(ctx context.Context, waiver model.ConflictWaiver) (*model.ConflictWaiver, error)
	GetWaiver(ctx context.Context, waiverID string) (*model.ConflictWaiver, error)
}

type EthicsService struct {
	wallDAO         *dao.WallDAO
	waiverDAO       *dao.WaiverDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	validator       *util.ValidationUtil
}

func NewEthicsService(
	wallDAO *dao.WallDAO,
	waiverDAO *dao.WaiverDAO,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *EthicsService {
	return &EthicsService{
		wallDAO:         wallDAO,
		waiverDAO:       waiverDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		validator:       util.NewValidationUtil(),
	}
}

// CreateWall erects a new wall around a principal. A distributed lock guards
// against two concurrent walls racing past the one-active-wall constraint.
func (s *EthicsService) CreateWall(ctx context.Context, wall model.EthicalWall) (*model.EthicalWall, error) {
	if err := s.validator.ValidateWall(wall); err != nil {
		return nil, fmt.Errorf("%w: %v", praxis_errors.ErrInvalidWallData, err)
	}

	lockKey := fmt.Sprintf("wall:%s", wall.PrincipalID)
	acquired, err := db.LockResource(ctx, lockKey, wallLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, praxis_errors.ErrWallConflict
	}
	defer func() {
		if unlockErr := db.UnlockResource(ctx, lockKey); unlockErr != nil {
			logger.Warn("Failed to release wall lock", zap.Error(unlockErr), zap.String("lockKey", lockKey))
		}
	}()

	wall.CreatedAt = time.Now()
	wallID, err := s.wallDAO.CreateWall(ctx, wall)
	if err != nil {
		return nil, err
	}
	wall.ID = wallID

	if cacheErr := s.cacheService.SetWall(ctx, wall); cacheErr != nil {
		logger.Warn("Failed to cache new wall", zap.Error(cacheErr), zap.String("wallID", wallID))
	}

	s.eventBus.Publish(ctx, util.EventWallCreated, wall)
	if notifyErr := s.notificationSvc.NotifyWallChange(ctx, "created", wall); notifyErr != nil {
		logger.Warn("Failed to send wall creation notification", zap.Error(notifyErr))
	}

	logger.Info("Ethical wall created",
		zap.String("wallID", wallID),
		zap.String("principalID", wall.PrincipalID),
		zap.String("approverID", wall.ApproverID))
	return &wall, nil
}

func (s *EthicsService) GetWallForPrincipal(ctx context.Context, principalID string) (*model.EthicalWall, error) {
	wall, err := s.cacheService.GetWall(ctx, principalID)
	if err != nil {
		logger.Warn("Wall cache read failed", zap.Error(err), zap.String("principalID", principalID))
	}
	if wall != nil {
		return wall, nil
	}

	wall, err = s.wallDAO.GetWallForPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if wall != nil {
		if cacheErr := s.cacheService.SetWall(ctx, *wall); cacheErr != nil {
			logger.Warn("Failed to cache wall", zap.Error(cacheErr), zap.String("principalID", principalID))
		}
	}
	return wall, nil
}

// CertifyWall records a periodic attestation that the screen is intact.
func (s *EthicsService) CertifyWall(ctx context.Context, wallID, principalID string) error {
	certifiedAt := time.Now()
	if err := s.wallDAO.CertifyWall(ctx, wallID, certifiedAt); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteWall(ctx, principalID); cacheErr != nil {
		logger.Warn("Failed to invalidate wall cache after certification",
			zap.Error(cacheErr), zap.String("principalID", principalID))
	}

	s.eventBus.Publish(ctx, util.EventWallCertified, map[string]interface{}{
		"wallID":      wallID,
		"principalID": principalID,
		"certifiedAt": certifiedAt,
	})
	logger.Info("Ethical wall certified",
		zap.String("wallID", wallID),
		zap.String("principalID", principalID))
	return nil
}

// RemoveWall tears a wall down once the underlying conflict has been resolved.
func (s *EthicsService) RemoveWall(ctx context.Context, wallID, principalID string) error {
	if err := s.wallDAO.DeleteWall(ctx, wallID); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteWall(ctx, principalID); cacheErr != nil {
		logger.Warn("Failed to invalidate wall cache after removal",
			zap.Error(cacheErr), zap.String("principalID", principalID))
	}

	s.eventBus.Publish(ctx, util.EventWallDeleted, map[string]interface{}{
		"wallID":      wallID,
		"principalID": principalID,
	})
	if notifyErr := s.notificationSvc.NotifyWallChange(ctx, "removed", model.EthicalWall{ID: wallID, PrincipalID: principalID}); notifyErr != nil {
		logger.Warn("Failed to send wall removal notification", zap.Error(notifyErr))
	}

	logger.Info("Ethical wall removed",
		zap.String("wallID", wallID),
		zap.String("principalID", principalID))
	return nil
}

// RecordWaiver files a signed conflict waiver.
func (s *EthicsService) RecordWaiver(ctx context.Context, waiver model.ConflictWaiver) (*model.ConflictWaiver, error) {
	if err := s.validator.ValidateWaiver(waiver); err != nil {
		return nil, fmt.Errorf("%w: %v", praxis_errors.ErrInvalidWaiverData, err)
	}

	waiverID, err := s.waiverDAO.CreateWaiver(ctx, waiver)
	if err != nil {
		return nil, err
	}
	waiver.ID = waiverID

	s.eventBus.Publish(ctx, util.EventWaiverCreated, waiver)
	if notifyErr := s.notificationSvc.NotifyWaiverRecorded(ctx, waiver); notifyErr != nil {
		logger.Warn("Failed to send waiver notification", zap.Error(notifyErr))
	}

	logger.Info("Conflict waiver recorded",
		zap.String("waiverID", waiverID),
		zap.String("matterID", waiver.MatterID),
		zap.String("conflictType", string(waiver.ConflictType)))
	return &waiver, nil
}

func (s *EthicsService) GetWaiver(ctx context.Context, waiverID string) (*model.ConflictWaiver, error) {
	return s.waiverDAO.GetWaiver(ctx, waiverID)
}
