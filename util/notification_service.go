// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

type NotificationService struct {
	// A message-queue client would live here in a deployed system.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyConflictDetected alerts the ethics desk that a screening surfaced a
// conflict, waived or not.
func (n *NotificationService) NotifyConflictDetected(ctx context.Context, principalID string, check *pdp_model.ConflictCheck) error {
	logger.Info("NOTIFICATION: Conflict detected",
		zap.String("principalID", principalID),
		zap.String("matterID", check.MatterID),
		zap.String("conflictType", string(check.ConflictType)),
		zap.String("status", string(check.Status)),
		zap.String("checkID", check.CheckID))
	return nil
}

// NotifyWallBreachAttempt alerts the ethics desk that a screened principal
// tried to reach walled material.
func (n *NotificationService) NotifyWallBreachAttempt(ctx context.Context, principalID, matterID, reason string) error {
	logger.Warn("NOTIFICATION: Ethical wall breach attempt",
		zap.String("principalID", principalID),
		zap.String("matterID", matterID),
		zap.String("reason", reason))
	return nil
}

// NotifyWallChange informs affected parties about wall administration.
func (n *NotificationService) NotifyWallChange(ctx context.Context, changeType string, wall model.EthicalWall) error {
	logger.Info("NOTIFICATION: Ethical wall change",
		zap.String("changeType", changeType),
		zap.String("wallID", wall.ID),
		zap.String("principalID", wall.PrincipalID))
	return nil
}

// NotifyWaiverRecorded informs the matter team that a waiver is on file.
func (n *NotificationService) NotifyWaiverRecorded(ctx context.Context, waiver model.ConflictWaiver) error {
	logger.Info("NOTIFICATION: Conflict waiver recorded",
		zap.String("waiverID", waiver.ID),
		zap.String("matterID", waiver.MatterID),
		zap.String("conflictType", string(waiver.ConflictType)))
	return nil
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}
