package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

// WaiverResolver looks up an on-file waiver covering the given matter and
// conflict type. It returns the waiver id, or "" when none applies. Supplied
// by the host application's waiver store.
type WaiverResolver interface {
	FindValidWaiver(ctx context.Context, waiverIDs []string, matterID string, conflictType model.ConflictType) (string, error)
}

// ConflictScreener evaluates ethical-wall, direct-adverse and former-client
// conflicts for a principal attempting to access a matter.
type ConflictScreener struct {
	waivers WaiverResolver
	now     func() time.Time
}

func NewConflictScreener(waivers WaiverResolver) *ConflictScreener {
	return &ConflictScreener{
		waivers: waivers,
		now:     time.Now,
	}
}

// Screen runs the conflict checks in fixed priority order: ethical wall,
// then direct adverse, then former client. The first match wins. Every
// returned check carries a fresh check id and timestamp and must be written
// to the audit sink regardless of outcome.
func (cs *ConflictScreener) Screen(ctx context.Context, principal *model.Principal, matter *model.MatterConflictMetadata) (*pdp_model.ConflictCheck, error) {
	now := cs.now()
	check := &pdp_model.ConflictCheck{
		CheckID:         uuid.New().String(),
		MatterID:        matter.MatterID,
		ClientID:        matter.ClientID,
		OpposingParties: matter.OpposingParties,
		CheckedAt:       now,
	}

	// 1. Ethical wall. An expired wall no longer screens anything.
	if principal.Wall.ActiveAt(now) {
		if dimension := wallViolation(principal.Wall, matter); dimension != "" {
			check.ConflictDetected = true
			check.ConflictType = model.ConflictTypeImputed
			check.Status = model.ConflictStatusScreened
			check.AccessGranted = false
			check.Reason = fmt.Sprintf("Ethical wall screens this %s", dimension)
			logger.Warn("Ethical wall violation attempt",
				zap.String("principalID", principal.ID),
				zap.String("matterID", matter.MatterID),
				zap.String("dimension", dimension),
				zap.String("checkID", check.CheckID))
			return check, nil
		}
	}

	// 2. Direct adversity against a current client.
	for _, clientID := range principal.ClientIDs {
		if !containsParty(matter.OpposingParties, clientID) {
			continue
		}
		check.ConflictDetected = true
		check.ConflictType = model.ConflictTypeDirectAdverse

		waiverID, err := cs.waivers.FindValidWaiver(ctx, principal.WaiverIDs, matter.MatterID, model.ConflictTypeDirectAdverse)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve waiver for matter %s: %w", matter.MatterID, err)
		}
		if waiverID != "" {
			check.Status = model.ConflictStatusWaived
			check.AccessGranted = true
			check.WaiverID = waiverID
			check.Reason = fmt.Sprintf("Direct adversity against current client %s waived on file", clientID)
			return check, nil
		}

		check.Status = model.ConflictStatusActive
		check.AccessGranted = false
		check.Reason = fmt.Sprintf("Principal currently represents opposing party %s", clientID)
		return check, nil
	}

	// 3. Duty of loyalty to former clients.
	for _, formerClientID := range principal.FormerClientIDs {
		if !containsParty(matter.OpposingParties, formerClientID) {
			continue
		}
		check.ConflictDetected = true
		check.ConflictType = model.ConflictTypeFormerClient
		check.Status = model.ConflictStatusActive
		check.AccessGranted = false
		check.Reason = fmt.Sprintf("Opposing party %s is a former client of the principal", formerClientID)
		return check, nil
	}

	check.ConflictType = model.ConflictTypeNone
	check.Status = model.ConflictStatusCleared
	check.AccessGranted = true
	return check, nil
}

// wallViolation names the wall dimension the matter trips, or "" when none.
func wallViolation(wall *model.EthicalWall, matter *model.MatterConflictMetadata) string {
	if wall.ScreensMatter(matter.MatterID) {
		return "matter"
	}
	for _, relatedID := range matter.RelatedMatterIDs {
		if wall.ScreensMatter(relatedID) {
			return "related matter"
		}
	}
	if wall.ScreensClient(matter.ClientID) {
		return "client"
	}
	for _, party := range matter.OpposingParties {
		if wall.ScreensParty(party) {
			return "opposing party"
		}
	}
	return ""
}

func containsParty(parties []string, id string) bool {
	if id == "" {
		return false
	}
	for _, party := range parties {
		if party == id {
			return true
		}
	}
	return false
}
