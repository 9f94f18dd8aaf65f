// util/validation_util.go

package util

import (
	"fmt"
	"time"

	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidatePrincipal(principal *model.Principal) error {
	if principal == nil {
		return fmt.Errorf("principal cannot be nil")
	}
	if principal.ID == "" {
		return fmt.Errorf("principal ID cannot be empty")
	}
	if principal.OrganizationID == "" {
		return fmt.Errorf("principal organization ID cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateWall(wall model.EthicalWall) error {
	if wall.PrincipalID == "" {
		return fmt.Errorf("wall principal ID cannot be empty")
	}
	if wall.Reason == "" {
		return fmt.Errorf("wall reason cannot be empty")
	}
	if wall.ApproverID == "" {
		return fmt.Errorf("wall approver ID cannot be empty")
	}
	if len(wall.MatterIDs) == 0 && len(wall.ClientIDs) == 0 && len(wall.OpposingPartyIDs) == 0 {
		return fmt.Errorf("wall must screen at least one matter, client, or opposing party")
	}
	if wall.ExpiresAt != nil && wall.ExpiresAt.Before(time.Now()) {
		return fmt.Errorf("wall expiration cannot be in the past")
	}
	return nil
}

func (v *ValidationUtil) ValidateWaiver(waiver model.ConflictWaiver) error {
	if waiver.MatterID == "" {
		return fmt.Errorf("waiver matter ID cannot be empty")
	}
	if waiver.ConflictType == "" || waiver.ConflictType == model.ConflictTypeNone {
		return fmt.Errorf("waiver must name a conflict type")
	}
	if waiver.ApprovedBy == "" {
		return fmt.Errorf("waiver approver cannot be empty")
	}
	if waiver.SignedAt.IsZero() {
		return fmt.Errorf("waiver signing date cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateRoutePolicy(policy pdp_model.RoutePolicy) error {
	if len(policy.RequiredPermissions) == 0 && !policy.PrivilegeSensitive() && !policy.ScreenConflicts {
		return fmt.Errorf("route policy must declare at least one requirement")
	}
	return nil
}
