// util/validation_util_test.go

package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/util"
)

func TestValidateWall(t *testing.T) {
	validator := util.NewValidationUtil()

	valid := model.EthicalWall{
		PrincipalID: "atty-1",
		MatterIDs:   []string{"matter-1"},
		Reason:      "Lateral hire from opposing counsel",
		ApproverID:  "gc-1",
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validator.ValidateWall(valid))
	})

	t.Run("NoDimensions", func(t *testing.T) {
		wall := valid
		wall.MatterIDs = nil
		assert.Error(t, validator.ValidateWall(wall))
	})

	t.Run("MissingReason", func(t *testing.T) {
		wall := valid
		wall.Reason = ""
		assert.Error(t, validator.ValidateWall(wall))
	})

	t.Run("PastExpiry", func(t *testing.T) {
		wall := valid
		expired := time.Now().Add(-time.Hour)
		wall.ExpiresAt = &expired
		assert.Error(t, validator.ValidateWall(wall))
	})
}

func TestValidateWaiver(t *testing.T) {
	validator := util.NewValidationUtil()

	valid := model.ConflictWaiver{
		MatterID:     "matter-1",
		ConflictType: model.ConflictTypeDirectAdverse,
		ApprovedBy:   "gc-1",
		SignedAt:     time.Now(),
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validator.ValidateWaiver(valid))
	})

	t.Run("ConflictTypeNone", func(t *testing.T) {
		waiver := valid
		waiver.ConflictType = model.ConflictTypeNone
		assert.Error(t, validator.ValidateWaiver(waiver))
	})

	t.Run("MissingSignature", func(t *testing.T) {
		waiver := valid
		waiver.SignedAt = time.Time{}
		assert.Error(t, validator.ValidateWaiver(waiver))
	})
}

func TestValidateRoutePolicy(t *testing.T) {
	validator := util.NewValidationUtil()

	t.Run("Empty_Invalid", func(t *testing.T) {
		assert.Error(t, validator.ValidateRoutePolicy(pdp_model.RoutePolicy{}))
	})

	t.Run("PermissionsOnly_Valid", func(t *testing.T) {
		assert.NoError(t, validator.ValidateRoutePolicy(pdp_model.RoutePolicy{
			RequiredPermissions: []model.Permission{model.PermissionMatterRead},
		}))
	})

	t.Run("ConflictScreenOnly_Valid", func(t *testing.T) {
		assert.NoError(t, validator.ValidateRoutePolicy(pdp_model.RoutePolicy{ScreenConflicts: true}))
	})
}
