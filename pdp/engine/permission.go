package engine

import (
	"github.com/counselware/praxis/model"
)

// PermissionEvaluator performs the coarse capability check that gates every
// request before the heavier privilege and conflict evaluators run.
type PermissionEvaluator struct{}

func NewPermissionEvaluator() *PermissionEvaluator {
	return &PermissionEvaluator{}
}

// Evaluate reports whether the principal's grants satisfy every required
// permission. A super-admin bypasses the check. An empty requirement list is
// always satisfied; a missing principal or grant set never is.
func (pe *PermissionEvaluator) Evaluate(principal *model.Principal, required []model.Permission) bool {
	if len(required) == 0 {
		return true
	}
	if principal == nil {
		return false
	}
	if principal.HasRole(model.RoleSuperAdmin) {
		return true
	}
	if principal.Permissions == nil {
		return false
	}
	return principal.Permissions.HasAll(required)
}
