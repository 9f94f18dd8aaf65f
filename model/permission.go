// model/permission.go
package model

// Permission identifies a single grantable capability.
type Permission string

const (
	PermissionMatterRead     Permission = "matter:read"
	PermissionMatterWrite    Permission = "matter:write"
	PermissionDocumentRead   Permission = "document:read"
	PermissionDocumentWrite  Permission = "document:write"
	PermissionTemplateManage Permission = "template:manage"
	PermissionWorkflowManage Permission = "workflow:manage"
	PermissionConflictCheck  Permission = "conflict:check"
	PermissionWallManage     Permission = "wall:manage"
	PermissionWaiverManage   Permission = "waiver:manage"
	PermissionAuditRead      Permission = "audit:read"
)

// Role is a named bundle of responsibilities within a firm.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleFirmAdmin      Role = "firm_admin"
	RoleAttorney       Role = "attorney"
	RolePartner        Role = "partner"
	RoleGeneralCounsel Role = "general_counsel"
	RoleParalegal      Role = "paralegal"
	RoleStaff          Role = "staff"
)

// PrivilegeEligibleRoles may access PRIVILEGED-and-above material when no
// resource metadata is available to make a finer-grained call.
var PrivilegeEligibleRoles = map[Role]struct{}{
	RoleAttorney:       {},
	RolePartner:        {},
	RoleGeneralCounsel: {},
}

// PermissionSet is a set of granted permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from a list of grants.
func NewPermissionSet(grants ...Permission) PermissionSet {
	set := make(PermissionSet, len(grants))
	for _, grant := range grants {
		set[grant] = struct{}{}
	}
	return set
}

// Has reports whether a single permission is granted.
func (ps PermissionSet) Has(permission Permission) bool {
	_, ok := ps[permission]
	return ok
}

// HasAll reports whether every required permission is granted.
func (ps PermissionSet) HasAll(required []Permission) bool {
	for _, permission := range required {
		if !ps.Has(permission) {
			return false
		}
	}
	return true
}

// List returns the grants as a slice, for serialization.
func (ps PermissionSet) List() []Permission {
	grants := make([]Permission, 0, len(ps))
	for permission := range ps {
		grants = append(grants, permission)
	}
	return grants
}
