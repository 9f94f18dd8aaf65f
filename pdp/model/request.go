package model

import (
	"time"

	"github.com/counselware/praxis/model"
)

// AccessRequest is one resolved access attempt: the principal, what the route
// requires, and the metadata snapshots fetched for the target resource. All
// fields are request-scoped and immutable during evaluation.
type AccessRequest struct {
	Principal *model.Principal `json:"principal"`
	Policy    RoutePolicy      `json:"policy"`

	// Privilege is the sensitivity record of the target resource, nil when
	// the resource carries none.
	Privilege *model.PrivilegeMetadata `json:"privilege,omitempty"`

	// Matter is the conflict metadata of the target matter, nil when no
	// matter context could be resolved from the request.
	Matter *model.MatterConflictMetadata `json:"matter,omitempty"`

	// Reviewers is the designated reviewer allow-list for work-product
	// material, supplied by the document store.
	Reviewers []string `json:"reviewers,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RoutePolicy declares what a handler requires. Policies are plain values
// attached to routes at registration time; there is no annotation scanning.
type RoutePolicy struct {
	RequiredPermissions    []model.Permission    `json:"required_permissions,omitempty"`
	RequiredClassification *model.Classification `json:"required_classification,omitempty"`
	RequireAttorney        bool                  `json:"require_attorney,omitempty"`
	ScreenConflicts        bool                  `json:"screen_conflicts,omitempty"`
}

// PrivilegeSensitive reports whether the route asks for a privilege check.
func (p RoutePolicy) PrivilegeSensitive() bool {
	return p.RequiredClassification != nil || p.RequireAttorney
}
