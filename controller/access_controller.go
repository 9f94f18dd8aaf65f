// controller/access_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/counselware/praxis/audit"
	praxis_errors "github.com/counselware/praxis/errors"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/service"
	"github.com/counselware/praxis/util"
	helper_util "github.com/counselware/praxis/util/helper"
)

type AccessController struct {
	accessService service.IAccessService
	auditService  audit.Service
}

func NewAccessController(accessService service.IAccessService, auditService audit.Service) *AccessController {
	return &AccessController{
		accessService: accessService,
		auditService:  auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/check", ac.CheckAccess)
		access.POST("/conflicts/screen/:matterId", ac.ScreenMatter)
		access.GET("/decisions", ac.QueryDecisions)
	}
}

// AccessCheckRequest describes one access attempt to evaluate.
type AccessCheckRequest struct {
	RequiredPermissions    []string `json:"requiredPermissions"`
	RequiredClassification *string  `json:"requiredClassification"`
	RequireAttorney        bool     `json:"requireAttorney"`
	ScreenConflicts        bool     `json:"screenConflicts"`
	ResourceID             string   `json:"resourceId"`
	MatterID               string   `json:"matterId"`
}

// CheckAccess endpoint
func (ac *AccessController) CheckAccess(c *gin.Context) {
	var req AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access check data", praxis_errors.ErrInvalidPolicyData)
		return
	}

	principal, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}

	policy, err := routePolicyFromRequest(req)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access check data", err)
		return
	}

	decision, err := ac.accessService.CheckAccess(c.Request.Context(), principal, policy, req.ResourceID, req.MatterID)
	if err != nil {
		respondWithAccessError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// ScreenMatter endpoint
func (ac *AccessController) ScreenMatter(c *gin.Context) {
	matterID := c.Param("matterId")
	principal, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}

	check, err := ac.accessService.ScreenMatter(c.Request.Context(), principal, matterID)
	if err != nil {
		respondWithAccessError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// QueryDecisions endpoint
func (ac *AccessController) QueryDecisions(c *gin.Context) {
	principal, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}
	if !principal.Permissions.Has(model.PermissionAuditRead) && !principal.HasRole(model.RoleSuperAdmin) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", praxis_errors.ErrPermissionDenied)
		return
	}

	from, to, err := decisionWindow(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time window", err)
		return
	}

	// Pagination is applied downstream; validate the params here.
	if _, _, err := helper_util.GetPaginationParams(c); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	records, err := ac.auditService.QueryDecisions(c.Request.Context(), from, to, c.Query("principalId"), c.Query("matterId"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query decisions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decisions": records, "count": len(records)})
}

func routePolicyFromRequest(req AccessCheckRequest) (pdp_model.RoutePolicy, error) {
	policy := pdp_model.RoutePolicy{
		RequireAttorney: req.RequireAttorney,
		ScreenConflicts: req.ScreenConflicts,
	}
	for _, permission := range req.RequiredPermissions {
		policy.RequiredPermissions = append(policy.RequiredPermissions, model.Permission(permission))
	}
	if req.RequiredClassification != nil {
		classification, err := model.ParseClassification(*req.RequiredClassification)
		if err != nil {
			return policy, err
		}
		policy.RequiredClassification = &classification
	}
	return policy, nil
}

func respondWithAccessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, praxis_errors.ErrAuthenticationMissing):
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, praxis_errors.ErrPermissionDenied),
		errors.Is(err, praxis_errors.ErrPrivilegeDenied),
		errors.Is(err, praxis_errors.ErrConflictDetected):
		var denial *praxis_errors.AccessDeniedError
		if errors.As(err, &denial) {
			body := gin.H{"error": "Forbidden", "reason": denial.Reason}
			if denial.ConflictType != "" {
				body["conflictType"] = string(denial.ConflictType)
			}
			if denial.Classification != nil {
				body["classification"] = denial.Classification.String()
			}
			c.JSON(http.StatusForbidden, body)
			return
		}
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, praxis_errors.ErrMatterNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Matter not found", err)
	case errors.Is(err, praxis_errors.ErrResourceNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access", praxis_errors.ErrInternalServer)
	}
}

func decisionWindow(c *gin.Context) (time.Time, time.Time, error) {
	from := time.Now().Add(-24 * time.Hour)
	to := time.Now()
	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
