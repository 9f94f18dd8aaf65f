// controller/wall_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	praxis_errors "github.com/counselware/praxis/errors"
	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/service"
	"github.com/counselware/praxis/util"
)

type WallController struct {
	ethicsService service.IEthicsService
}

func NewWallController(ethicsService service.IEthicsService) *WallController {
	return &WallController{
		ethicsService: ethicsService,
	}
}

// RegisterRoutes registers the API routes
func (wc *WallController) RegisterRoutes(r *gin.RouterGroup) {
	walls := r.Group("/walls")
	{
		walls.POST("", wc.CreateWall)
		walls.GET("/principal/:principalId", wc.GetWallForPrincipal)
		walls.POST("/:id/certify", wc.CertifyWall)
		walls.DELETE("/:id", wc.RemoveWall)
	}
	waivers := r.Group("/waivers")
	{
		waivers.POST("", wc.RecordWaiver)
		waivers.GET("/:id", wc.GetWaiver)
	}
}

// CreateWallRequest describes a new screen to erect.
type CreateWallRequest struct {
	PrincipalID      string     `json:"principalId" binding:"required"`
	MatterIDs        []string   `json:"matterIds"`
	ClientIDs        []string   `json:"clientIds"`
	OpposingPartyIDs []string   `json:"opposingPartyIds"`
	Reason           string     `json:"reason" binding:"required"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

// CreateWall endpoint
func (wc *WallController) CreateWall(c *gin.Context) {
	var req CreateWallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid wall data", praxis_errors.ErrInvalidWallData)
		return
	}

	approver, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}
	if !wc.canAdministerWalls(approver) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", praxis_errors.ErrPermissionDenied)
		return
	}

	wall := model.EthicalWall{
		PrincipalID:      req.PrincipalID,
		MatterIDs:        req.MatterIDs,
		ClientIDs:        req.ClientIDs,
		OpposingPartyIDs: req.OpposingPartyIDs,
		Reason:           req.Reason,
		ApproverID:       approver.ID,
		ExpiresAt:        req.ExpiresAt,
	}

	created, err := wc.ethicsService.CreateWall(c.Request.Context(), wall)
	if err != nil {
		switch {
		case errors.Is(err, praxis_errors.ErrInvalidWallData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid wall data", err)
		case errors.Is(err, praxis_errors.ErrWallConflict):
			util.RespondWithError(c, http.StatusConflict, "Principal already has an active wall", err)
		case errors.Is(err, praxis_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create wall", praxis_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetWallForPrincipal endpoint
func (wc *WallController) GetWallForPrincipal(c *gin.Context) {
	principalID := c.Param("principalId")

	requester, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}
	if requester.ID != principalID && !wc.canAdministerWalls(requester) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", praxis_errors.ErrPermissionDenied)
		return
	}

	wall, err := wc.ethicsService.GetWallForPrincipal(c.Request.Context(), principalID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch wall", err)
		return
	}
	if wall == nil {
		util.RespondWithError(c, http.StatusNotFound, "Wall not found", praxis_errors.ErrWallNotFound)
		return
	}

	c.JSON(http.StatusOK, wall)
}

// CertifyWallRequest identifies the screened principal attesting compliance.
type CertifyWallRequest struct {
	PrincipalID string `json:"principalId" binding:"required"`
}

// CertifyWall endpoint
func (wc *WallController) CertifyWall(c *gin.Context) {
	wallID := c.Param("id")
	var req CertifyWallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid certification data", err)
		return
	}

	if err := wc.ethicsService.CertifyWall(c.Request.Context(), wallID, req.PrincipalID); err != nil {
		if errors.Is(err, praxis_errors.ErrWallNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Wall not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to certify wall", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveWall endpoint
func (wc *WallController) RemoveWall(c *gin.Context) {
	wallID := c.Param("id")
	principalID := c.Query("principalId")

	requester, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}
	if !wc.canAdministerWalls(requester) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", praxis_errors.ErrPermissionDenied)
		return
	}

	if err := wc.ethicsService.RemoveWall(c.Request.Context(), wallID, principalID); err != nil {
		if errors.Is(err, praxis_errors.ErrWallNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Wall not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to remove wall", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordWaiverRequest describes a signed conflict waiver to file.
type RecordWaiverRequest struct {
	MatterID     string     `json:"matterId" binding:"required"`
	ClientID     string     `json:"clientId"`
	ConflictType string     `json:"conflictType" binding:"required"`
	Reason       string     `json:"reason" binding:"required"`
	SignedAt     time.Time  `json:"signedAt" binding:"required"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// RecordWaiver endpoint
func (wc *WallController) RecordWaiver(c *gin.Context) {
	var req RecordWaiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", praxis_errors.ErrInvalidWaiverData)
		return
	}

	approver, ok := util.PrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", praxis_errors.ErrUnauthorized)
		return
	}
	if !approver.Permissions.Has(model.PermissionWaiverManage) && !approver.HasRole(model.RoleSuperAdmin) {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", praxis_errors.ErrPermissionDenied)
		return
	}

	waiver := model.ConflictWaiver{
		MatterID:     req.MatterID,
		ClientID:     req.ClientID,
		ConflictType: model.ConflictType(req.ConflictType),
		Reason:       req.Reason,
		ApprovedBy:   approver.ID,
		SignedAt:     req.SignedAt,
		ExpiresAt:    req.ExpiresAt,
	}

	created, err := wc.ethicsService.RecordWaiver(c.Request.Context(), waiver)
	if err != nil {
		if errors.Is(err, praxis_errors.ErrInvalidWaiverData) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to record waiver", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetWaiver endpoint
func (wc *WallController) GetWaiver(c *gin.Context) {
	waiverID := c.Param("id")

	waiver, err := wc.ethicsService.GetWaiver(c.Request.Context(), waiverID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch waiver", err)
		return
	}
	if waiver == nil {
		util.RespondWithError(c, http.StatusNotFound, "Waiver not found", praxis_errors.ErrWaiverNotFound)
		return
	}

	c.JSON(http.StatusOK, waiver)
}

func (wc *WallController) canAdministerWalls(principal *model.Principal) bool {
	return principal.Permissions.Has(model.PermissionWallManage) ||
		principal.HasRole(model.RoleSuperAdmin) ||
		principal.HasRole(model.RoleGeneralCounsel)
}
