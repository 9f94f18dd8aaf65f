// middleware/enforce_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	test_mock "github.com/stretchr/testify/mock"

	praxis_errors "github.com/counselware/praxis/errors"
	"github.com/counselware/praxis/middleware"
	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/test/mock"
)

func enforcedRouter(principal *model.Principal, policy pdp_model.RoutePolicy, accessService *mock.MockAccessService) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set("principal", principal)
		}
		c.Next()
	})
	r.GET("/matters/:matterId/documents/:resourceId",
		middleware.Enforce(policy, accessService, "resourceId", "matterId"),
		func(c *gin.Context) {
			if _, exists := c.Get("accessDecision"); !exists {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusOK)
		})
	return r
}

func TestEnforce_Allowed(t *testing.T) {
	accessService := new(mock.MockAccessService)
	accessService.On("CheckAccess", test_mock.Anything, test_mock.Anything, test_mock.Anything, "doc-1", "matter-1").
		Return(&pdp_model.DecisionContext{Kind: pdp_model.DecisionAllowed}, nil)

	principal := &model.Principal{ID: "atty-1", Permissions: model.NewPermissionSet(model.PermissionDocumentRead)}
	policy := pdp_model.RoutePolicy{RequiredPermissions: []model.Permission{model.PermissionDocumentRead}}
	router := enforcedRouter(principal, policy, accessService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/matters/matter-1/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	accessService.AssertExpectations(t)
}

func TestEnforce_NoPrincipal(t *testing.T) {
	router := enforcedRouter(nil, pdp_model.RoutePolicy{}, new(mock.MockAccessService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/matters/matter-1/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnforce_ConflictDenied(t *testing.T) {
	accessService := new(mock.MockAccessService)
	accessService.On("CheckAccess", test_mock.Anything, test_mock.Anything, test_mock.Anything, "doc-1", "matter-1").
		Return(nil, praxis_errors.NewConflictDenial("Ethical wall screens this matter", model.ConflictTypeImputed))

	principal := &model.Principal{ID: "atty-1", Permissions: model.NewPermissionSet(model.PermissionDocumentRead)}
	router := enforcedRouter(principal, pdp_model.RoutePolicy{ScreenConflicts: true}, accessService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/matters/matter-1/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "IMPUTED")
	assert.Contains(t, w.Body.String(), "Ethical wall screens this matter")
}

func TestEnforce_PrivilegeDenied_ReportsClassification(t *testing.T) {
	accessService := new(mock.MockAccessService)
	accessService.On("CheckAccess", test_mock.Anything, test_mock.Anything, test_mock.Anything, "doc-1", "").
		Return(nil, praxis_errors.NewPrivilegeDenial("Attorney status required", model.ClassificationPrivileged))

	principal := &model.Principal{ID: "para-1", Permissions: model.NewPermissionSet(model.PermissionDocumentRead)}
	required := model.ClassificationPrivileged
	policy := pdp_model.RoutePolicy{RequiredClassification: &required, RequireAttorney: true}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("principal", principal)
		c.Next()
	})
	r.GET("/documents/:resourceId",
		middleware.Enforce(policy, accessService, "resourceId", ""),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/documents/doc-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PRIVILEGED")
}

func TestEnforce_InternalError(t *testing.T) {
	accessService := new(mock.MockAccessService)
	accessService.On("CheckAccess", test_mock.Anything, test_mock.Anything, test_mock.Anything, "doc-1", "matter-1").
		Return(nil, praxis_errors.ErrDatabaseOperation)

	principal := &model.Principal{ID: "atty-1"}
	router := enforcedRouter(principal, pdp_model.RoutePolicy{}, accessService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/matters/matter-1/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
