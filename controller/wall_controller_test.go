// controller/wall_controller_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	test_mock "github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/controller"
	praxis_errors "github.com/counselware/praxis/errors"
	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/test/mock"
)

func ethicsAdminPrincipal() *model.Principal {
	return &model.Principal{
		ID:             "gc-1",
		OrganizationID: "firm-1",
		Roles:          []model.Role{model.RoleGeneralCounsel},
		IsAttorney:     true,
		Permissions: model.NewPermissionSet(
			model.PermissionWallManage,
			model.PermissionWaiverManage,
		),
	}
}

func TestWallController(t *testing.T) {
	t.Run("CreateWall_Success", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("CreateWall", test_mock.Anything, test_mock.Anything).
			Return(&model.EthicalWall{ID: "wall-1", PrincipalID: "atty-1"}, nil)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(ethicsAdminPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"principalId":"atty-1","matterIds":["matter-1"],"reason":"Lateral hire from opposing counsel"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/walls", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "wall-1")
	})

	t.Run("CreateWall_Forbidden_WithoutWallManage", func(t *testing.T) {
		wallController := controller.NewWallController(new(mock.MockEthicsService))
		router := setupRouter(attorneyPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"principalId":"atty-1","matterIds":["matter-1"],"reason":"Lateral hire"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/walls", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("CreateWall_Conflict_WhenWallExists", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("CreateWall", test_mock.Anything, test_mock.Anything).
			Return(nil, praxis_errors.ErrWallConflict)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(ethicsAdminPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"principalId":"atty-1","matterIds":["matter-1"],"reason":"Lateral hire"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/walls", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("GetWallForPrincipal_SelfAccess", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("GetWallForPrincipal", test_mock.Anything, "atty-1").
			Return(&model.EthicalWall{ID: "wall-1", PrincipalID: "atty-1"}, nil)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(attorneyPrincipal(), wallController.RegisterRoutes)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/walls/principal/atty-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetWallForPrincipal_OtherPrincipal_Forbidden", func(t *testing.T) {
		wallController := controller.NewWallController(new(mock.MockEthicsService))
		router := setupRouter(attorneyPrincipal(), wallController.RegisterRoutes)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/walls/principal/atty-2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("GetWallForPrincipal_NotFound", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("GetWallForPrincipal", test_mock.Anything, "atty-9").
			Return(nil, nil)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(ethicsAdminPrincipal(), wallController.RegisterRoutes)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/walls/principal/atty-9", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CertifyWall_Success", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("CertifyWall", test_mock.Anything, "wall-1", "atty-1").Return(nil)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(attorneyPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"principalId":"atty-1"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/walls/wall-1/certify", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("RemoveWall_NotFound", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("RemoveWall", test_mock.Anything, "wall-9", "atty-1").
			Return(praxis_errors.ErrWallNotFound)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(ethicsAdminPrincipal(), wallController.RegisterRoutes)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/walls/wall-9?principalId=atty-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RecordWaiver_Success", func(t *testing.T) {
		mockEthics := new(mock.MockEthicsService)
		mockEthics.On("RecordWaiver", test_mock.Anything, test_mock.Anything).
			Return(&model.ConflictWaiver{ID: "waiver-1", MatterID: "matter-1"}, nil)

		wallController := controller.NewWallController(mockEthics)
		router := setupRouter(ethicsAdminPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"matterId":"matter-1","conflictType":"DIRECT_ADVERSE","reason":"Informed consent on file","signedAt":"2026-07-01T09:00:00Z"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/waivers", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "waiver-1")
	})

	t.Run("RecordWaiver_Forbidden_WithoutWaiverManage", func(t *testing.T) {
		wallController := controller.NewWallController(new(mock.MockEthicsService))
		router := setupRouter(attorneyPrincipal(), wallController.RegisterRoutes)

		body := strings.NewReader(`{"matterId":"matter-1","conflictType":"DIRECT_ADVERSE","reason":"Informed consent","signedAt":"2026-07-01T09:00:00Z"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/waivers", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
