// test/mock/service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/model"
	pdp_model "github.com/counselware/praxis/pdp/model"
)

// MockAccessService is a mock implementation of service.IAccessService
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) CheckAccess(ctx context.Context, principal *model.Principal, policy pdp_model.RoutePolicy, resourceID, matterID string) (*pdp_model.DecisionContext, error) {
	args := m.Called(ctx, principal, policy, resourceID, matterID)
	if decision := args.Get(0); decision != nil {
		return decision.(*pdp_model.DecisionContext), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessService) ScreenMatter(ctx context.Context, principal *model.Principal, matterID string) (*pdp_model.ConflictCheck, error) {
	args := m.Called(ctx, principal, matterID)
	if check := args.Get(0); check != nil {
		return check.(*pdp_model.ConflictCheck), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEthicsService is a mock implementation of service.IEthicsService
type MockEthicsService struct {
	mock.Mock
}

func (m *MockEthicsService) CreateWall(ctx context.Context, wall model.EthicalWall) (*model.EthicalWall, error) {
	args := m.Called(ctx, wall)
	if created := args.Get(0); created != nil {
		return created.(*model.EthicalWall), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEthicsService) GetWallForPrincipal(ctx context.Context, principalID string) (*model.EthicalWall, error) {
	args := m.Called(ctx, principalID)
	if wall := args.Get(0); wall != nil {
		return wall.(*model.EthicalWall), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEthicsService) CertifyWall(ctx context.Context, wallID, principalID string) error {
	args := m.Called(ctx, wallID, principalID)
	return args.Error(0)
}

func (m *MockEthicsService) RemoveWall(ctx context.Context, wallID, principalID string) error {
	args := m.Called(ctx, wallID, principalID)
	return args.Error(0)
}

func (m *MockEthicsService) RecordWaiver(ctx context.Context, waiver model.ConflictWaiver) (*model.ConflictWaiver, error) {
	args := m.Called(ctx, waiver)
	if created := args.Get(0); created != nil {
		return created.(*model.ConflictWaiver), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEthicsService) GetWaiver(ctx context.Context, waiverID string) (*model.ConflictWaiver, error) {
	args := m.Called(ctx, waiverID)
	if waiver := args.Get(0); waiver != nil {
		return waiver.(*model.ConflictWaiver), args.Error(1)
	}
	return nil, args.Error(1)
}
