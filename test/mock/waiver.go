// test/mock/waiver.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/model"
)

// MockWaiverResolver is a mock implementation of engine.WaiverResolver
type MockWaiverResolver struct {
	mock.Mock
}

func (m *MockWaiverResolver) FindValidWaiver(ctx context.Context, waiverIDs []string, matterID string, conflictType model.ConflictType) (string, error) {
	args := m.Called(ctx, waiverIDs, matterID, conflictType)
	return args.String(0), args.Error(1)
}
