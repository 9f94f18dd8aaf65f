// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordDecision(ctx context.Context, record audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditService) QueryDecisions(ctx context.Context, from, to time.Time, principalID, matterID string) ([]audit.Record, error) {
	args := m.Called(ctx, from, to, principalID, matterID)
	return args.Get(0).([]audit.Record), args.Error(1)
}
