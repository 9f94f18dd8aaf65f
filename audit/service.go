// audit/service.go
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
)

type Service interface {
	RecordDecision(ctx context.Context, record Record) error
	QueryDecisions(ctx context.Context, from, to time.Time, principalID, matterID string) ([]Record, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RecordDecision appends one decision record. Denials and detected conflicts
// are logged at warning level, clean outcomes at informational level.
func (s *service) RecordDecision(ctx context.Context, record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	fields := []zap.Field{
		zap.String("principalID", record.PrincipalID),
		zap.String("organizationID", record.OrganizationID),
		zap.String("decision", record.Decision),
		zap.String("reason", record.Reason),
	}
	if record.MatterID != "" {
		fields = append(fields, zap.String("matterID", record.MatterID))
	}
	if record.ConflictType != "" {
		fields = append(fields, zap.String("conflictType", record.ConflictType))
	}
	if record.Classification != "" {
		fields = append(fields, zap.String("classification", record.Classification))
	}

	if record.Adverse() {
		logger.Warn("Access decision recorded", fields...)
	} else {
		logger.Info("Access decision recorded", fields...)
	}

	return s.repo.Append(ctx, record)
}

func (s *service) QueryDecisions(ctx context.Context, from, to time.Time, principalID, matterID string) ([]Record, error) {
	return s.repo.Query(ctx, from, to, principalID, matterID)
}
