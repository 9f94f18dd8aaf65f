package audit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/counselware/praxis/audit"
	logger "github.com/counselware/praxis/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger(os.TempDir())
	os.Exit(m.Run())
}

type recordingRepository struct {
	appended []audit.Record
}

func (r *recordingRepository) Append(ctx context.Context, record audit.Record) error {
	r.appended = append(r.appended, record)
	return nil
}

func (r *recordingRepository) Query(ctx context.Context, from, to time.Time, principalID, matterID string) ([]audit.Record, error) {
	return r.appended, nil
}

func TestRecordDecision_StampsTimestamp(t *testing.T) {
	repo := &recordingRepository{}
	service := audit.NewService(repo)

	err := service.RecordDecision(context.Background(), audit.Record{
		PrincipalID: "user-1",
		Decision:    "ALLOWED",
	})
	assert.NoError(t, err)
	assert.Len(t, repo.appended, 1)
	assert.False(t, repo.appended[0].Timestamp.IsZero())
}

func TestRecordDecision_PreservesTimestamp(t *testing.T) {
	repo := &recordingRepository{}
	service := audit.NewService(repo)
	stamp := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

	err := service.RecordDecision(context.Background(), audit.Record{
		PrincipalID: "user-1",
		Decision:    "DENIED",
		Timestamp:   stamp,
	})
	assert.NoError(t, err)
	assert.Equal(t, stamp, repo.appended[0].Timestamp)
}

func TestRecordAdverse(t *testing.T) {
	cases := []struct {
		name    string
		record  audit.Record
		adverse bool
	}{
		{"Allowed", audit.Record{Decision: "ALLOWED"}, false},
		{"AllowedWithWaiver", audit.Record{Decision: "ALLOWED_WITH_WAIVER", ConflictType: "DIRECT_ADVERSE"}, true},
		{"Denied", audit.Record{Decision: "DENIED"}, true},
		{"Screened", audit.Record{Decision: "SCREENED"}, true},
		{"ClearedScreen", audit.Record{Decision: "ALLOWED", ConflictType: "NONE"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.adverse, tc.record.Adverse())
		})
	}
}

func TestQueryDecisions_Delegates(t *testing.T) {
	repo := &recordingRepository{appended: []audit.Record{{PrincipalID: "user-1"}}}
	service := audit.NewService(repo)

	records, err := service.QueryDecisions(context.Background(), time.Now().Add(-time.Hour), time.Now(), "user-1", "")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
