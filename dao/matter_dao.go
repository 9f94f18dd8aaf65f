// dao/matter_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

// MatterDAO reads the adverse-party graph slice needed for conflict
// screening. The matter graph itself is owned by the practice-management
// services; this DAO never writes matter nodes.
type MatterDAO struct {
	Driver neo4j.DriverWithContext
}

func NewMatterDAO(driver neo4j.DriverWithContext) *MatterDAO {
	return &MatterDAO{Driver: driver}
}

// GetConflictMetadata fetches the conflict metadata for one matter. Returns
// ErrMatterNotFound when the matter does not exist.
func (dao *MatterDAO) GetConflictMetadata(ctx context.Context, matterID string) (*model.MatterConflictMetadata, error) {
	start := time.Now()
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (m:MATTER {id: $id})
        OPTIONAL MATCH (m)-[:OPPOSES]->(p:PARTY)
        OPTIONAL MATCH (m)-[:RELATED_TO]->(r:MATTER)
        RETURN m.id AS id, m.clientId AS clientId, m.conflictChecked AS conflictChecked,
               m.lastCheckedAt AS lastCheckedAt,
               collect(DISTINCT p.id) AS opposingParties,
               collect(DISTINCT r.id) AS relatedMatters
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": matterID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return nil, praxis_errors.ErrMatterNotFound
		}

		matter := &model.MatterConflictMetadata{
			MatterID:         stringValue(record, "id"),
			ClientID:         stringValue(record, "clientId"),
			OpposingParties:  stringListValue(record, "opposingParties"),
			RelatedMatterIDs: stringListValue(record, "relatedMatters"),
			ConflictChecked:  boolValue(record, "conflictChecked"),
		}
		if checkedAt := stringValue(record, "lastCheckedAt"); checkedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, checkedAt); err == nil {
				matter.LastCheckedAt = &parsed
			}
		}
		return matter, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to fetch matter conflict metadata",
			zap.Error(err),
			zap.String("matterID", matterID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Debug("Fetched matter conflict metadata",
		zap.String("matterID", matterID),
		zap.Duration("duration", duration))
	return result.(*model.MatterConflictMetadata), nil
}

// MarkConflictChecked stamps the matter after a completed screening so the
// compliance dashboard can surface stale matters.
func (dao *MatterDAO) MarkConflictChecked(ctx context.Context, matterID string, checkedAt time.Time) error {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (m:MATTER {id: $id})
        SET m.conflictChecked = true, m.lastCheckedAt = $checkedAt
        RETURN m.id
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{
			"id":        matterID,
			"checkedAt": checkedAt.Format(time.RFC3339),
		})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		if _, err := records.Single(ctx); err != nil {
			return nil, praxis_errors.ErrMatterNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to mark matter conflict-checked",
			zap.Error(err),
			zap.String("matterID", matterID))
		return err
	}
	return nil
}

func stringValue(record *neo4j.Record, key string) string {
	value, found := record.Get(key)
	if !found || value == nil {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return str
}

func boolValue(record *neo4j.Record, key string) bool {
	value, found := record.Get(key)
	if !found || value == nil {
		return false
	}
	b, _ := value.(bool)
	return b
}

func stringListValue(record *neo4j.Record, key string) []string {
	value, found := record.Get(key)
	if !found || value == nil {
		return nil
	}
	raw, ok := value.([]interface{})
	if !ok {
		return nil
	}
	list := make([]string, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		if str, ok := item.(string); ok && str != "" {
			list = append(list, str)
		}
	}
	return list
}
