// dao/privilege_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

// PrivilegeDAO reads the sensitivity metadata and reviewer allow-list
// attached to resources. Resources are owned by the document services.
type PrivilegeDAO struct {
	Driver neo4j.DriverWithContext
}

func NewPrivilegeDAO(driver neo4j.DriverWithContext) *PrivilegeDAO {
	return &PrivilegeDAO{Driver: driver}
}

// GetResourceMetadata fetches the privilege metadata for one resource. A
// resource without a privilege record yields (nil, nil); the classifier then
// falls back to role-based access.
func (dao *PrivilegeDAO) GetResourceMetadata(ctx context.Context, resourceID string) (*model.PrivilegeMetadata, error) {
	start := time.Now()
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (r:RESOURCE {id: $id})
        OPTIONAL MATCH (r)-[:HAS_PRIVILEGE]->(pm:PRIVILEGE_METADATA)
        RETURN r.id AS id, pm.classification AS classification, pm.attorneyId AS attorneyId,
               pm.clientId AS clientId, pm.matterId AS matterId,
               pm.jointDefenseGroupId AS jointDefenseGroupId,
               pm.waived AS waived, pm.waivedAt AS waivedAt, pm.waiverReason AS waiverReason
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": resourceID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return nil, praxis_errors.ErrResourceNotFound
		}

		classificationName := stringValue(record, "classification")
		if classificationName == "" {
			// Resource exists but carries no privilege record.
			return (*model.PrivilegeMetadata)(nil), nil
		}
		classification, err := model.ParseClassification(classificationName)
		if err != nil {
			return nil, err
		}

		meta := &model.PrivilegeMetadata{
			ResourceID:          stringValue(record, "id"),
			Classification:      classification,
			AttorneyID:          stringValue(record, "attorneyId"),
			ClientID:            stringValue(record, "clientId"),
			MatterID:            stringValue(record, "matterId"),
			JointDefenseGroupID: stringValue(record, "jointDefenseGroupId"),
			Waived:              boolValue(record, "waived"),
			WaiverReason:        stringValue(record, "waiverReason"),
		}
		if waivedAt := stringValue(record, "waivedAt"); waivedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, waivedAt); err == nil {
				meta.WaivedAt = &parsed
			}
		}
		return meta, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to fetch resource privilege metadata",
			zap.Error(err),
			zap.String("resourceID", resourceID),
			zap.Duration("duration", duration))
		return nil, err
	}

	meta, _ := result.(*model.PrivilegeMetadata)
	logger.Debug("Fetched resource privilege metadata",
		zap.String("resourceID", resourceID),
		zap.Duration("duration", duration))
	return meta, nil
}

// GetDesignatedReviewers fetches the reviewer allow-list for a work-product
// resource.
func (dao *PrivilegeDAO) GetDesignatedReviewers(ctx context.Context, resourceID string) ([]string, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (r:RESOURCE {id: $id})-[:REVIEWABLE_BY]->(u:USER)
        RETURN collect(u.id) AS reviewers
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": resourceID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return []string(nil), nil
		}
		return stringListValue(record, "reviewers"), nil
	})
	if err != nil {
		logger.Error("Failed to fetch designated reviewers",
			zap.Error(err),
			zap.String("resourceID", resourceID))
		return nil, err
	}
	reviewers, _ := result.([]string)
	return reviewers, nil
}
