// dao/waiver_dao.go
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

// WaiverDAO stores conflict waivers and answers the screener's lookup. It
// implements engine.WaiverResolver.
type WaiverDAO struct {
	Driver neo4j.DriverWithContext
}

func NewWaiverDAO(driver neo4j.DriverWithContext) *WaiverDAO {
	return &WaiverDAO{Driver: driver}
}

// FindValidWaiver returns the id of an on-file waiver among waiverIDs that
// covers the given matter and conflict type and has not expired, or "" when
// none applies.
func (dao *WaiverDAO) FindValidWaiver(ctx context.Context, waiverIDs []string, matterID string, conflictType model.ConflictType) (string, error) {
	if len(waiverIDs) == 0 {
		return "", nil
	}

	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (w:WAIVER)
        WHERE w.id IN $waiverIds AND w.matterId = $matterId AND w.conflictType = $conflictType
          AND (w.expiresAt IS NULL OR w.expiresAt > $now)
        RETURN w.id AS id
        LIMIT 1
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{
			"waiverIds":    waiverIDs,
			"matterId":     matterID,
			"conflictType": string(conflictType),
			"now":          time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return "", nil
		}
		return stringValue(record, "id"), nil
	})
	if err != nil {
		logger.Error("Failed to resolve waiver",
			zap.Error(err),
			zap.String("matterID", matterID),
			zap.String("conflictType", string(conflictType)))
		return "", err
	}

	waiverID, _ := result.(string)
	if waiverID != "" {
		logger.Info("Waiver resolved for conflict",
			zap.String("waiverID", waiverID),
			zap.String("matterID", matterID),
			zap.String("conflictType", string(conflictType)))
	}
	return waiverID, nil
}

// CreateWaiver records a new informed-consent waiver.
func (dao *WaiverDAO) CreateWaiver(ctx context.Context, waiver model.ConflictWaiver) (string, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if waiver.ID == "" {
		waiver.ID = uuid.New().String()
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MERGE (w:WAIVER {id: $id})
        ON CREATE SET w += $props
        RETURN w.id AS id
        `
		parameters := map[string]interface{}{
			"id": waiver.ID,
			"props": map[string]interface{}{
				"matterId":     waiver.MatterID,
				"conflictType": string(waiver.ConflictType),
				"clientId":     waiver.ClientID,
				"reason":       waiver.Reason,
				"approvedBy":   waiver.ApprovedBy,
				"signedAt":     waiver.SignedAt.Format(time.RFC3339),
				"expiresAt":    formatNullableTime(waiver.ExpiresAt),
			},
		}
		records, err := tx.Run(ctx, query, parameters)
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		if _, err := records.Single(ctx); err != nil {
			return nil, praxis_errors.ErrInternalServer
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to create waiver",
			zap.Error(err),
			zap.String("matterID", waiver.MatterID))
		return "", err
	}

	logger.Info("Waiver created",
		zap.String("waiverID", waiver.ID),
		zap.String("matterID", waiver.MatterID),
		zap.String("conflictType", string(waiver.ConflictType)))
	return waiver.ID, nil
}

// GetWaiver fetches one waiver by id.
func (dao *WaiverDAO) GetWaiver(ctx context.Context, waiverID string) (*model.ConflictWaiver, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (w:WAIVER {id: $id})
        RETURN w.id AS id, w.matterId AS matterId, w.conflictType AS conflictType,
               w.clientId AS clientId, w.reason AS reason, w.approvedBy AS approvedBy,
               w.signedAt AS signedAt, w.expiresAt AS expiresAt
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": waiverID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return nil, praxis_errors.ErrWaiverNotFound
		}

		waiver := &model.ConflictWaiver{
			ID:           stringValue(record, "id"),
			MatterID:     stringValue(record, "matterId"),
			ConflictType: model.ConflictType(stringValue(record, "conflictType")),
			ClientID:     stringValue(record, "clientId"),
			Reason:       stringValue(record, "reason"),
			ApprovedBy:   stringValue(record, "approvedBy"),
		}
		if signedAt := stringValue(record, "signedAt"); signedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, signedAt); err == nil {
				waiver.SignedAt = parsed
			}
		}
		if expiresAt := stringValue(record, "expiresAt"); expiresAt != "" {
			if parsed, err := time.Parse(time.RFC3339, expiresAt); err == nil {
				waiver.ExpiresAt = &parsed
			}
		}
		return waiver, nil
	})
	if err != nil {
		logger.Error("Failed to fetch waiver", zap.Error(err), zap.String("waiverID", waiverID))
		return nil, err
	}
	return result.(*model.ConflictWaiver), nil
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
