// dao/wall_dao.go
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

// WallDAO persists ethical walls. Walls are administered by the ethics desk
// and read during principal resolution.
type WallDAO struct {
	Driver neo4j.DriverWithContext
}

func NewWallDAO(driver neo4j.DriverWithContext) *WallDAO {
	dao := &WallDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint on wall id", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the wall id.
func (dao *WallDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_wall_id IF NOT EXISTS
        FOR (w:WALL) REQUIRE w.id IS UNIQUE
        `
		_, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on wall id", zap.Error(err))
		return err
	}
	return nil
}

// CreateWall stores a new ethical wall for a principal. A principal carries
// at most one wall; creating a second is a conflict.
func (dao *WallDAO) CreateWall(ctx context.Context, wall model.EthicalWall) (string, error) {
	start := time.Now()
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if wall.ID == "" {
		wall.ID = uuid.New().String()
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		checkQuery := `
        MATCH (w:WALL {principalId: $principalId})
        WHERE w.expiresAt IS NULL OR w.expiresAt > $now
        RETURN w.id
        `
		checkResult, err := tx.Run(ctx, checkQuery, map[string]interface{}{
			"principalId": wall.PrincipalID,
			"now":         time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		if checkResult.Next(ctx) {
			return nil, praxis_errors.ErrWallConflict
		}

		matterIDsJSON, _ := json.Marshal(wall.MatterIDs)
		clientIDsJSON, _ := json.Marshal(wall.ClientIDs)
		partyIDsJSON, _ := json.Marshal(wall.OpposingPartyIDs)

		createQuery := `
        MERGE (w:WALL {id: $id})
        ON CREATE SET w += $props
        RETURN w.id AS id
        `
		parameters := map[string]interface{}{
			"id": wall.ID,
			"props": map[string]interface{}{
				"principalId":      wall.PrincipalID,
				"matterIds":        string(matterIDsJSON),
				"clientIds":        string(clientIDsJSON),
				"opposingPartyIds": string(partyIDsJSON),
				"reason":           wall.Reason,
				"approverId":       wall.ApproverID,
				"createdAt":        time.Now().Format(time.RFC3339),
				"expiresAt":        formatNullableTime(wall.ExpiresAt),
				"certifications":   "[]",
			},
		}
		createResult, err := tx.Run(ctx, createQuery, parameters)
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		if _, err := createResult.Single(ctx); err != nil {
			return nil, praxis_errors.ErrInternalServer
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create ethical wall",
			zap.Error(err),
			zap.String("principalID", wall.PrincipalID),
			zap.Duration("duration", duration))
		return "", err
	}

	logger.Info("Ethical wall created",
		zap.String("wallID", wall.ID),
		zap.String("principalID", wall.PrincipalID),
		zap.Duration("duration", duration))
	return wall.ID, nil
}

// GetWallForPrincipal fetches the wall screening a principal, or (nil, nil)
// when none exists.
func (dao *WallDAO) GetWallForPrincipal(ctx context.Context, principalID string) (*model.EthicalWall, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (w:WALL {principalId: $principalId})
        RETURN w.id AS id, w.principalId AS principalId, w.matterIds AS matterIds,
               w.clientIds AS clientIds, w.opposingPartyIds AS opposingPartyIds,
               w.reason AS reason, w.approverId AS approverId,
               w.createdAt AS createdAt, w.expiresAt AS expiresAt,
               w.certifications AS certifications
        ORDER BY w.createdAt DESC
        LIMIT 1
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"principalId": principalID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return (*model.EthicalWall)(nil), nil
		}
		return parseWallRecord(record)
	})
	if err != nil {
		logger.Error("Failed to fetch ethical wall",
			zap.Error(err),
			zap.String("principalID", principalID))
		return nil, err
	}
	wall, _ := result.(*model.EthicalWall)
	return wall, nil
}

// CertifyWall appends a certification timestamp attesting the wall is intact.
func (dao *WallDAO) CertifyWall(ctx context.Context, wallID string, certifiedAt time.Time) error {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (w:WALL {id: $id})
        RETURN w.certifications AS certifications
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": wallID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return nil, praxis_errors.ErrWallNotFound
		}

		var certifications []string
		if raw := stringValue(record, "certifications"); raw != "" {
			json.Unmarshal([]byte(raw), &certifications)
		}
		certifications = append(certifications, certifiedAt.Format(time.RFC3339))
		certificationsJSON, _ := json.Marshal(certifications)

		updateQuery := `
        MATCH (w:WALL {id: $id})
        SET w.certifications = $certifications
        RETURN w.id
        `
		_, err = tx.Run(ctx, updateQuery, map[string]interface{}{
			"id":             wallID,
			"certifications": string(certificationsJSON),
		})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to certify ethical wall", zap.Error(err), zap.String("wallID", wallID))
		return err
	}

	logger.Info("Ethical wall certified", zap.String("wallID", wallID))
	return nil
}

// DeleteWall tears down a wall, typically after the underlying conflict is
// resolved or the engagement ends.
func (dao *WallDAO) DeleteWall(ctx context.Context, wallID string) error {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
        MATCH (w:WALL {id: $id})
        DETACH DELETE w
        RETURN count(w) AS deleted
        `
		records, err := tx.Run(ctx, query, map[string]interface{}{"id": wallID})
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		record, err := records.Single(ctx)
		if err != nil {
			return nil, praxis_errors.ErrDatabaseOperation
		}
		if deleted, _ := record.Get("deleted"); deleted == int64(0) {
			return nil, praxis_errors.ErrWallNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to delete ethical wall", zap.Error(err), zap.String("wallID", wallID))
		return err
	}

	logger.Info("Ethical wall deleted", zap.String("wallID", wallID))
	return nil
}

func parseWallRecord(record *neo4j.Record) (*model.EthicalWall, error) {
	wall := &model.EthicalWall{
		ID:          stringValue(record, "id"),
		PrincipalID: stringValue(record, "principalId"),
		Reason:      stringValue(record, "reason"),
		ApproverID:  stringValue(record, "approverId"),
	}

	json.Unmarshal([]byte(stringValue(record, "matterIds")), &wall.MatterIDs)
	json.Unmarshal([]byte(stringValue(record, "clientIds")), &wall.ClientIDs)
	json.Unmarshal([]byte(stringValue(record, "opposingPartyIds")), &wall.OpposingPartyIDs)

	if createdAt := stringValue(record, "createdAt"); createdAt != "" {
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			wall.CreatedAt = parsed
		}
	}
	if expiresAt := stringValue(record, "expiresAt"); expiresAt != "" {
		if parsed, err := time.Parse(time.RFC3339, expiresAt); err == nil {
			wall.ExpiresAt = &parsed
		}
	}

	var certifications []string
	if raw := stringValue(record, "certifications"); raw != "" {
		json.Unmarshal([]byte(raw), &certifications)
	}
	for _, cert := range certifications {
		if parsed, err := time.Parse(time.RFC3339, cert); err == nil {
			wall.Certifications = append(wall.Certifications, parsed)
		}
	}

	return wall, nil
}
