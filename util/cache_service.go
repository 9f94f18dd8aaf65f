// util/cache_service.go

package util

import (
	"context"

	"github.com/counselware/praxis/db"
	"github.com/counselware/praxis/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetMatterConflictMetadata(ctx context.Context, matterID string) (*model.MatterConflictMetadata, error) {
	return db.GetCachedMatterConflictMetadata(ctx, matterID)
}

func (c *CacheService) SetMatterConflictMetadata(ctx context.Context, matter model.MatterConflictMetadata) error {
	return db.CacheMatterConflictMetadata(ctx, &matter)
}

func (c *CacheService) DeleteMatterConflictMetadata(ctx context.Context, matterID string) error {
	return db.DeleteCachedMatterConflictMetadata(ctx, matterID)
}

func (c *CacheService) GetPrivilegeMetadata(ctx context.Context, resourceID string) (*model.PrivilegeMetadata, error) {
	return db.GetCachedPrivilegeMetadata(ctx, resourceID)
}

func (c *CacheService) SetPrivilegeMetadata(ctx context.Context, meta model.PrivilegeMetadata) error {
	return db.CachePrivilegeMetadata(ctx, &meta)
}

func (c *CacheService) DeletePrivilegeMetadata(ctx context.Context, resourceID string) error {
	return db.DeleteCachedPrivilegeMetadata(ctx, resourceID)
}

func (c *CacheService) GetWall(ctx context.Context, principalID string) (*model.EthicalWall, error) {
	return db.GetCachedWall(ctx, principalID)
}

func (c *CacheService) SetWall(ctx context.Context, wall model.EthicalWall) error {
	return db.CacheWall(ctx, &wall)
}

func (c *CacheService) DeleteWall(ctx context.Context, principalID string) error {
	return db.DeleteCachedWall(ctx, principalID)
}
