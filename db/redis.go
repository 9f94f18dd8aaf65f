// db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Privilege metadata names clients and matters, so cached copies are
// encrypted at rest.
func CachePrivilegeMetadata(ctx context.Context, meta *model.PrivilegeMetadata) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal privilege metadata: %w", err)
	}

	encryptedMeta, err := encrypt(metaJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt privilege metadata: %w", err)
	}

	key := fmt.Sprintf("privilege:%s", meta.ResourceID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedMeta), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache privilege metadata: %w", err)
	}

	logger.Debug("Privilege metadata cached successfully", zap.String("resourceID", meta.ResourceID))
	return nil
}

func GetCachedPrivilegeMetadata(ctx context.Context, resourceID string) (*model.PrivilegeMetadata, error) {
	key := fmt.Sprintf("privilege:%s", resourceID)
	encryptedMetaStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Privilege metadata not found in cache", zap.String("resourceID", resourceID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get privilege metadata from cache: %w", err)
	}

	encryptedMeta, err := base64.StdEncoding.DecodeString(encryptedMetaStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode privilege metadata: %w", err)
	}

	metaJSON, err := decrypt(encryptedMeta)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt privilege metadata: %w", err)
	}

	var meta model.PrivilegeMetadata
	err = json.Unmarshal(metaJSON, &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal privilege metadata: %w", err)
	}

	logger.Debug("Privilege metadata retrieved from cache", zap.String("resourceID", resourceID))
	return &meta, nil
}

func DeleteCachedPrivilegeMetadata(ctx context.Context, resourceID string) error {
	key := fmt.Sprintf("privilege:%s", resourceID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete privilege metadata from cache: %w", err)
	}
	logger.Debug("Privilege metadata deleted from cache", zap.String("resourceID", resourceID))
	return nil
}

func CacheMatterConflictMetadata(ctx context.Context, matter *model.MatterConflictMetadata) error {
	matterJSON, err := json.Marshal(matter)
	if err != nil {
		return fmt.Errorf("failed to marshal matter conflict metadata: %w", err)
	}

	key := fmt.Sprintf("matter-conflicts:%s", matter.MatterID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, matterJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache matter conflict metadata: %w", err)
	}

	logger.Debug("Matter conflict metadata cached successfully", zap.String("matterID", matter.MatterID))
	return nil
}

func GetCachedMatterConflictMetadata(ctx context.Context, matterID string) (*model.MatterConflictMetadata, error) {
	key := fmt.Sprintf("matter-conflicts:%s", matterID)
	matterJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Matter conflict metadata not found in cache", zap.String("matterID", matterID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get matter conflict metadata from cache: %w", err)
	}

	var matter model.MatterConflictMetadata
	err = json.Unmarshal([]byte(matterJSON), &matter)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal matter conflict metadata: %w", err)
	}

	logger.Debug("Matter conflict metadata retrieved from cache", zap.String("matterID", matterID))
	return &matter, nil
}

func DeleteCachedMatterConflictMetadata(ctx context.Context, matterID string) error {
	key := fmt.Sprintf("matter-conflicts:%s", matterID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete matter conflict metadata from cache: %w", err)
	}
	logger.Debug("Matter conflict metadata deleted from cache", zap.String("matterID", matterID))
	return nil
}

func CacheWall(ctx context.Context, wall *model.EthicalWall) error {
	wallJSON, err := json.Marshal(wall)
	if err != nil {
		return fmt.Errorf("failed to marshal ethical wall: %w", err)
	}

	key := fmt.Sprintf("wall:%s", wall.PrincipalID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, wallJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache ethical wall: %w", err)
	}

	logger.Debug("Ethical wall cached successfully", zap.String("principalID", wall.PrincipalID))
	return nil
}

func GetCachedWall(ctx context.Context, principalID string) (*model.EthicalWall, error) {
	key := fmt.Sprintf("wall:%s", principalID)
	wallJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Ethical wall not found in cache", zap.String("principalID", principalID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get ethical wall from cache: %w", err)
	}

	var wall model.EthicalWall
	err = json.Unmarshal([]byte(wallJSON), &wall)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal ethical wall: %w", err)
	}

	logger.Debug("Ethical wall retrieved from cache", zap.String("principalID", principalID))
	return &wall, nil
}

func DeleteCachedWall(ctx context.Context, principalID string) error {
	key := fmt.Sprintf("wall:%s", principalID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete ethical wall from cache: %w", err)
	}
	logger.Debug("Ethical wall deleted from cache", zap.String("principalID", principalID))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

func LockResource(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resourceName)
	locked, err := RedisClient.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	return locked, nil
}

func UnlockResource(ctx context.Context, resourceName string) error {
	key := fmt.Sprintf("lock:%s", resourceName)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}
