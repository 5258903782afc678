package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
)

// SessionResultCache evita rearmar el read model de sesiones completadas en
// cada lectura. Las sesiones son inmutables una vez completadas, así que la
// entrada nunca queda stale; el TTL solo acota memoria.
type SessionResultCache interface {
	Get(ctx context.Context, sessionID string) (domain.DaylightSessionResult, bool)
	Set(ctx context.Context, result domain.DaylightSessionResult)
}

type redisSessionResultCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
	prefix string
}

func NewRedisSessionResultCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) SessionResultCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisSessionResultCache{
		client: client,
		logger: logger,
		ttl:    ttl,
		prefix: "daylight:session:",
	}
}

func (c *redisSessionResultCache) Get(ctx context.Context, sessionID string) (domain.DaylightSessionResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+sessionID).Bytes()
	if err != nil {
		return domain.DaylightSessionResult{}, false
	}
	var result domain.DaylightSessionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("corrupt session result in cache, evicting",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		c.client.Del(ctx, c.prefix+sessionID)
		return domain.DaylightSessionResult{}, false
	}
	return result, true
}

func (c *redisSessionResultCache) Set(ctx context.Context, result domain.DaylightSessionResult) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+result.Session.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("could not cache session result",
			zap.String("session_id", result.Session.ID),
			zap.Error(err),
		)
	}
}
