package utils

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Logout revokes tokens by blacklisting them until they would have expired.
// When REDIS_ADDR is set the blacklist is shared across processes; otherwise
// it lives in memory, which is enough for a single instance.

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex

	redisClient *redis.Client
	redisOnce   sync.Once
)

func blacklistRedis() *redis.Client {
	redisOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			return
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			if ErrorLogger != nil {
				ErrorLogger.Printf("redis unreachable, falling back to in-memory blacklist: %v", err)
			}
			redisClient = nil
		}
	})
	return redisClient
}

func BlacklistToken(token string) {
	// Entries live exactly as long as the token would; an already expired
	// token is rejected by ParseToken and needs no entry.
	ttl := TokenRemainingLife(token)
	if ttl <= 0 {
		return
	}

	if rdb := blacklistRedis(); rdb != nil {
		if err := rdb.Set(context.Background(), "blacklist:"+token, "1", ttl).Err(); err == nil {
			return
		}
	}

	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(ttl)
}

func IsTokenBlacklisted(token string) bool {
	if rdb := blacklistRedis(); rdb != nil {
		if n, err := rdb.Exists(context.Background(), "blacklist:"+token).Result(); err == nil {
			return n > 0
		}
	}

	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()
	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}
