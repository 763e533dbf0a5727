// Package redis wraps the Redis cache.
// This file holds connection initialization only.
package redis

import (
	"strconv"

	"lingua_tutor_server/internal/config"

	"github.com/redis/go-redis/v9"
)

// redisClient is the package-global client.
var redisClient *redis.Client

// cacheService is the global cache service instance.
var cacheService AsyncCacheService

// Init creates the Redis client and the cache worker pool from config.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,

		PoolSize:     50,
		MinIdleConns: 15,
	})

	// 15 workers, queue of 3000 shared by all services.
	cacheService = NewRedisCache(redisClient, 15, 3000)
}

// GetCacheService returns the global cache service.
func GetCacheService() AsyncCacheService {
	return cacheService
}
