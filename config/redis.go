package config

import "github.com/redis/go-redis/v9"

// OpenRedis returns nil when no address is configured.
func OpenRedis(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}
