package database

import (
	"context"
	"log"
	"time"

	"shopmobile/pkg/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the client holding short-lived tokens (password resets).
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	log.Println("Redis connected successfully")
	return rdb, nil
}
