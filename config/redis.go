package config

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
)

func NewRedis(cfg *Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
