package integration

import (
	"context"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type Env struct {
	Redis     *tcredis.RedisContainer
	RedisAddr string
	Cancel    context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		cancel()
		return nil, err
	}

	endpoint, err := redisC.Endpoint(ctx, "")
	if err != nil {
		cancel()
		return nil, err
	}

	return &Env{
		Redis:     redisC,
		RedisAddr: endpoint,
		Cancel:    cancel,
	}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	e.Cancel()
	_ = e.Redis.Terminate(ctx)
}
