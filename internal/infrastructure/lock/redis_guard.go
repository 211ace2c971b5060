// Package lock guard distribuido de envíos sobre Redis.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/domain"
)

const keyPrefix = "site-logger:"

var _ inventory.SubmissionGuard = (*RedisGuard)(nil)

// releaseScript borra la clave solo si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisGuard impide dos envíos simultáneos con la misma clave entre réplicas del servicio.
type RedisGuard struct {
	client *redis.Client
}

// NewRedisGuard construye el guard.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// Acquire toma la clave con SETNX y TTL. Si ya está tomada devuelve domain.ErrSubmissionInProgress.
func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, domain.ErrSubmissionInProgress
	}
	return func() {
		// El ctx de la petición puede estar cancelado; la liberación usa uno propio.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, g.client, []string{keyPrefix + key}, token).Err()
	}, nil
}
