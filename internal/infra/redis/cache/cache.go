package infra_redis_cache

import (
	"time"

	"github.com/go-redis/redis"
)

// Driver is a plain byte cache. Misses read as (nil, nil).
type Driver struct {
	client *redis.Client
}

func New(client *redis.Client) *Driver {
	return &Driver{client: client}
}

func (d *Driver) Get(key string) ([]byte, error) {
	val, err := d.client.Get(key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (d *Driver) Set(key string, value []byte, ttl time.Duration) error {
	return d.client.Set(key, value, ttl).Err()
}
