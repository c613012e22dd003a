package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lease gives one process instance of the scheduler exclusive ownership of
// cron dispatch for a bounded window, so running two scheduler replicas
// never double-schedules the same source.
type Lease struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

func NewLease(client *redis.Client, key string, ttl time.Duration) *Lease {
	owner := os.Getenv("HOSTNAME")
	if owner == "" {
		owner = "scheduler"
	}
	return &Lease{client: client, key: key, owner: owner, ttl: ttl}
}

// Acquire reports whether this instance now holds the lease, using Redis's
// SET NX as the compare-and-swap primitive.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
}

// Renew extends the lease only if this instance is still the recorded
// owner, so a lease that expired and was claimed by another replica is
// never silently stolen back.
func (l *Lease) Renew(ctx context.Context) (bool, error) {
	current, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return l.Acquire(ctx)
	}
	if err != nil {
		return false, err
	}
	if current != l.owner {
		return false, nil
	}
	if err := l.client.Expire(ctx, l.key, l.ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Lease) Release(ctx context.Context) error {
	current, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if current != l.owner {
		return nil
	}
	return l.client.Del(ctx, l.key).Err()
}
