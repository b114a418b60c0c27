package trigger

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"

	"autobk/internal/autobk"
	"autobk/internal/config"
)

const defaultRedisStream = "autobk:backup-requests"

// streamAdder is the part of *redis.Client used by RedisTrigger.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisTrigger appends backup requests to a Redis stream consumed by the
// backup executor. Each entry carries the JSON request in "data" and the
// request time as unix seconds in "timestamp".
type RedisTrigger struct {
	client streamAdder
	closer func() error
	stream string
	requestBuilder
}

// NewRedisTrigger connects lazily; the first XADD dials the server.
func NewRedisTrigger(cfg config.TriggerConfig, clock autobk.Clock, idgen autobk.RequestIDGenerator) *RedisTrigger {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	t := newRedisTrigger(client, cfg.RedisStream, clock, idgen)
	t.closer = client.Close
	return t
}

func newRedisTrigger(client streamAdder, stream string, clock autobk.Clock, idgen autobk.RequestIDGenerator) *RedisTrigger {
	if stream == "" {
		stream = defaultRedisStream
	}
	return &RedisTrigger{
		client:         client,
		stream:         stream,
		requestBuilder: newRequestBuilder(clock, idgen),
	}
}

func (r *RedisTrigger) TriggerBackup(ctx context.Context, device *autobk.Device) (*autobk.BackupHandle, error) {
	req := r.build(device)
	data, err := req.encode()
	if err != nil {
		return nil, triggerError("publishing request", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": strconv.FormatInt(req.RequestedAt.Unix(), 10),
		},
	}).Result()
	if err != nil {
		return nil, triggerError("publishing request", err)
	}

	return req.handle("redis", r.stream+"/"+id), nil
}

// Close releases the Redis connection pool.
func (r *RedisTrigger) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

var _ autobk.BackupTrigger = (*RedisTrigger)(nil)
