package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rmohan/halite-rl-env/rl"
)

// RedisSink pushes traces onto redis lists keyed by experiment and run, so
// analysis can run on another machine while experiments are still going.
type RedisSink struct {
	client *redis.Client
	ctx    context.Context
}

var _ rl.TraceSink = &RedisSink{}

// NewRedisSink connects to the given address and verifies the connection.
func NewRedisSink(ctx context.Context, addr string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisSink{client: client, ctx: ctx}, nil
}

func traceKey(experiment string, run int) string {
	return "traces:" + experiment + ":" + strconv.Itoa(run)
}

func (r *RedisSink) Append(experiment string, run int, t *rl.Trace) error {
	bs, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.client.RPush(r.ctx, traceKey(experiment, run), bs).Err()
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
