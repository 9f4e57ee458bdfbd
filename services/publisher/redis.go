package publisher

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Ping checks the connection
func (p *RedisPublisher) Ping() error {
	return p.client.Ping(p.ctx).Err()
}

// StreamName returns the stream for shard i, e.g. news:0 ~ news:N-1
func (p *RedisPublisher) StreamName(i int) string {
	return p.streamPrefix + ":" + strconv.Itoa(i)
}

// Publish base64 encodes payload and appends it to a random stream shard
func (p *RedisPublisher) Publish(field string, payload []byte) error {
	encoded := base64.StdEncoding.EncodeToString(payload)
	stream := p.StreamName(rand.IntN(p.streamCount))

	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			field: encoded,
		},
	}).Err()
}

// TrimStreams trims every shard to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	for i := 0; i < p.streamCount; i++ {
		err := p.client.XTrimMaxLen(p.ctx, p.StreamName(i), int64(p.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
