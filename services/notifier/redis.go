package notifier

import (
	"context"
	"encoding/base64"
	"strconv"

	"math/rand/v2"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier implements Notifier by publishing messages to a Redis
// stream. An external relay consumes the stream and performs the actual
// WhatsApp delivery to the phone number carried in each entry.
type RedisNotifier struct {
	client          *redis.Client
	ctx             context.Context
	phone           string
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisNotifier creates a new Redis stream notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, phone, streamPrefix string, streamCount, streamMaxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:          client,
		ctx:             ctx,
		phone:           phone,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Notify publishes a message to a Redis stream.
// The body is base64 encoded before publishing.
func (n *RedisNotifier) Notify(kind string, body string) error {
	encodedBody := base64.StdEncoding.EncodeToString([]byte(body))

	// random stream name by streamCount
	// if streamCount is 10, stream name will be stream:0 ~ stream:9
	stream := n.streamPrefix + ":" + strconv.Itoa(rand.IntN(n.streamCount))

	return n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"phone": n.phone,
			"kind":  kind,
			"body":  encodedBody,
		},
	}).Err()
}

// TrimStreams trims all notification streams to the configured maximum length
func (n *RedisNotifier) TrimStreams() error {
	pattern := n.streamPrefix + ":*"
	streams, err := n.client.Keys(n.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := n.client.XTrimMaxLen(n.ctx, stream, int64(n.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
