package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultInvalidationChannel carries invalidation messages between instances
const DefaultInvalidationChannel = "salesdash:cache:invalidate"

const invalidatorCloseTimeout = 5 * time.Second

// InvalidationMessage asks every instance to drop local entries under Prefix
type InvalidationMessage struct {
	Prefix    string `json:"prefix"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// Invalidator fans out L1 invalidations over Redis Pub/Sub
type Invalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu       sync.Mutex
	cancelFn context.CancelFunc
	running  bool
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewInvalidator creates an invalidator on an existing client
func NewInvalidator(client *redis.Client, channel string, logger *zap.Logger) *Invalidator {
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{
		client:  client,
		channel: channel,
		logger:  logger,
		doneCh:  make(chan struct{}),
	}
}

// Publish sends msg to all subscribers
func (i *Invalidator) Publish(ctx context.Context, msg InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe blocks, invoking fn for each message until ctx is done or Close is called
func (i *Invalidator) Subscribe(ctx context.Context, fn func(InvalidationMessage)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.running = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		i.doneOnce.Do(func() { close(i.doneCh) })
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", i.channel, err)
	}
	i.logger.Info("Subscribed to cache invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg InvalidationMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				i.logger.Warn("Dropping malformed invalidation", zap.String("payload", m.Payload), zap.Error(err))
				continue
			}
			fn(msg)
		}
	}
}

// Close stops a running subscription
func (i *Invalidator) Close() error {
	i.mu.Lock()
	cancel := i.cancelFn
	i.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-i.doneCh:
	case <-time.After(invalidatorCloseTimeout):
		i.logger.Warn("Timeout waiting for invalidation subscription to stop")
	}
	return nil
}
