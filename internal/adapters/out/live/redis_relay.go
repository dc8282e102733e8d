package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
)

const (
	DefaultRelayChannel        = "cargo:live"
	DefaultRelayQueueSize      = 256
	DefaultRelayPublishTimeout = 2 * time.Second
)

// ErrRelayQueueFull is returned when events arrive faster than Redis takes them.
var ErrRelayQueueFull = errors.New("relay queue is full")

type RelayOptions struct {
	Channel        string
	QueueSize      int
	PublishTimeout time.Duration
}

type outgoing struct {
	ctx context.Context
	msg []byte
}

// envelope is the relay wire format. UserID is empty for broadcasts.
type envelope struct {
	Topic  string          `json:"topic"`
	UserID string          `json:"userId,omitempty"`
	Event  json.RawMessage `json:"event"`
}

// RedisRelay implements ports.LiveNotifier across instances: events are
// published on a Redis channel and every instance delivers what it receives
// to its own Registry. Publish and Broadcast only enqueue; a background
// publisher owned by Start and Stop talks to Redis.
type RedisRelay struct {
	client         *redis.Client
	channel        string
	local          *Registry
	logger         *slog.Logger
	outbox         chan outgoing
	publishTimeout time.Duration

	mu        sync.Mutex
	pubsub    *redis.PubSub
	done      chan struct{}
	quit      chan struct{}
	published chan struct{}
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewRedisRelay(client *redis.Client, local *Registry, logger *slog.Logger, opts RelayOptions) *RedisRelay {
	if opts.Channel == "" {
		opts.Channel = DefaultRelayChannel
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultRelayQueueSize
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultRelayPublishTimeout
	}
	return &RedisRelay{
		client:         client,
		channel:        opts.Channel,
		local:          local,
		logger:         logger.With("component", "live-relay"),
		outbox:         make(chan outgoing, opts.QueueSize),
		publishTimeout: opts.PublishTimeout,
	}
}

func (r *RedisRelay) Publish(ctx context.Context, topic ports.Topic, userID kernel.UUID, event ports.LiveEvent) error {
	return r.send(ctx, topic, userID.String(), event)
}

func (r *RedisRelay) Broadcast(ctx context.Context, topic ports.Topic, event ports.LiveEvent) error {
	return r.send(ctx, topic, "", event)
}

func (r *RedisRelay) send(ctx context.Context, topic ports.Topic, userID string, event ports.LiveEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(envelope{Topic: topic.String(), UserID: userID, Event: payload})
	if err != nil {
		return err
	}

	select {
	case r.outbox <- outgoing{ctx: context.WithoutCancel(ctx), msg: msg}:
		return nil
	default:
		return ErrRelayQueueFull
	}
}

func (r *RedisRelay) startPublisher() {
	r.quit = make(chan struct{})
	r.published = make(chan struct{})
	go r.publishLoop(r.quit, r.published)
}

func (r *RedisRelay) stopPublisher() {
	if r.quit == nil {
		return
	}
	close(r.quit)
	<-r.published
	r.quit, r.published = nil, nil
}

func (r *RedisRelay) publishLoop(quit <-chan struct{}, published chan struct{}) {
	defer close(published)

	for {
		select {
		case <-quit:
			if n := len(r.outbox); n > 0 {
				r.logger.Warn("relay stopped with queued events", "dropped", n)
			}
			return
		case out := <-r.outbox:
			ctx, cancel := context.WithTimeout(out.ctx, r.publishTimeout)
			if err := r.client.Publish(ctx, r.channel, out.msg).Err(); err != nil {
				r.logger.ErrorContext(ctx, "relay publish failed", "channel", r.channel, "error", err)
			}
			cancel()
		}
	}
}

// Start subscribes to the relay channel and returns once the subscription
// is confirmed. Delivery continues in the background until Stop.
func (r *RedisRelay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pubsub != nil {
		return nil
	}

	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("relay subscribe %s: %w", r.channel, err)
	}

	r.pubsub = pubsub
	r.done = make(chan struct{})
	go r.run(pubsub.Channel(), r.done)
	r.startPublisher()

	r.logger.Info("relay started", "channel", r.channel)
	return nil
}

// Stop ends the publisher, closes the subscription and waits for the
// delivery loop to exit. Events still queued are dropped.
func (r *RedisRelay) Stop() error {
	r.mu.Lock()
	pubsub, done := r.pubsub, r.done
	r.pubsub, r.done = nil, nil
	r.stopPublisher()
	r.mu.Unlock()

	if pubsub == nil {
		return nil
	}
	err := pubsub.Close()
	<-done
	r.logger.Info("relay stopped")
	return err
}

func (r *RedisRelay) run(messages <-chan *redis.Message, done chan struct{}) {
	defer close(done)

	for msg := range messages {
		r.deliver(msg.Payload)
	}
}

func (r *RedisRelay) deliver(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn("malformed relay message", "error", err)
		return
	}

	topic := ports.ParseTopic(env.Topic)
	if env.UserID == "" {
		r.local.DeliverAll(topic, env.Event)
		return
	}

	userID, err := kernel.UUIDFromString(env.UserID)
	if err != nil {
		r.logger.Warn("relay message with invalid user id", "userId", env.UserID, "error", err)
		return
	}
	r.local.DeliverTo(topic, userID, env.Event)
}
