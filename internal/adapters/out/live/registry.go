// Package live keeps the process-local registry of open live connections
// and delivers events to them. A connection is keyed by (topic, user); the
// most recent subscribe for a key wins and closes the previous connection.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
)

const DefaultSendBuffer = 16

// Conn is the transport under a subscription.
type Conn interface {
	// Ping checks the peer is still there. It may be called concurrently
	// with the subscription's writer.
	Ping(deadline time.Time) error
	Close() error
}

// Subscription is one registered connection. The transport drains
// Messages until Done is closed.
type Subscription struct {
	topic  ports.Topic
	userID kernel.UUID
	conn   Conn
	send   chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

func (s *Subscription) Topic() ports.Topic      { return s.topic }
func (s *Subscription) UserID() kernel.UUID     { return s.userID }
func (s *Subscription) Messages() <-chan []byte { return s.send }
func (s *Subscription) Done() <-chan struct{}   { return s.done }

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// Registry implements ports.LiveNotifier for the connections of this process.
type Registry struct {
	mu         sync.RWMutex
	subs       map[ports.Topic]map[kernel.UUID]*Subscription
	sendBuffer int
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger, sendBuffer int) *Registry {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Registry{
		subs:       make(map[ports.Topic]map[kernel.UUID]*Subscription),
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "live-registry"),
	}
}

// Subscribe registers conn for (topic, userID), replacing and closing any
// previous connection of the same key.
func (r *Registry) Subscribe(topic ports.Topic, userID kernel.UUID, conn Conn) *Subscription {
	sub := &Subscription{
		topic:  topic,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, r.sendBuffer),
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	byUser, ok := r.subs[topic]
	if !ok {
		byUser = make(map[kernel.UUID]*Subscription)
		r.subs[topic] = byUser
	}
	previous := byUser[userID]
	byUser[userID] = sub
	r.mu.Unlock()

	if previous != nil {
		previous.close()
		r.logger.Debug("connection replaced", "topic", topic.String(), "userId", userID.String())
	}
	return sub
}

// Unsubscribe removes sub and closes its connection. It is safe to call
// more than once and after sub was replaced.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	if byUser, ok := r.subs[sub.topic]; ok && byUser[sub.userID] == sub {
		delete(byUser, sub.userID)
		if len(byUser) == 0 {
			delete(r.subs, sub.topic)
		}
	}
	r.mu.Unlock()

	sub.close()
}

// Publish enqueues event for userID on topic. A missing subscriber is not
// an error.
func (r *Registry) Publish(_ context.Context, topic ports.Topic, userID kernel.UUID, event ports.LiveEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.DeliverTo(topic, userID, payload)
	return nil
}

// Broadcast enqueues event for every subscriber of topic.
func (r *Registry) Broadcast(_ context.Context, topic ports.Topic, event ports.LiveEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.DeliverAll(topic, payload)
	return nil
}

// DeliverTo enqueues an encoded event for one subscriber.
func (r *Registry) DeliverTo(topic ports.Topic, userID kernel.UUID, payload []byte) {
	r.mu.RLock()
	sub := r.subs[topic][userID]
	r.mu.RUnlock()

	if sub != nil && !r.enqueue(sub, payload) {
		r.drop(sub)
	}
}

// DeliverAll enqueues an encoded event for every subscriber of topic.
func (r *Registry) DeliverAll(topic ports.Topic, payload []byte) {
	var slow []*Subscription

	r.mu.RLock()
	for _, sub := range r.subs[topic] {
		if !r.enqueue(sub, payload) {
			slow = append(slow, sub)
		}
	}
	r.mu.RUnlock()

	for _, sub := range slow {
		r.drop(sub)
	}
}

// enqueue never blocks; false means the send buffer is full.
func (r *Registry) enqueue(sub *Subscription, payload []byte) bool {
	select {
	case <-sub.done:
		return true
	default:
	}
	select {
	case sub.send <- payload:
		return true
	default:
		return false
	}
}

func (r *Registry) drop(sub *Subscription) {
	r.logger.Warn("dropping slow connection", "topic", sub.topic.String(), "userId", sub.userID.String())
	r.Unsubscribe(sub)
}

// Ping pings every registered connection and unsubscribes those that fail.
// It returns the number of connections dropped.
func (r *Registry) Ping(ctx context.Context, timeout time.Duration) int {
	subs := r.snapshot()
	deadline := time.Now().Add(timeout)

	dropped := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		if err := sub.conn.Ping(deadline); err != nil {
			r.logger.InfoContext(ctx, "ping failed, unsubscribing",
				"topic", sub.topic.String(), "userId", sub.userID.String(), "error", err)
			r.Unsubscribe(sub)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, byUser := range r.subs {
		n += len(byUser)
	}
	return n
}

func (r *Registry) snapshot() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*Subscription, 0)
	for _, byUser := range r.subs {
		for _, sub := range byUser {
			subs = append(subs, sub)
		}
	}
	return subs
}
