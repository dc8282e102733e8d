package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/ports"
)

// Live event kinds, sent as the "status" field.
const (
	EventOrderCreated           = "order_created"
	EventOrderTaken             = "order_taken"
	EventOrderConfirmed         = "order_confirmed"
	EventDriverRejected         = "driver_rejected"
	EventOrderCancelled         = "order_cancelled"
	EventOrderDeparted          = "order_departed"
	EventOrderCompleted         = "order_completed"
	EventOrderWithdrawn         = "order_withdrawn"
	EventLocationUpdated        = "location_updated"
	EventDriverApproved         = "driver_approved"
	EventCompanyManagerApproved = "company_manager_approved"
	EventNewUser                = "new_user"
)

const defaultPushTimeout = 10 * time.Second

// FanOut delivers the side effects of a committed command. Live events are
// enqueued synchronously and never block; push notifications are sent from
// a goroutine detached from the request. Failures of either are logged and
// never reach the caller.
type FanOut struct {
	live        ports.LiveNotifier
	push        ports.PushNotifier
	logger      *slog.Logger
	pushTimeout time.Duration

	wg sync.WaitGroup
}

// NewFanOut wires the notifiers. push may be nil when no gateway is configured.
func NewFanOut(live ports.LiveNotifier, push ports.PushNotifier, logger *slog.Logger, pushTimeout time.Duration) *FanOut {
	if pushTimeout <= 0 {
		pushTimeout = defaultPushTimeout
	}
	return &FanOut{
		live:        live,
		push:        push,
		logger:      logger.With("component", "fan-out"),
		pushTimeout: pushTimeout,
	}
}

// Broadcast sends event to every subscriber of topic.
func (f *FanOut) Broadcast(ctx context.Context, topic ports.Topic, event ports.LiveEvent) {
	if f.live == nil {
		return
	}
	if err := f.live.Broadcast(ctx, topic, event); err != nil {
		f.logger.WarnContext(ctx, "live broadcast failed", "topic", topic.String(), "event", event.Status, "error", err)
	}
}

// Publish sends event to one user on topic.
func (f *FanOut) Publish(ctx context.Context, topic ports.Topic, userID kernel.UUID, event ports.LiveEvent) {
	if f.live == nil {
		return
	}
	if err := f.live.Publish(ctx, topic, userID, event); err != nil {
		f.logger.WarnContext(ctx, "live publish failed",
			"topic", topic.String(), "userId", userID.String(), "event", event.Status, "error", err)
	}
}

// Push notifies the user's device if a token is registered.
func (f *FanOut) Push(ctx context.Context, user *identity.User, title, body string, data map[string]string) {
	if f.push == nil || user == nil || !user.HasPushToken() {
		return
	}
	msg := ports.PushMessage{
		Token:      user.PushToken(),
		DeviceType: string(user.DeviceType()),
		Title:      title,
		Body:       body,
		Data:       data,
	}
	userID := user.ID().String()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.pushTimeout)
		defer cancel()

		if err := f.push.Send(pushCtx, msg); err != nil {
			f.logger.Error("push notification failed", "userId", userID, "title", title, "error", err)
		}
	}()
}

// Wait blocks until every push started so far has finished.
func (f *FanOut) Wait() {
	f.wg.Wait()
}

// OrderChanged broadcasts the new state of o on the order-updates topic.
func (f *FanOut) OrderChanged(ctx context.Context, kind string, o *order.Order) {
	f.Broadcast(ctx, ports.OrderUpdatesTopic(), orderEvent(kind, o))
}

func orderEvent(kind string, o *order.Order) ports.LiveEvent {
	fields := map[string]any{
		"orderId":     o.ID().String(),
		"orderStatus": o.Status().String(),
		"updatedAt":   o.UpdatedAt().UTC().Format(time.RFC3339),
		"driverId":    nil,
	}
	if d := o.DriverID(); d != nil {
		fields["driverId"] = d.String()
	}
	return ports.NewLiveEvent(kind, fields)
}

func locationEvent(o *order.Order) ports.LiveEvent {
	fields := map[string]any{"orderId": o.ID().String()}
	if geo := o.Geo(); geo != nil {
		fields["latitude"] = geo.Latitude()
		fields["longitude"] = geo.Longitude()
	}
	if at := o.GeoUpdatedAt(); at != nil {
		fields["updatedAt"] = at.UTC().Format(time.RFC3339)
	}
	return ports.NewLiveEvent(EventLocationUpdated, fields)
}

func orderPushData(o *order.Order) map[string]string {
	return map[string]string{"orderId": o.ID().String(), "orderStatus": o.Status().String()}
}
