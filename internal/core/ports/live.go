package ports

import (
	"context"
	"encoding/json"
	"maps"
	"strings"

	"cargo/internal/core/domain/model/kernel"
)

// TopicKind is a family of live channels.
type TopicKind string

const (
	TopicOrderUpdates           TopicKind = "order_updates"
	TopicOrderLocation          TopicKind = "order_location"
	TopicDriverApproval         TopicKind = "driver_approval"
	TopicCompanyManagerApproval TopicKind = "company_manager_approval"
	TopicNewUsers               TopicKind = "new_users"
)

// Topic is a live channel. Scope narrows a kind, e.g. the order id of an
// order_location topic.
type Topic struct {
	Kind  TopicKind
	Scope string
}

func OrderUpdatesTopic() Topic { return Topic{Kind: TopicOrderUpdates} }

func OrderLocationTopic(orderID kernel.UUID) Topic {
	return Topic{Kind: TopicOrderLocation, Scope: orderID.String()}
}

func DriverApprovalTopic() Topic         { return Topic{Kind: TopicDriverApproval} }
func CompanyManagerApprovalTopic() Topic { return Topic{Kind: TopicCompanyManagerApproval} }
func NewUsersTopic() Topic               { return Topic{Kind: TopicNewUsers} }

// String renders "kind" or "kind:scope".
func (t Topic) String() string {
	if t.Scope == "" {
		return string(t.Kind)
	}
	return string(t.Kind) + ":" + t.Scope
}

// ParseTopic is the inverse of Topic.String.
func ParseTopic(s string) Topic {
	kind, scope, _ := strings.Cut(s, ":")
	return Topic{Kind: TopicKind(kind), Scope: scope}
}

// LiveEvent is a message to live subscribers. It is encoded as a flat JSON
// object: {"status": <Status>, ...Fields}.
type LiveEvent struct {
	Status string
	Fields map[string]any
}

func NewLiveEvent(status string, fields map[string]any) LiveEvent {
	return LiveEvent{Status: status, Fields: fields}
}

func (e LiveEvent) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+1)
	maps.Copy(out, e.Fields)
	out["status"] = e.Status
	return json.Marshal(out)
}

func (e *LiveEvent) UnmarshalJSON(data []byte) error {
	var in map[string]any
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	status, _ := in["status"].(string)
	delete(in, "status")
	e.Status = status
	e.Fields = in
	return nil
}

// LiveNotifier delivers events to open live connections. Delivery is best
// effort: a missing subscriber is not an error and callers never block on
// a slow connection.
type LiveNotifier interface {
	// Publish sends event to the connection of userID on topic, if any.
	Publish(ctx context.Context, topic Topic, userID kernel.UUID, event LiveEvent) error
	// Broadcast sends event to every subscriber of topic.
	Broadcast(ctx context.Context, topic Topic, event LiveEvent) error
}

// PushMessage is a notification for a single device.
type PushMessage struct {
	Token      string
	DeviceType string
	Title      string
	Body       string
	Data       map[string]string
}

// PushNotifier is the external push gateway.
type PushNotifier interface {
	Send(ctx context.Context, msg PushMessage) error
}
