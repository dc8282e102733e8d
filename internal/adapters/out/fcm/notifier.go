// Package fcm sends push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// Sender is the part of *messaging.Client the notifier uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier implements ports.PushNotifier.
type Notifier struct {
	sender Sender
	logger *slog.Logger
}

// New builds a Notifier backed by the Firebase Admin SDK. An empty
// credentialsFile falls back to application default credentials.
func New(ctx context.Context, projectID, credentialsFile string, logger *slog.Logger) (*Notifier, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	return NewWithSender(client, logger), nil
}

func NewWithSender(sender Sender, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger.With("component", "fcm")}
}

func (n *Notifier) Send(ctx context.Context, msg ports.PushMessage) error {
	if msg.Token == "" {
		return errs.NewValueIsRequiredError("token")
	}

	id, err := n.sender.Send(ctx, buildMessage(msg))
	if err != nil {
		return fmt.Errorf("sending FCM message: %w", err)
	}

	n.logger.DebugContext(ctx, "push sent", "messageId", id, "deviceType", msg.DeviceType)
	return nil
}

func buildMessage(msg ports.PushMessage) *messaging.Message {
	m := &messaging.Message{
		Token: msg.Token,
		Data:  msg.Data,
	}

	switch msg.DeviceType {
	case "ios":
		m.APNS = &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: msg.Title, Body: msg.Body},
					Sound: "default",
				},
			},
		}
	default:
		m.Notification = &messaging.Notification{Title: msg.Title, Body: msg.Body}
		m.Android = &messaging.AndroidConfig{Priority: "high"}
	}
	return m
}
