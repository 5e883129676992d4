package fcm

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/Manemax937/HostelApp/internal/domain"
)

// androidChannelID is the notification channel the mobile client registers.
const androidChannelID = "comfort_pg_channel"

// clickAction tells the Flutter client how to route a tapped notification.
const clickAction = "FLUTTER_NOTIFICATION_CLICK"

// PushMessage is the platform-neutral envelope built per recipient per send.
// It is never persisted.
type PushMessage struct {
	Token string
	Title string
	Body  string
	// Data carries the type tag plus a recipient/context identifier.
	Data map[string]string
}

// Sender delivers push messages. Implementations must report a permanently
// unusable token by wrapping domain.ErrTokenNotRegistered.
type Sender interface {
	Send(ctx context.Context, msg PushMessage) error
}

type sender struct {
	client *messaging.Client
}

func NewSender(client *messaging.Client) Sender {
	return &sender{client: client}
}

func (s *sender) Send(ctx context.Context, msg PushMessage) error {
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	data["click_action"] = clickAction

	badge := 1
	m := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID:    androidChannelID,
				DefaultSound: true,
			},
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}

	_, err := s.client.Send(ctx, m)
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("token for message %q: %w", msg.Title, domain.ErrTokenNotRegistered)
		}
		return err
	}
	return nil
}
