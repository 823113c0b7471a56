package notification

import (
	"context"
	"fmt"

	"nexusschedule/utils"

	"firebase.google.com/go/v4/messaging"
)

// PushSender delivers a push notification to a device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMSender delivers through Firebase Cloud Messaging using the shared
// client initialized at startup.
type FCMSender struct{}

func (FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("fcm client not initialized")
	}
	if token == "" {
		return fmt.Errorf("recipient has no device token")
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	return nil
}
