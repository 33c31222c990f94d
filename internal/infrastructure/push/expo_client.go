package push

import (
	"context"
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"

	"chatapp/pkg/logger"
)

// ExpoPushClient delivers push messages through the Expo push relay.
type ExpoPushClient struct {
	client *expo.PushClient
}

func NewExpoPushClient() *ExpoPushClient {
	return &ExpoPushClient{
		client: expo.NewPushClient(nil),
	}
}

func (p *ExpoPushClient) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	pushToken, err := expo.NewExponentPushToken(token)
	if err != nil {
		return fmt.Errorf("invalid push token: %w", err)
	}

	message := &expo.PushMessage{
		To:       []expo.ExponentPushToken{pushToken},
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	}

	response, err := p.client.Publish(message)
	if err != nil {
		return err
	}

	if err := response.ValidateResponse(); err != nil {
		logger.Warn("Push relay rejected message for token %s: %v", token, err)
		return err
	}

	return nil
}
