package service

import "context"

// PushService delivers one push message through the third-party relay.
// Delivery is best-effort: callers log failures and move on, and no
// retry/backoff is layered on top.
type PushService interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
