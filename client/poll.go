package client

import (
	"context"
	"time"

	"taskflow/logging"
	"taskflow/models"
)

// DefaultPollInterval matches the 30-second notification poll the web client
// runs; there is no push channel.
const DefaultPollInterval = 30 * time.Second

// PollNotifications re-fetches the notification list on every tick until ctx
// is cancelled, invoking fn with each fresh slice. Fetch failures are logged
// and the loop keeps going.
func (c *Client) PollNotifications(ctx context.Context, interval time.Duration, fn func([]models.Notification)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notifications, err := c.RefreshNotifications(ctx)
			if err != nil {
				logging.Logger.Warnf("Event ID: NOTIFICATION_POLL_FAILED, Description: Notification poll failed: %v", err)
				continue
			}
			if fn != nil {
				fn(notifications)
			}
		}
	}
}
