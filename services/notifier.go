package services

import (
	"context"
	"fmt"

	"taskflow/logging"
	"taskflow/models"

	"github.com/sony/gobreaker"
)

// NotificationWriter is the append side of the notification store.
type NotificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Notifier runs notification appends as an ordered post-commit hook list.
// Every mutation that produces notifications commits first and then hands the
// records to Dispatch; a failed or breaker-rejected append is logged and never
// surfaces to the caller, so the primary mutation result is unaffected.
type Notifier struct {
	store   NotificationWriter
	breaker *gobreaker.CircuitBreaker
}

func NewNotifier(store NotificationWriter, breaker *gobreaker.CircuitBreaker) *Notifier {
	return &Notifier{store: store, breaker: breaker}
}

func (n *Notifier) Dispatch(ctx context.Context, notifications ...models.Notification) {
	for i := range notifications {
		record := notifications[i]
		_, err := n.breaker.Execute(func() (interface{}, error) {
			return nil, n.store.Create(ctx, &record)
		})
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_APPEND_FAILED, Description: Failed to append %s notification for user %s: %v", record.Type, record.UserID, err)
		}
	}
}

func taskAssignedNotification(userID string, task models.Task) models.Notification {
	return models.Notification{
		UserID:      userID,
		Type:        models.NotifTaskAssigned,
		Message:     fmt.Sprintf("You have been assigned to task: %s", task.Title),
		RelatedTask: task.ID.Hex(),
	}
}

func taskUpdatedNotification(userID string, task models.Task) models.Notification {
	return models.Notification{
		UserID:      userID,
		Type:        models.NotifTaskUpdated,
		Message:     fmt.Sprintf("Task status updated: %s", task.Title),
		RelatedTask: task.ID.Hex(),
	}
}

func commentAddedNotification(userID string, task models.Task) models.Notification {
	return models.Notification{
		UserID:      userID,
		Type:        models.NotifCommentAdded,
		Message:     fmt.Sprintf("New comment on task: %s", task.Title),
		RelatedTask: task.ID.Hex(),
	}
}

func teamInviteNotification(userID string, team models.Team, role models.MemberRole) models.Notification {
	return models.Notification{
		UserID:  userID,
		Type:    models.NotifTeamInvite,
		Message: fmt.Sprintf("You have been added to the team %q as a %s", team.Name, role),
	}
}

func teamRemoveNotification(userID string, team models.Team) models.Notification {
	return models.Notification{
		UserID:  userID,
		Type:    models.NotifTeamRemove,
		Message: fmt.Sprintf("You have been removed from the team %q", team.Name),
	}
}
