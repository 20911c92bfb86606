package models

import "time"

type NotificationType string

const (
	NotifTaskAssigned NotificationType = "task-assigned"
	NotifTaskUpdated  NotificationType = "task-updated"
	NotifCommentAdded NotificationType = "comment-added"
	NotifTeamInvite   NotificationType = "team-invite"
	NotifTeamRemove   NotificationType = "team-remove"
)

// Notification is an append-only per-user event record. IDs and timestamps
// are assigned by the repository; after creation only the read flag changes.
type Notification struct {
	ID          string           `cassandra:"id" json:"id"`
	UserID      string           `cassandra:"user_id" json:"userId"`
	Type        NotificationType `cassandra:"type" json:"type"`
	Message     string           `cassandra:"message" json:"message"`
	RelatedTask string           `cassandra:"related_task" json:"relatedTask,omitempty"`
	IsRead      bool             `cassandra:"is_read" json:"isRead"`
	CreatedAt   time.Time        `cassandra:"created_at" json:"createdAt"`
}

func (n Notification) OwnedBy(userID string) bool {
	return n.UserID == userID
}
