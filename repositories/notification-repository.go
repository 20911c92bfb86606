package repositories

import (
	"context"
	"fmt"
	"time"

	"taskflow/logging"
	"taskflow/models"

	"github.com/gocql/gocql"
)

type NotificationRepo struct {
	session *gocql.Session
}

// NewNotificationRepo connects to Cassandra and prepares the notifications
// keyspace and table.
func NewNotificationRepo(host string) (*NotificationRepo, error) {
	if host == "" {
		host = "127.0.0.1"
	}

	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %v", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %v", err)
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notifications keyspace: %v", err)
	}

	repo := &NotificationRepo{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Info("Connected to Cassandra notifications keyspace.")
	return repo, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Cassandra session closed.")
}

// The recipient is the partition key; clustering by created_at DESC keeps
// each user's list newest first without an explicit sort.
func (nr *NotificationRepo) createTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id TEXT,
			type TEXT,
			message TEXT,
			related_task TEXT,
			is_read BOOLEAN,
			created_at TIMESTAMP,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %v", err)
	}
	return nil
}

func (nr *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, user_id, type, message, related_task, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.UserID, string(notification.Type), notification.Message,
		notification.RelatedTask, notification.IsRead, notification.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notification: %v", err)
	}
	return nil
}

func (nr *NotificationRepo) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `SELECT id, user_id, type, message, related_task, is_read, created_at
			  FROM notifications WHERE user_id = ?`

	iter := nr.session.Query(query, userID).WithContext(ctx).Iter()
	var notifications []models.Notification
	var n models.Notification
	var typ string

	for iter.Scan(&n.ID, &n.UserID, &typ, &n.Message, &n.RelatedTask, &n.IsRead, &n.CreatedAt) {
		n.Type = models.NotificationType(typ)
		notifications = append(notifications, n)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	return notifications, nil
}

// findInPartition locates a notification by id within the user's partition.
// The table is keyed by (user_id, created_at, id), so the created_at of the
// row has to be recovered before it can be updated or deleted.
func (nr *NotificationRepo) findInPartition(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	notifications, err := nr.FindByUser(ctx, userID)
	if err != nil {
		return models.Notification{}, err
	}
	for _, n := range notifications {
		if n.ID == notificationID {
			return n, nil
		}
	}
	return models.Notification{}, ErrNotFound
}

func (nr *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	n, err := nr.findInPartition(ctx, userID, notificationID)
	if err != nil {
		return models.Notification{}, err
	}

	uuid, err := gocql.ParseUUID(n.ID)
	if err != nil {
		return models.Notification{}, fmt.Errorf("invalid notification id: %v", err)
	}

	query := `UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(query, userID, n.CreatedAt, uuid).WithContext(ctx).Exec(); err != nil {
		return models.Notification{}, fmt.Errorf("failed to mark notification as read: %v", err)
	}

	n.IsRead = true
	return n, nil
}

func (nr *NotificationRepo) Delete(ctx context.Context, userID, notificationID string) error {
	n, err := nr.findInPartition(ctx, userID, notificationID)
	if err != nil {
		return err
	}

	uuid, err := gocql.ParseUUID(n.ID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %v", err)
	}

	query := `DELETE FROM notifications WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(query, userID, n.CreatedAt, uuid).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to delete notification: %v", err)
	}
	return nil
}
