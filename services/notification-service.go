package services

import (
	"context"
	"errors"

	"taskflow/models"
	"taskflow/repositories"
)

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns all of the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead sets the read flag. The store looks the record up inside the
// actor's own partition, so a notification owned by someone else is simply
// not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	notification, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Notification{}, E(ErrNotFound, "Notification not found")
		}
		return models.Notification{}, err
	}
	return notification, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	err := s.store.Delete(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return E(ErrNotFound, "Notification not found")
		}
		return err
	}
	return nil
}
