package services

import (
	"context"

	"taskflow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces the services depend on. The repositories package provides
// the MongoDB and Cassandra implementations; absence of a document is
// reported as repositories.ErrNotFound.

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user models.User) (primitive.ObjectID, error)
	Update(ctx context.Context, user models.User) error
	SetTeams(ctx context.Context, userID primitive.ObjectID, teams []primitive.ObjectID) error
	AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error
}

type TaskStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Task, error)
	FindForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	Insert(ctx context.Context, task models.Task) (primitive.ObjectID, error)
	Update(ctx context.Context, task models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TeamStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Team, error)
	FindAll(ctx context.Context) ([]models.Team, error)
	Insert(ctx context.Context, team models.Team) (primitive.ObjectID, error)
	Update(ctx context.Context, team models.Team) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type NotificationStore interface {
	NotificationWriter
	FindByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error)
	Delete(ctx context.Context, userID, notificationID string) error
}
