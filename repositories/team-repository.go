package repositories

import (
	"context"
	"errors"
	"fmt"

	"taskflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TeamRepo struct {
	collection *mongo.Collection
}

func NewTeamRepo(collection *mongo.Collection) *TeamRepo {
	return &TeamRepo{collection: collection}
}

func (r *TeamRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, ErrNotFound
		}
		return models.Team{}, fmt.Errorf("failed to fetch team: %v", err)
	}
	return team, nil
}

func (r *TeamRepo) FindAll(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %v", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %v", err)
	}
	return teams, nil
}

func (r *TeamRepo) Insert(ctx context.Context, team models.Team) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, team)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create team: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *TeamRepo) Update(ctx context.Context, team models.Team) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	if err != nil {
		return fmt.Errorf("failed to update team: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete team: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
