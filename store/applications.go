package store

import (
	"context"
	"errors"
	"time"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusConflict is returned when a compare-and-swap transition finds the
// application in an unexpected status (e.g. a concurrent duplicate submit).
var ErrStatusConflict = errors.New("application is not in a valid status for this transition")

type ApplicationStore struct {
	col *mongo.Collection
}

func (s *ApplicationStore) Insert(ctx context.Context, app *models.Application) error {
	res, err := s.col.InsertOne(ctx, app)
	if err != nil {
		return err
	}
	app.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ApplicationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var app models.Application
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByUser returns the user's applications, newest first.
func (s *ApplicationStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []models.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Transition moves the application from one of the expected statuses into the
// fields given in set, atomically. It fails with ErrStatusConflict when the
// document is no longer in an expected status, which is how concurrent
// duplicate submissions lose.
func (s *ApplicationStore) Transition(ctx context.Context, id primitive.ObjectID, from []string, set bson.M) (*models.Application, error) {
	set["updated_at"] = time.Now()
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.Application
	err := s.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&app)
	if err == mongo.ErrNoDocuments {
		// Distinguish "gone" from "lost the race / wrong step order".
		if _, findErr := s.FindByID(ctx, id); findErr == nil {
			return nil, ErrStatusConflict
		}
		return nil, mongo.ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}
