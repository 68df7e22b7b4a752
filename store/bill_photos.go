package store

import (
	"context"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BillPhotoStore struct {
	col *mongo.Collection
}

// Upsert replaces the application's bill photo; one per application.
func (s *BillPhotoStore) Upsert(ctx context.Context, photo *models.BillPhoto) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"application_id": photo.ApplicationID}, photo, opts)
	return err
}

func (s *BillPhotoStore) FindByApplication(ctx context.Context, applicationID primitive.ObjectID) (*models.BillPhoto, error) {
	var photo models.BillPhoto
	err := s.col.FindOne(ctx, bson.M{"application_id": applicationID}).Decode(&photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
