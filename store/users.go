package store

import (
	"context"
	"time"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserStore struct {
	col *mongo.Collection
}

// FindByEmail returns the user owning the email, or mongo.ErrNoDocuments.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateProfile rewrites the editable profile fields. Callers guard that the
// user is still unverified before allowing a resubmission.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"name":              user.Name,
		"phone":             user.Phone,
		"date_of_birth":     user.DateOfBirth,
		"city":              user.City,
		"vaping_frequency":  user.VapingFrequency,
		"pan":               user.PAN,
		"aadhaar":           user.Aadhaar,
		"email_verified":    user.EmailVerified,
		"email_verified_at": user.EmailVerifiedAt,
		"updated_at":        time.Now(),
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
