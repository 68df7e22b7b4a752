package store

import (
	"context"
	"time"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PreVerificationStore struct {
	col *mongo.Collection
}

// Upsert replaces any outstanding code for the email with a fresh one and
// resets the attempt counter.
func (s *PreVerificationStore) Upsert(ctx context.Context, email, code string, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"email":      email,
		"code":       code,
		"expires_at": expiresAt,
		"attempts":   0,
		"verified":   false,
		"created_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, update, opts)
	return err
}

func (s *PreVerificationStore) FindByEmail(ctx context.Context, email string) (*models.PreVerification, error) {
	var rec models.PreVerification
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PreVerificationStore) IncrementAttempts(ctx context.Context, email string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$inc": bson.M{"attempts": 1}})
	return err
}

func (s *PreVerificationStore) MarkVerified(ctx context.Context, email string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"verified": true}})
	return err
}

// Delete removes the record once the owning application exists.
func (s *PreVerificationStore) Delete(ctx context.Context, email string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"email": email})
	return err
}

type LoginOTPStore struct {
	col *mongo.Collection
}

func (s *LoginOTPStore) Upsert(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"email":      email,
		"code_hash":  codeHash,
		"expires_at": expiresAt,
		"attempts":   0,
		"verified":   false,
		"created_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, update, opts)
	return err
}

func (s *LoginOTPStore) FindByEmail(ctx context.Context, email string) (*models.LoginOTP, error) {
	var rec models.LoginOTP
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *LoginOTPStore) IncrementAttempts(ctx context.Context, email string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$inc": bson.M{"attempts": 1}})
	return err
}

// MarkVerified sets the verified flag and clears the code hash so the same
// challenge cannot be replayed.
func (s *LoginOTPStore) MarkVerified(ctx context.Context, email string) error {
	update := bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"code_hash": ""},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"email": email}, update)
	return err
}
