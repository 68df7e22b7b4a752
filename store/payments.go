package store

import (
	"context"
	"time"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentStore struct {
	col *mongo.Collection
}

func (s *PaymentStore) Insert(ctx context.Context, p *models.Payment) error {
	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *PaymentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Latest returns the newest payment row for an application.
func (s *PaymentStore) Latest(ctx context.Context, applicationID primitive.ObjectID) (*models.Payment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var p models.Payment
	err := s.col.FindOne(ctx, bson.M{"application_id": applicationID}, opts).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPending returns the newest still-pending payment for an application.
func (s *PaymentStore) LatestPending(ctx context.Context, applicationID primitive.ObjectID) (*models.Payment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var p models.Payment
	err := s.col.FindOne(ctx, bson.M{
		"application_id": applicationID,
		"status":         models.PaymentPending,
	}, opts).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PaymentStore) FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	err := s.col.FindOne(ctx, bson.M{"razorpay_order_id": orderID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUser returns the user's payments, newest first.
func (s *PaymentStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes one payment row. Used to back out a pending row whose
// application transition was rejected.
func (s *PaymentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Update applies a $set to one payment.
func (s *PaymentStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// MonthlyBucket is one month of completed-payment activity.
type MonthlyBucket struct {
	Month int     `bson:"month" json:"month"`
	Total float64 `bson:"total" json:"total"`
	Count int     `bson:"count" json:"count"`
}

// MonthlyTotals groups the user's completed payments for one year by month of
// completed_at, falling back to created_at for rows that never recorded it.
// Months with no activity are absent; the dashboard zero-fills them.
func (s *PaymentStore) MonthlyTotals(ctx context.Context, userID primitive.ObjectID, year int) ([]MonthlyBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"status":  models.PaymentCompleted,
		}}},
		{{Key: "$addFields", Value: bson.M{
			"effective_at": bson.M{"$ifNull": bson.A{"$completed_at", "$created_at"}},
		}}},
		{{Key: "$match", Value: bson.M{
			"$expr": bson.M{"$eq": bson.A{bson.M{"$year": "$effective_at"}, year}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$effective_at"},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"month": "$_id",
			"total": 1,
			"count": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"month": 1}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []MonthlyBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
