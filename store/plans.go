package store

import (
	"context"

	"github.com/vapeguard/insurance-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlanStore struct {
	col *mongo.Collection
}

// Active returns the active catalog sorted by sort order (stable across calls).
func (s *PlanStore) Active(ctx context.Context) ([]models.InsurancePlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "plan_id", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.InsurancePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *PlanStore) FindByPlanID(ctx context.Context, planID string) (*models.InsurancePlan, error) {
	var plan models.InsurancePlan
	err := s.col.FindOne(ctx, bson.M{"plan_id": planID}).Decode(&plan)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Seed upserts catalog entries by plan id. Used by cmd/seed_plans only.
func (s *PlanStore) Seed(ctx context.Context, plans []models.InsurancePlan) error {
	for _, p := range plans {
		opts := options.Replace().SetUpsert(true)
		if _, err := s.col.ReplaceOne(ctx, bson.M{"plan_id": p.PlanID}, p, opts); err != nil {
			return err
		}
	}
	return nil
}
