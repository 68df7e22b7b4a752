package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsurancePlan is a catalog entry. Plans are seeded offline (cmd/seed_plans)
// and read-mostly; the application flow never creates one.
type InsurancePlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID       string             `bson:"plan_id" json:"planId"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Currency     string             `bson:"currency" json:"currency"`
	BillingCycle string             `bson:"billing_cycle" json:"billingCycle"` // monthly, yearly
	Features     []string           `bson:"features" json:"features"`
	Category     string             `bson:"category" json:"category"`
	IsActive     bool               `bson:"is_active" json:"isActive"`
	SortOrder    int                `bson:"sort_order" json:"sortOrder"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
