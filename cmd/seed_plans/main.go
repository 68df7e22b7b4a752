// Seeds the insurance plan catalog. Run once per environment:
//
//	go run ./cmd/seed_plans
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	now := time.Now()
	plans := []models.InsurancePlan{
		{
			PlanID:       "vg-basic",
			Name:         "VapeGuard Basic",
			Price:        499,
			Currency:     "INR",
			BillingCycle: "monthly",
			Features:     []string{"Respiratory health screening (annual)", "Teleconsultation (2/month)", "Cessation support helpline"},
			Category:     "basic",
			IsActive:     true,
			SortOrder:    1,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			PlanID:       "vg-plus",
			Name:         "VapeGuard Plus",
			Price:        999,
			Currency:     "INR",
			BillingCycle: "monthly",
			Features:     []string{"Everything in Basic", "Pulmonary function test (bi-annual)", "Specialist consultations (4/month)", "Hospitalization cover up to 2L"},
			Category:     "standard",
			IsActive:     true,
			SortOrder:    2,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			PlanID:       "vg-premium",
			Name:         "VapeGuard Premium",
			Price:        1899,
			Currency:     "INR",
			BillingCycle: "monthly",
			Features:     []string{"Everything in Plus", "Full-body checkup (annual)", "Unlimited teleconsultation", "Hospitalization cover up to 5L", "Cessation program with coach"},
			Category:     "premium",
			IsActive:     true,
			SortOrder:    3,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			PlanID:       "vg-annual",
			Name:         "VapeGuard Plus Annual",
			Price:        9999,
			Currency:     "INR",
			BillingCycle: "yearly",
			Features:     []string{"VapeGuard Plus, billed yearly", "Two months free"},
			Category:     "standard",
			IsActive:     true,
			SortOrder:    4,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := store.New(cfg.Database)
	if err := st.Plans.Seed(ctx, plans); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}
	fmt.Printf("Seeded %d insurance plans\n", len(plans))
}
