// Package store holds thin typed repositories over the Mongo collections.
// Handlers talk to these instead of raw collections so cross-document reads
// (plan population, aggregations) live in one place.
package store

import (
	"github.com/vapeguard/insurance-api/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the per-entity repositories.
type Store struct {
	Users            *UserStore
	PreVerifications *PreVerificationStore
	LoginOTPs        *LoginOTPStore
	Applications     *ApplicationStore
	Plans            *PlanStore
	Payments         *PaymentStore
	BillPhotos       *BillPhotoStore
}

// New builds the repositories against the named database.
func New(database string) *Store {
	col := func(name string) *mongo.Collection {
		return utils.GetCollection(database, name)
	}
	return &Store{
		Users:            &UserStore{col: col("users")},
		PreVerifications: &PreVerificationStore{col: col("pre_verifications")},
		LoginOTPs:        &LoginOTPStore{col: col("login_otps")},
		Applications:     &ApplicationStore{col: col("applications")},
		Plans:            &PlanStore{col: col("insurance_plans")},
		Payments:         &PaymentStore{col: col("payments")},
		BillPhotos:       &BillPhotoStore{col: col("bill_photos")},
	}
}
