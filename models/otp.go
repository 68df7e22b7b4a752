package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxOTPAttempts is the number of failed verifications allowed per code.
	MaxOTPAttempts = 5

	// PreVerificationTTL is the expiry window for pre-registration codes.
	PreVerificationTTL = 10 * time.Minute

	// LoginOTPTTL is the expiry window for dashboard login codes.
	LoginOTPTTL = 5 * time.Minute
)

// PreVerification is the transient OTP record gating registration. The code is
// held in plaintext; the record itself is short-lived (TTL index, 15 minutes)
// and deleted once the owning application is created.
type PreVerification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// LoginOTP is the transient login challenge for the dashboard. Only a bcrypt
// hash of the code is stored; the hash is cleared on successful verification.
type LoginOTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	CodeHash  string             `bson:"code_hash" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the pre-registration code is past its expiry.
func (p *PreVerification) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Expired reports whether the login code is past its expiry.
func (o *LoginOTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
