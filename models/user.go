package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VapingHabit captures how often the applicant vapes.
type VapingHabit struct {
	Value   int    `bson:"value" json:"value"`
	Cadence string `bson:"cadence" json:"cadence"` // daily, weekly, monthly
}

// User represents a registered applicant. Created on the first verified
// personal-details submission; profile fields stay editable only while the
// email is unverified.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	DateOfBirth     time.Time          `bson:"date_of_birth" json:"dateOfBirth"`
	City            string             `bson:"city" json:"city"`
	VapingFrequency VapingHabit        `bson:"vaping_frequency" json:"vapingFrequency"`
	PAN             string             `bson:"pan,omitempty" json:"-"`
	Aadhaar         string             `bson:"aadhaar,omitempty" json:"-"`
	EmailVerified   bool               `bson:"email_verified" json:"emailVerified"`
	EmailVerifiedAt *time.Time         `bson:"email_verified_at,omitempty" json:"emailVerifiedAt,omitempty"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Age returns the user's age in whole years at the given instant.
func (u *User) Age(at time.Time) int {
	years := at.Year() - u.DateOfBirth.Year()
	anniversary := u.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
