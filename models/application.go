package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses. Transitions are explicit handler actions, never
// inferred; see the application handler for the allowed moves.
const (
	StatusDraft          = "draft"
	StatusSubmitted      = "submitted"
	StatusUnderReview    = "under_review"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
	StatusPaymentPending = "payment_pending"
	StatusCompleted      = "completed"
	StatusEnrolled       = "enrolled"
)

// ApplicationMetadata records where a submission came from.
type ApplicationMetadata struct {
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	Source    string `bson:"source,omitempty" json:"source,omitempty"`
}

// Application is one user's attempt to register for an insurance plan. The
// application number is assigned exactly once, on insert, and never changes.
type Application struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID  `bson:"user_id" json:"userId"`
	InsurancePlanID   string              `bson:"insurance_plan_id,omitempty" json:"insurancePlanId,omitempty"`
	ApplicationNumber string              `bson:"application_number" json:"applicationNumber"`
	Status            string              `bson:"status" json:"status"`
	IsEnrolled        bool                `bson:"is_enrolled" json:"isEnrolled"`
	EnrolledAt        *time.Time          `bson:"enrolled_at,omitempty" json:"enrolledAt,omitempty"`
	SubmittedAt       *time.Time          `bson:"submitted_at,omitempty" json:"submittedAt,omitempty"`
	CompletedAt       *time.Time          `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Metadata          ApplicationMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt         time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updated_at" json:"updatedAt"`

	// Plan is populated on reads that join the catalog; never persisted.
	Plan *InsurancePlan `bson:"-" json:"plan,omitempty"`
}
