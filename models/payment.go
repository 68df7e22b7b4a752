package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
	PaymentCancelled  = "cancelled"
)

// Payment methods accepted by the portal.
var PaymentMethods = []string{"upi", "phonepe", "gpay", "paytm", "netbanking", "card"}

// Refund is the refund sub-document on a payment.
type Refund struct {
	RefundID    string    `bson:"refund_id,omitempty" json:"refundId,omitempty"`
	Amount      float64   `bson:"amount" json:"amount"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	Status      string    `bson:"status" json:"status"` // pending, processed
	RequestedAt time.Time `bson:"requested_at" json:"requestedAt"`
}

// Payment is one payment attempt against an application. The transaction ID
// is generated lazily the first time status leaves "pending".
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	ApplicationID primitive.ObjectID `bson:"application_id" json:"applicationId"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Method        string             `bson:"method" json:"method"`
	UPIID         string             `bson:"upi_id,omitempty" json:"upiId,omitempty"`
	BankName      string             `bson:"bank_name,omitempty" json:"bankName,omitempty"`
	AccountNumber string             `bson:"account_number,omitempty" json:"accountNumber,omitempty"`

	RazorpayOrderID   string `bson:"razorpay_order_id,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string `bson:"razorpay_payment_id,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string `bson:"razorpay_signature,omitempty" json:"-"`

	Status        string     `bson:"status" json:"status"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	FailureReason string     `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`
	Refund        *Refund    `bson:"refund,omitempty" json:"refund,omitempty"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updatedAt"`

	// Plan is populated on dashboard reads; never persisted.
	Plan *InsurancePlan `bson:"-" json:"plan,omitempty"`
}
